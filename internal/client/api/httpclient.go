package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/payshield/payshield-cli/internal/client/models"
	"github.com/payshield/payshield-cli/internal/logging"
)

// HTTPClient is the production Client backed by net/http.
//
// A bearer token from the TokenSource is attached to every request whose
// path starts with /api. Responses with status 401 on those paths invoke
// the registered unauthorized hook before the error is returned, so the
// session layer can purge local state no matter which call tripped it.
type HTTPClient struct {
	baseURL        string
	hc             *http.Client
	tokens         TokenSource
	onUnauthorized func()
	log            logging.Logger
}

func NewHTTPClient(baseURL string, tokens TokenSource, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{},
		tokens:  tokens,
		log:     log.With("component", "api"),
	}
}

// OnUnauthorized registers fn to be called whenever a protected request
// comes back with status 401. At most one hook is kept.
func (c *HTTPClient) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response contained no token")
	}
	return resp.Token, nil
}

func (c *HTTPClient) Signup(ctx context.Context, req SignupRequest) (int64, error) {
	var resp struct {
		Message string `json:"message"`
		ID      int64  `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/signup", req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	var resp struct {
		Message string `json:"message"`
	}
	return c.doJSON(ctx, http.MethodPost, "/api/logout", nil, &resp)
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, amount float64, mode models.TransactionMode) (*models.CreateResult, error) {
	req := struct {
		Amount float64                `json:"amount"`
		Mode   models.TransactionMode `json:"mode"`
	}{Amount: amount, Mode: mode}

	var resp models.CreateResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/transactions", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListTransactions(ctx context.Context, limit, offset int) ([]models.Transaction, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var resp []models.Transaction
	if err := c.doJSON(ctx, http.MethodGet, "/api/transactions?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	// An empty page is a valid result, not an error.
	return resp, nil
}

func (c *HTTPClient) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	var resp models.Transaction
	path := fmt.Sprintf("/api/transactions/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Summary(ctx context.Context) (*models.Summary, error) {
	var resp struct {
		Data models.Summary `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/transactions/summary", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *HTTPClient) UploadBulk(ctx context.Context, filename string, file io.Reader) (*UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, fmt.Errorf("reading upload file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/transactions/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var resp struct {
		JobID    string               `json:"job_id"`
		Status   models.JobStatus     `json:"status"`
		Progress *models.JobProgress  `json:"progress"`
		Message  string               `json:"message"`
		Data     *models.UploadResult `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}

	if resp.JobID != "" {
		return &UploadResponse{Job: &models.UploadJob{
			JobID:    resp.JobID,
			Status:   resp.Status,
			Progress: resp.Progress,
		}}, nil
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("upload response contained neither job_id nor result")
	}
	return &UploadResponse{Result: resp.Data}, nil
}

func (c *HTTPClient) JobStatus(ctx context.Context, jobID string) (*models.UploadJob, error) {
	var resp models.UploadJob
	path := "/api/transactions/upload/" + url.PathEscape(jobID) + "/status"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doJSON marshals body (when non-nil), performs the request and decodes a
// successful response into out.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	respBody, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	// Only protected routes carry the credential.
	if strings.HasPrefix(path, "/api") && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *HTTPClient) send(req *http.Request) ([]byte, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, c.mapError(req, resp.StatusCode, body)
}

func (c *HTTPClient) mapError(req *http.Request, status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		if strings.HasPrefix(req.URL.Path, "/api") && c.onUnauthorized != nil {
			c.log.Warn(req.Context(), "request rejected with 401, purging session",
				"method", req.Method, "path", req.URL.Path)
			c.onUnauthorized()
		}
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	default:
		return &Error{Status: status, Message: serverMessage(body)}
	}
}

// serverMessage extracts a human-readable message from an error body.
// The backend uses {"error": ...} for most failures and {"message": ...}
// for upload rejections.
func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
