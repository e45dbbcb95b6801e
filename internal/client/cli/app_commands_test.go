package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/payshield/payshield-cli/internal/client/api"
	"github.com/payshield/payshield-cli/internal/client/config"
	"github.com/payshield/payshield-cli/internal/client/models"
	"github.com/payshield/payshield-cli/internal/client/pagecache"
	"github.com/payshield/payshield-cli/internal/client/session"
	"github.com/payshield/payshield-cli/internal/client/tokenstore"
	"github.com/payshield/payshield-cli/internal/logging"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func testToken(t *testing.T, userID int64, name, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, session.Claims{
		UserID: userID,
		Name:   name,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// fakeClient implements api.Client for command tests. The cache may call
// ListTransactions from prefetch goroutines, so counters are locked.
type fakeClient struct {
	mu sync.Mutex

	loginTok  string
	loginErr  error
	signupID  int64
	signupErr error

	rows      []models.Transaction
	listErr   error
	getTx     *models.Transaction
	getErr    error
	created   *models.CreateResult
	createErr error
	summary   *models.Summary

	uploadResp *api.UploadResponse
	uploadErr  error
	jobs       []*models.UploadJob

	loginCalls  int
	signupCalls int
	logoutCalls int
	listCalls   int
	createCalls int
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.loginTok, f.loginErr
}

func (f *fakeClient) Signup(ctx context.Context, req api.SignupRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signupCalls++
	return f.signupID, f.signupErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return nil
}

func (f *fakeClient) CreateTransaction(ctx context.Context, amount float64, mode models.TransactionMode) (*models.CreateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	return f.created, f.createErr
}

func (f *fakeClient) ListTransactions(ctx context.Context, limit, offset int) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if offset >= len(f.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[offset:end], nil
}

func (f *fakeClient) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	return f.getTx, f.getErr
}

func (f *fakeClient) Summary(ctx context.Context) (*models.Summary, error) {
	return f.summary, nil
}

func (f *fakeClient) UploadBulk(ctx context.Context, filename string, file io.Reader) (*api.UploadResponse, error) {
	return f.uploadResp, f.uploadErr
}

func (f *fakeClient) JobStatus(ctx context.Context, jobID string) (*models.UploadJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.jobs) == 0 {
		return &models.UploadJob{JobID: jobID, Status: models.JobProcessing}, nil
	}
	job := f.jobs[0]
	if len(f.jobs) > 1 {
		f.jobs = f.jobs[1:]
	}
	return job, nil
}

func (f *fakeClient) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func newTestApp(t *testing.T, fc *fakeClient, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()

	log := logging.NewDefault(io.Discard, slog.LevelDebug)
	store := tokenstore.NewMemoryStore()
	mgr := session.NewManager(fc, store, log)
	cache := pagecache.New(fc.ListTransactions, log, pagecache.Options{})

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.PollInterval = time.Millisecond

	out := &bytes.Buffer{}
	app := &App{
		config:  cfg,
		log:     log,
		api:     fc,
		session: mgr,
		cache:   cache,
		pager:   pagecache.NewPager(cfg.DefaultPageSize),
		reader:  readerFromLines(lines...),
		out:     out,
	}
	return app, out
}

func loginTestApp(t *testing.T, app *App, fc *fakeClient) {
	t.Helper()
	fc.loginTok = testToken(t, 7, "Bob", "bob@example.com")
	require.NoError(t, app.session.Login(context.Background(), "bob@example.com", "Secret1!"))
}

// ------------ auth commands ------------

func TestSignup_Success(t *testing.T) {
	fc := &fakeClient{signupID: 11}
	app, out := newTestApp(t, fc, "Carol Smith", "carol@example.com", "9876543210")
	stubPassword(t, "Secret1@")

	require.NoError(t, app.Signup(context.Background()))
	require.Equal(t, 1, fc.signupCalls)
	require.Contains(t, out.String(), "Account created (id 11)")

	// Signup never establishes a session.
	require.False(t, app.session.IsAuthenticated())
}

func TestSignup_InvalidEmailNeverReachesNetwork(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(t, fc, "Carol Smith", "not-an-email")

	require.Error(t, app.Signup(context.Background()))
	require.Zero(t, fc.signupCalls)
	require.Contains(t, out.String(), "valid email")
}

func TestSignup_WeakPasswordRejectedLocally(t *testing.T) {
	fc := &fakeClient{}
	app, _ := newTestApp(t, fc, "Carol Smith", "carol@example.com", "9876543210")
	stubPassword(t, "weak")

	require.Error(t, app.Signup(context.Background()))
	require.Zero(t, fc.signupCalls)
}

func TestLogin_Success(t *testing.T) {
	fc := &fakeClient{loginTok: testToken(t, 7, "Bob", "bob@example.com")}
	app, out := newTestApp(t, fc, "bob@example.com")
	stubPassword(t, "Secret1!")

	require.NoError(t, app.Login(context.Background()))
	require.True(t, app.session.IsAuthenticated())
	require.Contains(t, out.String(), "Logged in as Bob")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	fc := &fakeClient{loginErr: api.ErrUnauthorized}
	app, out := newTestApp(t, fc, "bob@example.com")
	stubPassword(t, "Wrong1!!")

	require.Error(t, app.Login(context.Background()))
	require.False(t, app.session.IsAuthenticated())
	require.Contains(t, out.String(), "invalid email or password")
	require.Equal(t, 1, fc.loginCalls)
}

func TestLogin_WhenAlreadyAuthenticatedRedirects(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(t, fc)
	loginTestApp(t, app, fc)
	callsAfterSetup := fc.loginCalls

	require.NoError(t, app.Login(context.Background()))
	require.Equal(t, callsAfterSetup, fc.loginCalls)
	require.Contains(t, out.String(), "Already logged in")
}

func TestLogout_RequiresAuth(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(t, fc)

	require.NoError(t, app.Logout(context.Background()))
	require.Zero(t, fc.logoutCalls)
	require.Contains(t, out.String(), "Please login first")
}

func TestLogout_ClearsSession(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(t, fc)
	loginTestApp(t, app, fc)

	require.NoError(t, app.Logout(context.Background()))
	require.False(t, app.session.IsAuthenticated())
	require.Equal(t, 1, fc.logoutCalls)
	require.Contains(t, out.String(), "Logged out")
}

// ------------ transaction commands ------------

func TestList_RequiresAuth(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(t, fc)

	require.NoError(t, app.List(context.Background()))
	require.Zero(t, fc.ListCalls())
	require.Contains(t, out.String(), "Please login first")
}

func TestList_PrintsPage(t *testing.T) {
	fc := &fakeClient{rows: []models.Transaction{
		{ID: 1, Amount: 2500, Mode: models.ModeUPI, RiskScore: 12.5, Decision: models.DecisionAllow},
		{ID: 2, Amount: 90000, Mode: models.ModeCard, RiskScore: 78, Decision: models.DecisionBlock},
	}}
	app, out := newTestApp(t, fc)
	loginTestApp(t, app, fc)

	require.NoError(t, app.List(context.Background()))
	require.Contains(t, out.String(), "#1")
	require.Contains(t, out.String(), "BLOCK")
}

func TestCreate_InvalidAmountNeverReachesNetwork(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(t, fc, "-10")
	loginTestApp(t, app, fc)

	require.Error(t, app.Create(context.Background()))
	require.Zero(t, fc.createCalls)
	require.Contains(t, out.String(), "greater than zero")
}

func TestCreate_SubmitsAndInvalidatesCache(t *testing.T) {
	fc := &fakeClient{
		rows:    []models.Transaction{{ID: 1, Amount: 100, Mode: models.ModeUPI}},
		created: &models.CreateResult{ID: 9, Decision: models.DecisionFlag, RiskScore: 55, TriggeredFactors: []string{"HIGH_AMOUNT"}},
	}
	app, out := newTestApp(t, fc, "125000", "upi")
	loginTestApp(t, app, fc)

	// Warm the cache, then create; the next list must refetch.
	require.NoError(t, app.List(context.Background()))
	listCalls := fc.ListCalls()

	require.NoError(t, app.Create(context.Background()))
	require.Contains(t, out.String(), "FLAG")
	require.Contains(t, out.String(), "HIGH_AMOUNT")

	require.NoError(t, app.List(context.Background()))
	require.Greater(t, fc.ListCalls(), listCalls)
}

func TestShow_NotFound(t *testing.T) {
	fc := &fakeClient{getErr: api.ErrNotFound}
	app, out := newTestApp(t, fc)
	loginTestApp(t, app, fc)

	require.Error(t, app.Show(context.Background(), []string{"42"}))
	require.Contains(t, out.String(), "Transaction 42 not found")
}

func TestSetPageSize_ResetsToFirstPage(t *testing.T) {
	fc := &fakeClient{rows: make([]models.Transaction, 60)}
	app, _ := newTestApp(t, fc)
	loginTestApp(t, app, fc)

	require.NoError(t, app.NextPage(context.Background()))
	require.Equal(t, 2, app.pager.Page())

	require.NoError(t, app.SetPageSize(context.Background(), []string{"25"}))
	require.Equal(t, 25, app.pager.Limit())
	require.Equal(t, 1, app.pager.Page())
}

func TestSummary_Prints(t *testing.T) {
	fc := &fakeClient{summary: &models.Summary{
		TotalTransactions:   12,
		AllowedTransactions: 9,
		FlaggedTransactions: 2,
		BlockedTransactions: 1,
		TriggeredFactorsBreakdown: map[string]int{
			"HIGH_AMOUNT": 3,
		},
	}}
	app, out := newTestApp(t, fc)
	loginTestApp(t, app, fc)

	require.NoError(t, app.Summary(context.Background()))
	require.Contains(t, out.String(), "12 total")
	require.Contains(t, out.String(), "HIGH_AMOUNT")
}

// ------------ upload command ------------

func TestUpload_BadExtensionShown(t *testing.T) {
	fc := &fakeClient{}
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	app, out := newTestApp(t, fc)
	loginTestApp(t, app, fc)

	require.Error(t, app.Upload(context.Background(), []string{path}))
	require.Contains(t, out.String(), "CSV or Excel")
}

func TestUpload_JobFollowedToCompletion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q1.csv")
	require.NoError(t, os.WriteFile(path, []byte("amount,mode\n100,UPI\n"), 0o600))

	fc := &fakeClient{
		uploadResp: &api.UploadResponse{Job: &models.UploadJob{JobID: "job-1", Status: models.JobPending}},
		jobs: []*models.UploadJob{
			{JobID: "job-1", Status: models.JobCompleted, Progress: &models.JobProgress{Total: 1, Processed: 1, Percent: 100}},
		},
	}
	app, out := newTestApp(t, fc)
	loginTestApp(t, app, fc)

	require.NoError(t, app.Upload(context.Background(), []string{path}))
	require.Contains(t, out.String(), "Upload complete")
}
