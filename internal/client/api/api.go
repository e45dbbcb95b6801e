// Package api implements the JSON-over-HTTP client for the PayShield
// dashboard backend. All protected endpoints live under /api and carry
// a bearer token; /login and /signup are anonymous.
package api

import (
	"context"
	"io"

	"github.com/payshield/payshield-cli/internal/client/models"
)

// SignupRequest carries the fields needed to create an account.
// No session is established on success; the caller logs in afterwards.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile,omitempty"`
	Password string `json:"password"`
}

// UploadResponse is the outcome of a bulk upload. Exactly one of Job or
// Result is set: Result when the server ingested the file synchronously,
// Job when it queued a background job to be polled.
type UploadResponse struct {
	Job    *models.UploadJob
	Result *models.UploadResult
}

// Client is the API surface the rest of the application depends on.
type Client interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	Signup(ctx context.Context, req SignupRequest) (id int64, err error)
	Logout(ctx context.Context) error

	CreateTransaction(ctx context.Context, amount float64, mode models.TransactionMode) (*models.CreateResult, error)
	ListTransactions(ctx context.Context, limit, offset int) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	Summary(ctx context.Context) (*models.Summary, error)

	UploadBulk(ctx context.Context, filename string, file io.Reader) (*UploadResponse, error)
	JobStatus(ctx context.Context, jobID string) (*models.UploadJob, error)
}

// TokenSource supplies the current bearer token, or "" when there is none.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
