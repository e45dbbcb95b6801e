// Package session owns the authentication state of the client: whether a
// user is logged in, who they are, and the lifecycle of the stored bearer
// token. It is the only component allowed to decide "is the user
// authenticated".
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/payshield/payshield-cli/internal/client/api"
	"github.com/payshield/payshield-cli/internal/client/models"
	"github.com/payshield/payshield-cli/internal/client/tokenstore"
	"github.com/payshield/payshield-cli/internal/logging"
)

var (
	// ErrInvalidCredentials is returned for a rejected login. The message is
	// deliberately generic so it does not leak which field was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
)

// AuthAPI is the slice of the API the session manager needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	Signup(ctx context.Context, req api.SignupRequest) (id int64, err error)
	Logout(ctx context.Context) error
}

// Manager holds the session state machine. It is constructed once at
// startup and injected into every consumer; there is no package-level
// session singleton.
//
// Invariant: the in-memory user is non-nil if and only if a well-formed,
// unexpired token is held. An expired or malformed token is treated as
// absent and purges both the token and the user snapshot.
type Manager struct {
	api   AuthAPI
	store tokenstore.Store
	log   logging.Logger
	now   func() time.Time

	mu        sync.Mutex
	token     string
	user      *models.User
	loading   bool
	onExpired []func()
}

func NewManager(a AuthAPI, store tokenstore.Store, log logging.Logger) *Manager {
	return &Manager{
		api:   a,
		store: store,
		log:   log.With("component", "session"),
		now:   time.Now,
	}
}

// Restore loads a previously stored token on application start. The token
// is decoded and expiry-checked locally; a structurally invalid or expired
// token is purged immediately without any network call.
func (m *Manager) Restore(ctx context.Context) error {
	m.setLoading(true)
	defer m.setLoading(false)

	token, err := m.store.Token(ctx)
	if err != nil {
		return fmt.Errorf("loading stored token: %w", err)
	}
	if token == "" {
		return nil
	}

	user, err := userFromToken(token, m.now())
	if err != nil {
		m.log.Info(ctx, "stored token unusable, purging", "reason", err)
		return m.store.Clear(ctx)
	}

	// Re-derive the snapshot from the claims rather than trusting the
	// stored copy; the token is canonical.
	if err := m.store.SetSession(ctx, token, user); err != nil {
		return fmt.Errorf("refreshing user snapshot: %w", err)
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()

	m.log.Info(ctx, "session restored", "user_id", user.ID)
	return nil
}

// Login authenticates against the server. On success the token is
// persisted together with the identity derived from its claims. Failures
// leave the session unauthenticated and are never retried automatically.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.setLoading(true)
	defer m.setLoading(false)

	token, err := m.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("login: %w", err)
	}

	user, err := userFromToken(token, m.now())
	if err != nil {
		// The server handed us a token we cannot decode. Nothing was
		// persisted, so there is nothing to purge.
		return fmt.Errorf("server returned unusable token: %w", err)
	}

	if err := m.store.SetSession(ctx, token, user); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()

	m.log.Info(ctx, "logged in", "user_id", user.ID, "email", user.Email)
	return nil
}

// Signup creates an account. By design it does not establish a session;
// the user logs in explicitly afterwards.
func (m *Manager) Signup(ctx context.Context, name, email, mobile, password string) (int64, error) {
	m.setLoading(true)
	defer m.setLoading(false)

	id, err := m.api.Signup(ctx, api.SignupRequest{
		Name:     name,
		Email:    email,
		Mobile:   mobile,
		Password: password,
	})
	if err != nil {
		return 0, fmt.Errorf("signup: %w", err)
	}
	return id, nil
}

// Logout notifies the server best-effort and then clears local state
// unconditionally. The user's intent to leave the authenticated state
// takes priority over server acknowledgment, so a failed network call is
// logged and swallowed.
func (m *Manager) Logout(ctx context.Context) error {
	m.setLoading(true)
	defer m.setLoading(false)

	if err := m.api.Logout(ctx); err != nil {
		m.log.Warn(ctx, "logout request failed, clearing local session anyway", "error", err)
	}
	return m.purge(ctx)
}

// HandleUnauthorized reacts to a 401 from any protected request: the token
// is no longer valid for any endpoint, so the session is purged exactly as
// on logout and expiry observers are notified.
func (m *Manager) HandleUnauthorized() {
	ctx := context.Background()
	if err := m.purge(ctx); err != nil {
		m.log.Error(ctx, "purging session after 401", "error", err)
	}

	m.mu.Lock()
	observers := make([]func(), len(m.onExpired))
	copy(observers, m.onExpired)
	m.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// OnExpired registers fn to run when the session is invalidated by a 401.
func (m *Manager) OnExpired(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpired = append(m.onExpired, fn)
}

// IsAuthenticated reports whether a valid session is held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

// IsLoading reports whether a network leg of a session operation is in
// flight. Route gates check this before the authentication flag.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// CurrentUser returns a copy of the authenticated user, or nil.
func (m *Manager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) purge(ctx context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing token store: %w", err)
	}
	return nil
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}
