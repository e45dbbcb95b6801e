// Package guard decides whether a view may be shown to the current
// session: protected views require authentication, public views (login,
// signup) are for anonymous users only.
package guard

// Session is the read-only slice of session state the gates need.
type Session interface {
	IsAuthenticated() bool
	IsLoading() bool
}

// Decision is the outcome of a gate check.
type Decision int

const (
	// Render: show the requested view.
	Render Decision = iota
	// Redirect: send the user to Outcome.Target instead.
	Redirect
	// Suspend: session state is still resolving; show nothing yet.
	Suspend
)

// Redirect targets.
const (
	TargetLogin     = "login"
	TargetDashboard = "dashboard"
)

// Outcome carries the decision and, for Redirect, where to go.
type Outcome struct {
	Decision Decision
	Target   string
}

// Protected gates views that require an authenticated session. The loading
// flag is checked before the authentication flag so an unresolved session
// suspends instead of briefly redirecting to login.
func Protected(s Session) Outcome {
	if s.IsLoading() {
		return Outcome{Decision: Suspend}
	}
	if !s.IsAuthenticated() {
		return Outcome{Decision: Redirect, Target: TargetLogin}
	}
	return Outcome{Decision: Render}
}

// Public gates anonymous-only views; an authenticated user is sent to the
// dashboard instead.
func Public(s Session) Outcome {
	if s.IsAuthenticated() {
		return Outcome{Decision: Redirect, Target: TargetDashboard}
	}
	return Outcome{Decision: Render}
}
