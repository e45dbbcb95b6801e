package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSession struct {
	authenticated bool
	loading       bool
}

func (f fakeSession) IsAuthenticated() bool { return f.authenticated }
func (f fakeSession) IsLoading() bool       { return f.loading }

func TestProtected(t *testing.T) {
	tests := []struct {
		name    string
		session fakeSession
		want    Outcome
	}{
		{
			name:    "loading suspends before anything else",
			session: fakeSession{loading: true, authenticated: false},
			want:    Outcome{Decision: Suspend},
		},
		{
			name:    "loading suspends even when authenticated",
			session: fakeSession{loading: true, authenticated: true},
			want:    Outcome{Decision: Suspend},
		},
		{
			name:    "anonymous redirects to login",
			session: fakeSession{},
			want:    Outcome{Decision: Redirect, Target: TargetLogin},
		},
		{
			name:    "authenticated renders",
			session: fakeSession{authenticated: true},
			want:    Outcome{Decision: Render},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Protected(tc.session))
		})
	}
}

func TestPublic(t *testing.T) {
	tests := []struct {
		name    string
		session fakeSession
		want    Outcome
	}{
		{
			name:    "anonymous renders",
			session: fakeSession{},
			want:    Outcome{Decision: Render},
		},
		{
			name:    "authenticated redirects to dashboard",
			session: fakeSession{authenticated: true},
			want:    Outcome{Decision: Redirect, Target: TargetDashboard},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Public(tc.session))
		})
	}
}

// A fully resolved session must produce exactly one outcome across both
// gates: render on one side, redirect on the other.
func TestGates_MutuallyExclusive(t *testing.T) {
	for _, authenticated := range []bool{true, false} {
		s := fakeSession{authenticated: authenticated}
		p, q := Protected(s), Public(s)
		assert.NotEqual(t, p.Decision, q.Decision)
		assert.True(t, p.Decision == Render || q.Decision == Render)
	}
}
