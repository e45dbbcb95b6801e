package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/payshield/payshield-cli/internal/client/api"
	"github.com/payshield/payshield-cli/internal/client/config"
	"github.com/payshield/payshield-cli/internal/client/guard"
	"github.com/payshield/payshield-cli/internal/client/pagecache"
	"github.com/payshield/payshield-cli/internal/client/session"
	"github.com/payshield/payshield-cli/internal/client/tokenstore"
	"github.com/payshield/payshield-cli/internal/logging"

	_ "modernc.org/sqlite"
)

// App holds the wired-up client: session state, API access, the
// transactions page cache and the interactive I/O.
type App struct {
	config  *config.Config
	log     logging.Logger
	api     api.Client
	session *session.Manager
	cache   *pagecache.Cache
	pager   *pagecache.Pager

	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	store, db, err := tokenstore.Open(ctx, c.StorePath)
	if err != nil {
		log.Error(ctx, "initializing session store", "path", c.StorePath, "error", err)
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.ServerEndpointAddr, store, log)
	mgr := session.NewManager(apiClient, store, log)

	// Any 401 on a protected route invalidates the whole session.
	apiClient.OnUnauthorized(mgr.HandleUnauthorized)

	cache := pagecache.New(apiClient.ListTransactions, log, pagecache.Options{
		FreshFor:  c.CacheFreshFor,
		RetainFor: c.CacheRetainFor,
	})

	return &App{
		config:  c,
		log:     log,
		api:     apiClient,
		session: mgr,
		cache:   cache,
		pager:   pagecache.NewPager(c.DefaultPageSize),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		db:      db,
	}, nil
}

// Run restores any stored session and hands control to the REPL. It
// blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	if err := a.session.Restore(ctx); err != nil {
		a.log.Warn(ctx, "restoring session", "error", err)
	}
	if user := a.session.CurrentUser(); user != nil {
		fmt.Fprintf(a.out, "Welcome back, %s\n", user.Name)
	}

	a.session.OnExpired(func() {
		fmt.Fprintln(a.out, "Session expired, please login again")
	})

	fmt.Fprintln(a.out, "PayShield CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	s := ""
	if user := a.session.CurrentUser(); user != nil {
		s = fmt.Sprintf("(%s p%d)", user.Email, a.pager.Page())
	}
	return s
}

// requireAuth gates a protected command the same way a protected route is
// gated: loading suspends, anonymous is sent to login, otherwise proceed.
func (a *App) requireAuth() bool {
	switch out := guard.Protected(a.session); out.Decision {
	case guard.Render:
		return true
	case guard.Suspend:
		fmt.Fprintln(a.out, "Session state is still resolving, try again in a moment")
	default:
		fmt.Fprintf(a.out, "Please login first ('%s')\n", out.Target)
	}
	return false
}
