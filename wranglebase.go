// Package wranglebase is a small web admin for user-defined tables and
// collections. The same web layer runs against a relational backend
// (Postgres, MySQL, SQLite, SQL Server via GORM) or a document backend
// (MongoDB); the backend is chosen once at startup.
package wranglebase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dracory/api"

	"github.com/wranglebase/wranglebase/api/api_contacts"
	"github.com/wranglebase/wranglebase/api/api_init"
	"github.com/wranglebase/wranglebase/api/api_rows_browse"
	"github.com/wranglebase/wranglebase/api/api_table_info"
	"github.com/wranglebase/wranglebase/pages/page_home"
	"github.com/wranglebase/wranglebase/pages/page_login"
	"github.com/wranglebase/wranglebase/pages/page_logout"
	"github.com/wranglebase/wranglebase/pages/page_signup"
	"github.com/wranglebase/wranglebase/pages/page_table"
	"github.com/wranglebase/wranglebase/shared/constants"
	"github.com/wranglebase/wranglebase/shared/session"
	"github.com/wranglebase/wranglebase/shared/types"
	"github.com/wranglebase/wranglebase/shared/urls"
	"github.com/wranglebase/wranglebase/store"
	"github.com/wranglebase/wranglebase/store/mongostore"
	"github.com/wranglebase/wranglebase/store/sqlstore"
)

// App represents the main application instance.
type App struct {
	config Config
	store  store.Store
}

// New creates a new App instance over an already opened store.
func New(cfg Config, st store.Store) *App {
	return &App{config: cfg, store: st}
}

// OpenStore connects the backend selected by cfg.Backend.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.Backend {
	case constants.BackendMongo:
		return mongostore.Open(ctx, cfg.Mongo)
	case constants.BackendPostgres, constants.BackendMySQL,
		constants.BackendSQLite, constants.BackendSQLServer:
		return sqlstore.Open(cfg.SQL)
	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}
}

// Bootstrap prepares the persistent fixtures the app relies on: the auth
// store and, on relational backends, the contacts table.
func (a *App) Bootstrap(ctx context.Context) error {
	if err := a.store.EnsureAuth(ctx); err != nil {
		return err
	}
	if cs, ok := a.store.(store.ContactStore); ok {
		if err := cs.EnsureContacts(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) webConfig() types.Config {
	return types.Config{
		BasePath:      a.config.BasePath,
		ActionParam:   a.config.ActionParam,
		SessionSecret: a.config.SessionSecret,
	}
}

// Handler returns an http.Handler that serves the UI and API.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(a.config.BasePath, a.handleRequest)
	return a.middleware(mux)
}

// handleRequest routes requests to the appropriate handler.
func (a *App) handleRequest(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get(a.config.ActionParam)

	switch action {
	case constants.ActionHome, "":
		page_home.New(a.webConfig(), a.store).ServeHTTP(w, r)

	case constants.ActionHealthz:
		if err := a.store.Ping(r.Context()); err != nil {
			api.Respond(w, r, api.Error("store unreachable: "+err.Error()))
			return
		}
		api.Respond(w, r, api.Success("ok"))

	case constants.ActionSignup:
		page_signup.New(a.webConfig(), a.store).ServeHTTP(w, r)

	case constants.ActionLogin:
		page_login.New(a.webConfig(), a.store).ServeHTTP(w, r)

	case constants.ActionLogout:
		page_logout.New(a.webConfig()).ServeHTTP(w, r)

	case constants.ActionTableView:
		page_table.New(a.webConfig(), a.store).ServeHTTP(w, r)

	case constants.ActionTableCreate:
		a.handleTableCreate(w, r)

	case constants.ActionRowInsert:
		a.handleRowInsert(w, r)

	case constants.ActionRowUpdate:
		a.handleRowUpdate(w, r)

	case constants.ActionRowDelete:
		a.handleRowDelete(w, r)

	case constants.ActionRowsBrowse:
		api_rows_browse.New(a.webConfig(), a.store).ServeHTTP(w, r)

	case constants.ActionTableInfo:
		api_table_info.New(a.webConfig(), a.store).ServeHTTP(w, r)

	case constants.ActionContacts:
		api_contacts.New(a.webConfig(), a.store).ServeHTTP(w, r)

	case constants.ActionInit:
		api_init.New(a.webConfig(), a.store).ServeHTTP(w, r)

	default:
		http.Redirect(w, r, urls.Home(a.config.BasePath), http.StatusFound)
	}
}

// middleware applies common security headers to all handlers.
func (a *App) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

// requireLogin ensures the request carries an authenticated session.
// Unauthenticated callers are redirected to the login page with a flash.
func (a *App) requireLogin(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := session.EnsureSession(w, r, a.config.SessionSecret)
	if !sess.LoggedIn() {
		session.AddFlash(sess, "error", "Please log in first.")
		http.Redirect(w, r, urls.Login(a.config.BasePath), http.StatusFound)
		return sess, false
	}
	return sess, true
}
