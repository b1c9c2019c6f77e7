package page_logout

import (
	"net/http"

	"github.com/wranglebase/wranglebase/shared/session"
	"github.com/wranglebase/wranglebase/shared/types"
	"github.com/wranglebase/wranglebase/shared/urls"
)

// Logout drops the authenticated user from the session. POST only; a GET
// simply bounces home.
type Logout struct {
	config types.Config
}

// New creates a new Logout handler.
func New(cfg types.Config) *Logout {
	return &Logout{config: cfg}
}

func (h *Logout) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := session.EnsureSession(w, r, h.config.SessionSecret)

	if r.Method != http.MethodPost {
		http.Redirect(w, r, urls.Home(h.config.BasePath), http.StatusFound)
		return
	}

	session.ClearUser(sess)
	session.AddFlash(sess, "info", "You are logged out.")
	http.Redirect(w, r, urls.Home(h.config.BasePath), http.StatusFound)
}
