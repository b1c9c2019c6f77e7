package api_init

import (
	"net/http"

	"github.com/dracory/api"

	"github.com/wranglebase/wranglebase/shared/types"
	"github.com/wranglebase/wranglebase/store"
)

// Init (re)creates the fixed application fixtures: the auth store on every
// backend, the contacts table where the backend supports it. It is
// idempotent, so it is safe to call on every deploy.
type Init struct {
	config types.Config
	store  store.Store
}

// New creates a new Init handler.
func New(cfg types.Config, st store.Store) *Init {
	return &Init{config: cfg, store: st}
}

func (h *Init) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.store.EnsureAuth(r.Context()); err != nil {
		api.Respond(w, r, api.Error("auth store init failed: "+err.Error()))
		return
	}

	contacts := false
	if cs, ok := h.store.(store.ContactStore); ok {
		if err := cs.EnsureContacts(r.Context()); err != nil {
			api.Respond(w, r, api.Error("contacts init failed: "+err.Error()))
			return
		}
		contacts = true
	}

	api.Respond(w, r, api.SuccessWithData("store is ready", map[string]any{
		"contacts": contacts,
	}))
}
