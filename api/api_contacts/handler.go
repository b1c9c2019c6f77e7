package api_contacts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dracory/api"

	"github.com/wranglebase/wranglebase/shared/types"
	"github.com/wranglebase/wranglebase/store"
)

// Contacts is a small fixed-schema JSON API dispatched by HTTP method:
// POST creates, GET lists, PUT partially updates, DELETE removes. The id
// for PUT and DELETE travels in the "id" query or form parameter.
//
// Only backends implementing store.ContactStore (the relational ones)
// support it.
type Contacts struct {
	config types.Config
	store  store.Store
}

// New creates a new Contacts handler.
func New(cfg types.Config, st store.Store) *Contacts {
	return &Contacts{config: cfg, store: st}
}

type contactPayload struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (h *Contacts) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cs, ok := h.store.(store.ContactStore)
	if !ok {
		api.Respond(w, r, api.Error("contacts are not supported on this backend"))
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.create(w, r, cs)
	case http.MethodGet:
		h.list(w, r, cs)
	case http.MethodPut:
		h.update(w, r, cs)
	case http.MethodDelete:
		h.remove(w, r, cs)
	default:
		api.Respond(w, r, api.Error("method not allowed"))
	}
}

func (h *Contacts) create(w http.ResponseWriter, r *http.Request, cs store.ContactStore) {
	var p contactPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		api.Respond(w, r, api.Error("invalid JSON body"))
		return
	}
	if p.Name == nil || p.Email == nil ||
		strings.TrimSpace(*p.Name) == "" || strings.TrimSpace(*p.Email) == "" {
		api.Respond(w, r, api.Error("name and email are required"))
		return
	}

	contact, err := cs.ContactCreate(r.Context(), strings.TrimSpace(*p.Name), strings.TrimSpace(*p.Email))
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			api.Respond(w, r, api.Error("email already exists"))
			return
		}
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	api.Respond(w, r, api.SuccessWithData("contact created", map[string]any{"contact": contact}))
}

func (h *Contacts) list(w http.ResponseWriter, r *http.Request, cs store.ContactStore) {
	contacts, err := cs.Contacts(r.Context())
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}
	api.Respond(w, r, api.SuccessWithData("ok", map[string]any{"contacts": contacts}))
}

func (h *Contacts) update(w http.ResponseWriter, r *http.Request, cs store.ContactStore) {
	id, ok := contactID(r)
	if !ok {
		api.Respond(w, r, api.Error("id must be an integer"))
		return
	}

	var p contactPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		api.Respond(w, r, api.Error("invalid JSON body"))
		return
	}
	if p.Name == nil && p.Email == nil {
		api.Respond(w, r, api.Error("nothing to update"))
		return
	}

	contact, err := cs.ContactUpdate(r.Context(), id, p.Name, p.Email)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}
	if contact == nil {
		api.Respond(w, r, api.Error("contact not found"))
		return
	}

	api.Respond(w, r, api.SuccessWithData("contact updated", map[string]any{"contact": contact}))
}

func (h *Contacts) remove(w http.ResponseWriter, r *http.Request, cs store.ContactStore) {
	id, ok := contactID(r)
	if !ok {
		api.Respond(w, r, api.Error("id must be an integer"))
		return
	}

	contact, err := cs.ContactDelete(r.Context(), id)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}
	if contact == nil {
		api.Respond(w, r, api.Error("contact not found"))
		return
	}

	api.Respond(w, r, api.SuccessWithData("contact deleted", map[string]any{"contact": contact}))
}

func contactID(r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("id"))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
