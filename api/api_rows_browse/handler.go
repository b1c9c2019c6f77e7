package api_rows_browse

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dracory/api"

	"github.com/wranglebase/wranglebase/shared/types"
	"github.com/wranglebase/wranglebase/store"
)

// RowsBrowse serves a bounded JSON listing of one table or collection.
type RowsBrowse struct {
	config types.Config
	store  store.Store
}

// New creates a new RowsBrowse handler.
func New(cfg types.Config, st store.Store) *RowsBrowse {
	return &RowsBrowse{config: cfg, store: st}
}

func (h *RowsBrowse) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("rows_browse must be GET"))
		return
	}

	table := strings.TrimSpace(r.URL.Query().Get("table"))
	if !store.ValidIdentifier(table) {
		api.Respond(w, r, api.Error("invalid table name"))
		return
	}

	limit := store.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			api.Respond(w, r, api.Error("limit must be an integer"))
			return
		}
		if n > 0 && n < limit {
			limit = n
		}
	}

	cols, err := h.store.Columns(r.Context(), table)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}
	records, err := h.store.List(r.Context(), table, limit)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	api.Respond(w, r, api.SuccessWithData("ok", map[string]any{
		"table":   table,
		"columns": cols,
		"records": records,
		"count":   len(records),
		"limit":   limit,
	}))
}
