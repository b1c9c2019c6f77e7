package api_table_info

import (
	"net/http"
	"strings"

	"github.com/dracory/api"

	"github.com/wranglebase/wranglebase/shared/types"
	"github.com/wranglebase/wranglebase/store"
)

// TableInfo serves the introspected schema of one table or collection as
// JSON: its columns and primary-key columns.
type TableInfo struct {
	config types.Config
	store  store.Store
}

// New creates a new TableInfo handler.
func New(cfg types.Config, st store.Store) *TableInfo {
	return &TableInfo{config: cfg, store: st}
}

func (h *TableInfo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("table_info must be GET"))
		return
	}

	table := strings.TrimSpace(r.URL.Query().Get("table"))
	if !store.ValidIdentifier(table) {
		api.Respond(w, r, api.Error("invalid table name"))
		return
	}

	cols, err := h.store.Columns(r.Context(), table)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}
	pks, err := h.store.PrimaryKeys(r.Context(), table)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	api.Respond(w, r, api.SuccessWithData("ok", map[string]any{
		"table":        table,
		"columns":      cols,
		"primary_keys": pks,
	}))
}
