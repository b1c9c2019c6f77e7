package wranglebase

import (
	"net/http"
	"strings"

	"github.com/wranglebase/wranglebase/shared/constants"
	"github.com/wranglebase/wranglebase/shared/session"
	"github.com/wranglebase/wranglebase/shared/urls"
	"github.com/wranglebase/wranglebase/store"
)

// handleRowInsert stores one record from the table page's insert form.
//
// Every form field is treated as a column value unless it is routing
// metadata; a sibling "<name>_type" field carries the coercion hint for
// that column (string, number, boolean). Empty values are dropped rather
// than stored as empty strings.
func (a *App) handleRowInsert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, urls.Home(a.config.BasePath), http.StatusFound)
		return
	}

	sess, ok := a.requireLogin(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		session.AddFlash(sess, "error", "Could not parse form.")
		http.Redirect(w, r, urls.Home(a.config.BasePath), http.StatusFound)
		return
	}

	table := strings.TrimSpace(r.Form.Get("table"))
	if table == "" {
		session.AddFlash(sess, "error", "Table name is required.")
		http.Redirect(w, r, urls.Home(a.config.BasePath), http.StatusFound)
		return
	}

	fields, hints := collectFields(r.Form, a.config.ActionParam)

	id, err := a.store.Insert(r.Context(), table, fields, hints)
	if err != nil {
		session.AddFlash(sess, "error", "Insert failed: "+err.Error())
		http.Redirect(w, r, urls.TableView(a.config.BasePath, table), http.StatusFound)
		return
	}

	msg := "Row inserted."
	if id != "" {
		msg = "Row inserted with id " + id + "."
	}
	session.AddFlash(sess, "success", msg)
	http.Redirect(w, r, urls.TableView(a.config.BasePath, table), http.StatusFound)
}

// collectFields separates column values from their "<name>_type" hints and
// strips routing metadata (the action param, table, primary-key markers).
func collectFields(form map[string][]string, actionParam string) (map[string]string, map[string]store.TypeHint) {
	fields := map[string]string{}
	hints := map[string]store.TypeHint{}
	for key, vals := range form {
		if len(vals) == 0 {
			continue
		}
		switch {
		case key == actionParam || key == "table" || key == "document_json":
			continue
		case strings.HasPrefix(key, constants.PKParamPrefix):
			continue
		case strings.HasSuffix(key, store.HintSuffix):
			base := strings.TrimSuffix(key, store.HintSuffix)
			hints[base] = store.ParseHint(vals[0])
		default:
			fields[key] = vals[0]
		}
	}
	return fields, hints
}
