package wranglebase

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wranglebase/wranglebase/shared/constants"
	"github.com/wranglebase/wranglebase/shared/session"
	"github.com/wranglebase/wranglebase/shared/urls"
	"github.com/wranglebase/wranglebase/store"
)

// handleRowUpdate applies one of two update encodings to the record
// identified by the "__pk_<column>" form field:
//
//   - document_json: the field carries a full JSON object that replaces the
//     record's fields wholesale (identifier stripped first);
//   - per-column: every remaining form field named after a current column
//     is coerced via its "<name>_type" hint and merged in, empty values
//     dropped.
func (a *App) handleRowUpdate(w http.ResponseWriter, r *http.Request) {
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
	back := urls.TableView(a.config.BasePath, table)

	id, keyCol, err := a.mutationID(r, table)
	if err != nil {
		session.AddFlash(sess, "error", "Update failed: "+err.Error())
		http.Redirect(w, r, back, http.StatusFound)
		return
	}

	var updates store.Record
	if doc := strings.TrimSpace(r.Form.Get("document_json")); doc != "" {
		if err := json.Unmarshal([]byte(doc), &updates); err != nil {
			session.AddFlash(sess, "error", "Update failed: invalid JSON document.")
			http.Redirect(w, r, back, http.StatusFound)
			return
		}
		delete(updates, keyCol)
		delete(updates, "_id")
	} else {
		updates, err = a.columnUpdates(r, table, keyCol)
		if err != nil {
			session.AddFlash(sess, "error", "Update failed: "+err.Error())
			http.Redirect(w, r, back, http.StatusFound)
			return
		}
	}

	changed, err := a.store.Update(r.Context(), table, id, updates)
	if err != nil {
		session.AddFlash(sess, "error", "Update failed: "+err.Error())
		http.Redirect(w, r, back, http.StatusFound)
		return
	}

	if changed {
		session.AddFlash(sess, "success", "Row updated.")
	} else {
		session.AddFlash(sess, "info", "No matching row, or nothing changed.")
	}
	http.Redirect(w, r, back, http.StatusFound)
}

// mutationID resolves the identifying column for table and reads its value
// from the "__pk_<column>" form field.
func (a *App) mutationID(r *http.Request, table string) (id, keyCol string, err error) {
	pks, err := a.store.PrimaryKeys(r.Context(), table)
	if err != nil {
		return "", "", err
	}
	if len(pks) == 0 {
		return "", "", store.Validationf("table %s has no primary key", table)
	}
	keyCol = pks[0]
	id = strings.TrimSpace(r.Form.Get(constants.PKParamPrefix + keyCol))
	if id == "" {
		return "", "", store.Validationf("missing %s%s value", constants.PKParamPrefix, keyCol)
	}
	return id, keyCol, nil
}

// columnUpdates builds the per-column update set from form fields that name
// a current column of the table, honouring "<name>_type" coercion hints.
func (a *App) columnUpdates(r *http.Request, table, keyCol string) (store.Record, error) {
	cols, err := a.store.Columns(r.Context(), table)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c.Name] = true
	}

	fields, hints := collectFields(r.Form, a.config.ActionParam)
	updates := store.Record{}
	for name, value := range fields {
		if !known[name] || name == keyCol || value == "" {
			continue
		}
		updates[name] = store.Coerce(value, hints[name])
	}
	if len(updates) == 0 {
		return nil, store.Validationf("no updatable fields supplied")
	}
	return updates, nil
}
