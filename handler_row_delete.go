package wranglebase

import (
	"net/http"
	"strings"

	"github.com/wranglebase/wranglebase/shared/session"
	"github.com/wranglebase/wranglebase/shared/urls"
)

// handleRowDelete removes the record identified by the "__pk_<column>" form
// field. Deleting an already-gone record is not an error; it only changes
// the flash message.
func (a *App) handleRowDelete(w http.ResponseWriter, r *http.Request) {
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

	id, _, err := a.mutationID(r, table)
	if err != nil {
		session.AddFlash(sess, "error", "Delete failed: "+err.Error())
		http.Redirect(w, r, back, http.StatusFound)
		return
	}

	deleted, err := a.store.Delete(r.Context(), table, id)
	if err != nil {
		session.AddFlash(sess, "error", "Delete failed: "+err.Error())
		http.Redirect(w, r, back, http.StatusFound)
		return
	}

	if deleted {
		session.AddFlash(sess, "success", "Row deleted.")
	} else {
		session.AddFlash(sess, "info", "No matching row.")
	}
	http.Redirect(w, r, back, http.StatusFound)
}
