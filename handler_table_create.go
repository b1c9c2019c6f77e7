package wranglebase

import (
	"net/http"
	"strings"

	"github.com/wranglebase/wranglebase/shared/session"
	"github.com/wranglebase/wranglebase/shared/urls"
	"github.com/wranglebase/wranglebase/store"
)

// handleTableCreate creates a new table or collection from the home page
// form and redirects back with a flash.
//
// The columns field is a comma-separated list of name:type pairs, e.g.
// "name:text,age:integer,active:boolean". Pairs without a type default to
// text. The relational backend adds an implicit auto-increment id primary
// key; the document backend ignores the column list entirely.
func (a *App) handleTableCreate(w http.ResponseWriter, r *http.Request) {
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

	table := strings.TrimSpace(r.Form.Get("table_name"))
	cols := parseColumnSpecs(r.Form.Get("columns"))

	if err := a.store.CreateTable(r.Context(), table, cols); err != nil {
		session.AddFlash(sess, "error", "Create failed: "+err.Error())
		http.Redirect(w, r, urls.Home(a.config.BasePath), http.StatusFound)
		return
	}

	session.AddFlash(sess, "success", "Table "+table+" is ready.")
	http.Redirect(w, r, urls.TableView(a.config.BasePath, table), http.StatusFound)
}

// parseColumnSpecs turns "name:text, age:integer" into ColumnSpecs. Blank
// entries are skipped; a missing type means text.
func parseColumnSpecs(raw string) []store.ColumnSpec {
	var specs []store.ColumnSpec
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, typ, found := strings.Cut(part, ":")
		if !found {
			typ = "text"
		}
		specs = append(specs, store.ColumnSpec{
			Name: strings.TrimSpace(name),
			Type: strings.ToLower(strings.TrimSpace(typ)),
		})
	}
	return specs
}
