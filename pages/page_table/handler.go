package page_table

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	hb "github.com/gouniverse/hb"

	"github.com/wranglebase/wranglebase/shared/constants"
	"github.com/wranglebase/wranglebase/shared/layout"
	"github.com/wranglebase/wranglebase/shared/session"
	"github.com/wranglebase/wranglebase/shared/types"
	"github.com/wranglebase/wranglebase/shared/urls"
	"github.com/wranglebase/wranglebase/store"
)

// TableView renders one table or collection: its introspected schema, up to
// store.DefaultListLimit records, a typed insert form, and update/delete
// forms keyed on the table's identifying column.
type TableView struct {
	config types.Config
	store  store.Store
}

// New creates a new TableView page handler.
func New(cfg types.Config, st store.Store) *TableView {
	return &TableView{config: cfg, store: st}
}

func (h *TableView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := session.EnsureSession(w, r, h.config.SessionSecret)

	table := strings.TrimSpace(r.URL.Query().Get("table"))
	if !store.ValidIdentifier(table) {
		session.AddFlash(sess, "error", "Invalid table name.")
		http.Redirect(w, r, urls.Home(h.config.BasePath), http.StatusFound)
		return
	}

	ctx := r.Context()
	cols, err := h.store.Columns(ctx, table)
	if err != nil {
		session.AddFlash(sess, "error", "Could not read table: "+err.Error())
		http.Redirect(w, r, urls.Home(h.config.BasePath), http.StatusFound)
		return
	}
	pks, err := h.store.PrimaryKeys(ctx, table)
	if err != nil {
		session.AddFlash(sess, "error", "Could not read table keys: "+err.Error())
		http.Redirect(w, r, urls.Home(h.config.BasePath), http.StatusFound)
		return
	}
	records, err := h.store.List(ctx, table, store.DefaultListLimit)
	if err != nil {
		session.AddFlash(sess, "error", "Could not list records: "+err.Error())
		http.Redirect(w, r, urls.Home(h.config.BasePath), http.StatusFound)
		return
	}

	names := columnNames(cols, records)
	keyCol := ""
	if len(pks) > 0 {
		keyCol = pks[0]
	}

	main := hb.Div().Children([]hb.TagInterface{
		hb.Heading2().Class("text-xl font-semibold mb-1").Text(table),
		hb.Paragraph().Class("text-sm text-slate-500 mb-4").
			Text(fmt.Sprintf("%d record(s) shown, key: %s", len(records), keyLabel(pks))),
		h.recordsTable(table, names, keyCol, records),
		h.insertForm(table, cols, pks),
		h.updateForm(table, cols, keyCol),
	})

	html := layout.Render(layout.Options{
		Title:    table,
		BasePath: h.config.BasePath,
		UserName: sess.UserName,
		Flashes:  session.PopFlashes(sess),
		MainHTML: main.ToHTML(),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// columnNames merges the introspected columns with any extra keys found in
// the listed records. The document backend samples a single record for its
// schema, so listed records can carry fields the sample lacked.
func columnNames(cols []store.Column, records []store.Record) []string {
	var names []string
	seen := map[string]bool{}
	for _, c := range cols {
		names = append(names, c.Name)
		seen[c.Name] = true
	}
	var extra []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

func keyLabel(pks []string) string {
	if len(pks) == 0 {
		return "(none)"
	}
	return strings.Join(pks, ", ")
}

func (h *TableView) recordsTable(table string, names []string, keyCol string, records []store.Record) hb.TagInterface {
	if len(names) == 0 {
		return hb.Paragraph().Class("text-slate-500 mb-4").Text("No records and no known columns yet.")
	}

	headRow := hb.NewTag("tr")
	for _, n := range names {
		headRow.Child(hb.NewTag("th").Class("border border-slate-300 px-2 py-1 text-left bg-slate-50").Text(n))
	}
	if keyCol != "" {
		headRow.Child(hb.NewTag("th").Class("border border-slate-300 px-2 py-1 bg-slate-50").Text(""))
	}

	body := hb.NewTag("tbody")
	for _, rec := range records {
		row := hb.NewTag("tr")
		for _, n := range names {
			row.Child(hb.NewTag("td").Class("border border-slate-300 px-2 py-1").Text(cellText(rec[n])))
		}
		if keyCol != "" {
			row.Child(hb.NewTag("td").Class("border border-slate-300 px-2 py-1").
				Child(h.deleteForm(table, keyCol, cellText(rec[keyCol]))))
		}
		body.Child(row)
	}

	return hb.Div().Class("overflow-x-auto mb-6").Child(
		hb.NewTag("table").Class("border-collapse text-sm w-full").Children([]hb.TagInterface{
			hb.NewTag("thead").Child(headRow),
			body,
		}),
	)
}

func cellText(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (h *TableView) deleteForm(table, keyCol, keyVal string) hb.TagInterface {
	return hb.NewTag("form").
		Attr("method", "post").
		Attr("action", urls.RowDelete(h.config.BasePath, table)).
		Children([]hb.TagInterface{
			hb.NewTag("input").Attr("type", "hidden").Attr("name", "table").Attr("value", table),
			hb.NewTag("input").Attr("type", "hidden").
				Attr("name", constants.PKParamPrefix+keyCol).
				Attr("value", keyVal),
			hb.NewTag("button").
				Attr("type", "submit").
				Class("text-red-700 text-sm hover:underline").
				Text("Delete"),
		})
}

// insertForm renders one typed input per non-key column. The hint select
// posts as "<name>_type" so the server coerces the raw value.
func (h *TableView) insertForm(table string, cols []store.Column, pks []string) hb.TagInterface {
	isKey := map[string]bool{}
	for _, k := range pks {
		isKey[k] = true
	}

	fields := []hb.TagInterface{
		hb.NewTag("input").Attr("type", "hidden").Attr("name", "table").Attr("value", table),
	}
	n := 0
	for _, c := range cols {
		if isKey[c.Name] {
			continue
		}
		n++
		fields = append(fields, fieldRow(c.Name, guessHint(c.DataType)))
	}
	if n == 0 {
		// Empty document collections have no sampled fields; let the user
		// name them freely.
		fields = append(fields,
			hb.Paragraph().Class("text-xs text-slate-500").
				Text("No known columns. Add a field as name=value below."),
			fieldRow("field", "string"),
		)
	}
	fields = append(fields, hb.NewTag("button").
		Attr("type", "submit").
		Class("bg-blue-600 text-white rounded px-3 py-1 self-start").
		Text("Insert"))

	return hb.Div().Class("border border-slate-200 rounded p-4 mb-6").Children([]hb.TagInterface{
		hb.Heading2().Class("text-lg font-semibold mb-2").Text("Insert row"),
		hb.NewTag("form").
			Attr("method", "post").
			Attr("action", urls.RowInsert(h.config.BasePath, table)).
			Class("flex flex-col gap-2 max-w-md").
			Children(fields),
	})
}

// updateForm targets one record by its key value. The per-column inputs are
// merged field-by-field; the JSON textarea, when filled, replaces the
// record's fields wholesale instead.
func (h *TableView) updateForm(table string, cols []store.Column, keyCol string) hb.TagInterface {
	if keyCol == "" {
		return hb.Paragraph().Class("text-slate-500").
			Text("This table has no primary key, so rows cannot be updated or deleted.")
	}

	fields := []hb.TagInterface{
		hb.NewTag("input").Attr("type", "hidden").Attr("name", "table").Attr("value", table),
		hb.NewTag("label").Class("text-sm font-medium").Text(keyCol + " of the row to update"),
		hb.NewTag("input").
			Attr("type", "text").
			Attr("name", constants.PKParamPrefix+keyCol).
			Attr("required", "required").
			Class("border border-slate-300 rounded px-2 py-1"),
	}
	for _, c := range cols {
		if c.Name == keyCol {
			continue
		}
		fields = append(fields, fieldRow(c.Name, guessHint(c.DataType)))
	}
	fields = append(fields,
		hb.NewTag("label").Class("text-sm").Text("...or paste a full JSON document"),
		hb.NewTag("textarea").
			Attr("name", "document_json").
			Attr("rows", "3").
			Attr("placeholder", `{"name": "Ada", "age": 36}`).
			Class("border border-slate-300 rounded px-2 py-1 font-mono text-sm"),
		hb.NewTag("button").
			Attr("type", "submit").
			Class("bg-blue-600 text-white rounded px-3 py-1 self-start").
			Text("Update"),
	)

	return hb.Div().Class("border border-slate-200 rounded p-4 mb-6").Children([]hb.TagInterface{
		hb.Heading2().Class("text-lg font-semibold mb-2").Text("Update row"),
		hb.NewTag("form").
			Attr("method", "post").
			Attr("action", urls.RowUpdate(h.config.BasePath, table)).
			Class("flex flex-col gap-2 max-w-md").
			Children(fields),
	})
}

// fieldRow is one value input plus its coercion-hint select.
func fieldRow(name, hint string) hb.TagInterface {
	return hb.Div().Class("flex gap-2 items-center").Children([]hb.TagInterface{
		hb.NewTag("label").Class("text-sm w-32").Text(name),
		hb.NewTag("input").
			Attr("type", "text").
			Attr("name", name).
			Class("border border-slate-300 rounded px-2 py-1 flex-1"),
		hintSelect(name+store.HintSuffix, hint),
	})
}

func hintSelect(name, selected string) hb.TagInterface {
	sel := hb.NewTag("select").
		Attr("name", name).
		Class("border border-slate-300 rounded px-1 py-1 text-sm")
	for _, opt := range []string{"string", "number", "boolean"} {
		o := hb.NewTag("option").Attr("value", opt).Text(opt)
		if opt == selected {
			o.Attr("selected", "selected")
		}
		sel.Child(o)
	}
	return sel
}

// guessHint pre-selects the coercion hint from the introspected SQL type.
func guessHint(dataType string) string {
	t := strings.ToLower(dataType)
	switch {
	case strings.Contains(t, "int"), strings.Contains(t, "numeric"),
		strings.Contains(t, "real"), strings.Contains(t, "double"),
		strings.Contains(t, "decimal"), strings.Contains(t, "float"):
		return "number"
	case strings.Contains(t, "bool"), strings.Contains(t, "bit"):
		return "boolean"
	default:
		return "string"
	}
}
