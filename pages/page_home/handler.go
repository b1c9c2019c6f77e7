package page_home

import (
	"net/http"

	hb "github.com/gouniverse/hb"

	"github.com/wranglebase/wranglebase/shared/layout"
	"github.com/wranglebase/wranglebase/shared/session"
	"github.com/wranglebase/wranglebase/shared/types"
	"github.com/wranglebase/wranglebase/shared/urls"
	"github.com/wranglebase/wranglebase/store"
)

// Home renders the landing page: the list of user tables/collections and a
// create-table form.
type Home struct {
	config types.Config
	store  store.Store
}

// New creates a new Home page handler.
func New(cfg types.Config, st store.Store) *Home {
	return &Home{config: cfg, store: st}
}

func (h *Home) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := session.EnsureSession(w, r, h.config.SessionSecret)

	main := hb.Div()

	tables, err := h.store.Tables(r.Context())
	if err != nil {
		main.Child(hb.Paragraph().Class("text-red-700").Text("Could not list tables: " + err.Error()))
	} else {
		main.Child(hb.Heading2().Class("text-xl font-semibold mb-2").Text("Tables"))
		if len(tables) == 0 {
			main.Child(hb.Paragraph().Class("text-slate-500").Text("No tables yet. Create one below."))
		} else {
			list := hb.NewTag("ul").Class("list-disc list-inside mb-4")
			for _, t := range tables {
				list.Child(hb.NewTag("li").Child(
					hb.A().Class("text-blue-700 hover:underline").
						Href(urls.TableView(h.config.BasePath, t)).
						Text(t),
				))
			}
			main.Child(list)
		}
	}

	main.Child(h.createForm())

	html := layout.Render(layout.Options{
		Title:    "Home",
		BasePath: h.config.BasePath,
		UserName: sess.UserName,
		Flashes:  session.PopFlashes(sess),
		MainHTML: main.ToHTML(),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// createForm builds the create-table form. Columns are typed as a
// comma-separated name:type list, matching what handleTableCreate parses.
func (h *Home) createForm() hb.TagInterface {
	return hb.Div().Class("border border-slate-200 rounded p-4 mt-6").Children([]hb.TagInterface{
		hb.Heading2().Class("text-lg font-semibold mb-2").Text("Create table"),
		hb.NewTag("form").
			Attr("method", "post").
			Attr("action", urls.TableCreate(h.config.BasePath)).
			Class("flex flex-col gap-2 max-w-md").
			Children([]hb.TagInterface{
				hb.NewTag("label").Class("text-sm").Text("Table name"),
				hb.NewTag("input").
					Attr("type", "text").
					Attr("name", "table_name").
					Attr("required", "required").
					Class("border border-slate-300 rounded px-2 py-1"),
				hb.NewTag("label").Class("text-sm").Text("Columns (name:type, ...)"),
				hb.NewTag("input").
					Attr("type", "text").
					Attr("name", "columns").
					Attr("placeholder", "name:text,age:integer,active:boolean").
					Class("border border-slate-300 rounded px-2 py-1"),
				hb.Paragraph().Class("text-xs text-slate-500").
					Text("Types: text, integer, boolean, timestamp. An id primary key is added automatically."),
				hb.NewTag("button").
					Attr("type", "submit").
					Class("bg-blue-600 text-white rounded px-3 py-1 self-start").
					Text("Create"),
			}),
	})
}
