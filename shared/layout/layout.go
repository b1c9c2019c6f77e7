package layout

import (
	"html/template"

	"github.com/gouniverse/cdn"
	hb "github.com/gouniverse/hb"

	"github.com/wranglebase/wranglebase/shared/session"
	"github.com/wranglebase/wranglebase/shared/urls"
)

// Options bundles parameters for rendering the full HTML layout.
type Options struct {
	Title    string
	BasePath string
	// UserName, when set, shows the logged-in user and a logout control.
	UserName string
	// Flashes are one-shot messages rendered above the main content.
	Flashes      []session.Flash
	MainHTML     string
	ExtraHead    []hb.TagInterface
	ExtraBodyEnd []hb.TagInterface
}

// flashClass maps a flash level to its banner styling.
func flashClass(level string) string {
	switch level {
	case "error":
		return "wr-flash bg-red-100 text-red-800 border border-red-200 rounded px-3 py-2 mb-2"
	case "success":
		return "wr-flash bg-green-100 text-green-800 border border-green-200 rounded px-3 py-2 mb-2"
	default:
		return "wr-flash bg-slate-100 text-slate-800 border border-slate-200 rounded px-3 py-2 mb-2"
	}
}

// Render builds the full HTML page and returns it as a safe HTML string.
func Render(o Options) template.HTML {
	headChildren := []hb.TagInterface{
		hb.NewTag("meta").Attr("charset", "utf-8"),
		hb.NewTag("meta").Attr("name", "viewport").Attr("content", "width=device-width, initial-scale=1"),
		hb.NewTag("title").Text(o.Title + " · Wranglebase"),
		// Tailwind via CDN for rapid styling
		hb.ScriptURL("https://cdn.tailwindcss.com"),
	}
	headChildren = append(headChildren, o.ExtraHead...)

	// Header/nav with auth state on the right
	navLeft := hb.Div().Class("flex gap-4").Children([]hb.TagInterface{
		hb.A().Class("hover:underline").Href(urls.Home(o.BasePath)).Text("Home"),
		hb.A().Class("hover:underline").Href(urls.Build(o.BasePath, "healthz")).Text("Health"),
	})
	var navRight hb.TagInterface
	if o.UserName != "" {
		navRight = hb.Div().Class("flex gap-3 items-center").Children([]hb.TagInterface{
			hb.NewTag("span").Class("text-sm text-slate-500").Text("Signed in as " + o.UserName),
			hb.NewTag("form").Attr("method", "post").Attr("action", urls.Logout(o.BasePath)).Child(
				hb.NewTag("button").Attr("type", "submit").Class("text-sm hover:underline").Text("Log out"),
			),
		})
	} else {
		navRight = hb.Div().Class("flex gap-4").Children([]hb.TagInterface{
			hb.A().Class("hover:underline").Href(urls.Login(o.BasePath)).Text("Log in"),
			hb.A().Class("hover:underline").Href(urls.Signup(o.BasePath)).Text("Sign up"),
		})
	}

	header := hb.Header().
		Class("wr-header border-b border-slate-200 mb-4").
		Child(
			hb.Div().
				Class("wr-container max-w-5xl mx-auto flex justify-between items-center py-3 px-4").
				Children([]hb.TagInterface{
					hb.Heading1().
						Class("wr-title text-lg font-semibold").
						Child(hb.A().Href(urls.Home(o.BasePath)).Text("Wranglebase")),
					navLeft,
					navRight,
				}),
		)

	// Flash banners
	var flashes []hb.TagInterface
	for _, f := range o.Flashes {
		flashes = append(flashes, hb.Div().Class(flashClass(f.Level)).Text(f.Message))
	}

	main := hb.Main().Class("wr-main px-4").
		Child(hb.Div().Class("wr-container max-w-5xl mx-auto").
			Children(flashes).
			Child(hb.Raw(o.MainHTML)))

	bodyChildren := []hb.TagInterface{
		header,
		main,
		hb.ScriptURL(cdn.Sweetalert2_11()),
	}
	bodyChildren = append(bodyChildren, o.ExtraBodyEnd...)

	html := hb.NewTag("html").
		Attr("lang", "en").
		Children([]hb.TagInterface{
			hb.NewTag("head").Children(headChildren),
			hb.NewTag("body").Children(bodyChildren),
		})

	return template.HTML("<!doctype html>" + html.ToHTML())
}
