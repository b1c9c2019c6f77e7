package page_login

import (
	"net/http"
	"strings"

	hb "github.com/gouniverse/hb"
	"golang.org/x/crypto/bcrypt"

	"github.com/wranglebase/wranglebase/shared/layout"
	"github.com/wranglebase/wranglebase/shared/session"
	"github.com/wranglebase/wranglebase/shared/types"
	"github.com/wranglebase/wranglebase/shared/urls"
	"github.com/wranglebase/wranglebase/store"
)

// Login renders the login form on GET and verifies credentials on POST.
type Login struct {
	config types.Config
	store  store.Store
}

// New creates a new Login page handler.
func New(cfg types.Config, st store.Store) *Login {
	return &Login{config: cfg, store: st}
}

func (h *Login) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := session.EnsureSession(w, r, h.config.SessionSecret)

	if r.Method == http.MethodPost {
		h.submit(w, r, sess)
		return
	}

	main := hb.Div().Class("max-w-sm").Children([]hb.TagInterface{
		hb.Heading2().Class("text-xl font-semibold mb-3").Text("Log in"),
		hb.NewTag("form").
			Attr("method", "post").
			Attr("action", urls.Login(h.config.BasePath)).
			Class("flex flex-col gap-2").
			Children([]hb.TagInterface{
				hb.NewTag("label").Class("text-sm").Text("Username"),
				hb.NewTag("input").
					Attr("type", "text").
					Attr("name", "username").
					Attr("required", "required").
					Class("border border-slate-300 rounded px-2 py-1"),
				hb.NewTag("label").Class("text-sm").Text("Password"),
				hb.NewTag("input").
					Attr("type", "password").
					Attr("name", "password").
					Attr("required", "required").
					Class("border border-slate-300 rounded px-2 py-1"),
				hb.NewTag("button").
					Attr("type", "submit").
					Class("bg-blue-600 text-white rounded px-3 py-1 self-start").
					Text("Log in"),
			}),
		hb.Paragraph().Class("text-sm text-slate-500 mt-3").Children([]hb.TagInterface{
			hb.Text("No account yet? "),
			hb.A().Class("text-blue-700 hover:underline").Href(urls.Signup(h.config.BasePath)).Text("Sign up"),
		}),
	})

	html := layout.Render(layout.Options{
		Title:    "Log in",
		BasePath: h.config.BasePath,
		UserName: sess.UserName,
		Flashes:  session.PopFlashes(sess),
		MainHTML: main.ToHTML(),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (h *Login) submit(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseForm(); err != nil {
		session.AddFlash(sess, "error", "Could not parse form.")
		http.Redirect(w, r, urls.Login(h.config.BasePath), http.StatusFound)
		return
	}

	name := strings.TrimSpace(r.Form.Get("username"))
	password := r.Form.Get("password")

	user, err := h.store.UserByName(r.Context(), name)
	if err != nil {
		session.AddFlash(sess, "error", "Login failed: "+err.Error())
		http.Redirect(w, r, urls.Login(h.config.BasePath), http.StatusFound)
		return
	}

	// Same message for an unknown user and a wrong password.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		session.AddFlash(sess, "error", "Invalid username or password.")
		http.Redirect(w, r, urls.Login(h.config.BasePath), http.StatusFound)
		return
	}

	session.SetUser(sess, user.ID, user.Name)
	session.AddFlash(sess, "success", "Welcome back, "+user.Name+".")
	http.Redirect(w, r, urls.Home(h.config.BasePath), http.StatusFound)
}
