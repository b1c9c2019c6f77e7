package page_signup

import (
	"errors"
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

// Signup renders the registration form on GET and creates the credential
// entry on POST. Usernames are unique; the password is stored bcrypt-hashed.
type Signup struct {
	config types.Config
	store  store.Store
}

// New creates a new Signup page handler.
func New(cfg types.Config, st store.Store) *Signup {
	return &Signup{config: cfg, store: st}
}

func (h *Signup) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := session.EnsureSession(w, r, h.config.SessionSecret)

	if r.Method == http.MethodPost {
		h.submit(w, r, sess)
		return
	}

	main := hb.Div().Class("max-w-sm").Children([]hb.TagInterface{
		hb.Heading2().Class("text-xl font-semibold mb-3").Text("Sign up"),
		hb.NewTag("form").
			Attr("method", "post").
			Attr("action", urls.Signup(h.config.BasePath)).
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
					Text("Create account"),
			}),
	})

	html := layout.Render(layout.Options{
		Title:    "Sign up",
		BasePath: h.config.BasePath,
		UserName: sess.UserName,
		Flashes:  session.PopFlashes(sess),
		MainHTML: main.ToHTML(),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (h *Signup) submit(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := r.ParseForm(); err != nil {
		session.AddFlash(sess, "error", "Could not parse form.")
		http.Redirect(w, r, urls.Signup(h.config.BasePath), http.StatusFound)
		return
	}

	name := strings.TrimSpace(r.Form.Get("username"))
	password := r.Form.Get("password")
	if name == "" || password == "" {
		session.AddFlash(sess, "error", "Username and password are required.")
		http.Redirect(w, r, urls.Signup(h.config.BasePath), http.StatusFound)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		session.AddFlash(sess, "error", "Signup failed: "+err.Error())
		http.Redirect(w, r, urls.Signup(h.config.BasePath), http.StatusFound)
		return
	}

	if _, err := h.store.InsertUser(r.Context(), name, string(hash)); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			session.AddFlash(sess, "error", "Username already exists.")
		} else {
			session.AddFlash(sess, "error", "Signup failed: "+err.Error())
		}
		http.Redirect(w, r, urls.Signup(h.config.BasePath), http.StatusFound)
		return
	}

	session.AddFlash(sess, "success", "Account created. You can log in now.")
	http.Redirect(w, r, urls.Login(h.config.BasePath), http.StatusFound)
}
