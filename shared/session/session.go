package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "wr_sid"

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string // success, error, info
	Message string
}

// Session represents one browser session. UserID is empty until login.
type Session struct {
	ID        string
	CreatedAt time.Time
	UserID    string
	UserName  string
	flashes   []Flash
}

// LoggedIn reports whether the session carries an authenticated user.
func (s *Session) LoggedIn() bool { return s != nil && s.UserID != "" }

var (
	sessionsMu sync.RWMutex
	sessions   = map[string]*Session{}
)

// EnsureSession returns the existing session from the cookie or creates a
// new one and sets the cookie.
func EnsureSession(w http.ResponseWriter, r *http.Request, secret string) *Session {
	if c, err := r.Cookie(SessionCookieName); err == nil && c != nil && c.Value != "" {
		sessionsMu.RLock()
		s, ok := sessions[c.Value]
		sessionsMu.RUnlock()
		if ok {
			return s
		}
	}

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}

	sessionsMu.Lock()
	sessions[s.ID] = s
	sessionsMu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// SetUser marks the session as authenticated.
func SetUser(s *Session, userID, userName string) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	s.UserID = userID
	s.UserName = userName
}

// ClearUser logs the session out and drops pending flashes.
func ClearUser(s *Session) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	s.UserID = ""
	s.UserName = ""
	s.flashes = nil
}

// AddFlash queues a one-shot message on the session.
func AddFlash(s *Session, level, message string) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	s.flashes = append(s.flashes, Flash{Level: level, Message: message})
}

// PopFlashes returns and clears the queued messages.
func PopFlashes(s *Session) []Flash {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	out := s.flashes
	s.flashes = nil
	return out
}

// DeleteSession removes a session entirely.
func DeleteSession(sessionID string) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	delete(sessions, sessionID)
}
