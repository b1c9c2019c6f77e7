package session

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSessionCreatesAndReuses(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)

	s1 := EnsureSession(w, r, "secret")
	require.NotNil(t, s1)
	assert.False(t, s1.LoggedIn())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, SessionCookieName, cookies[0].Name)

	// Same cookie yields the same session.
	r2 := httptest.NewRequest("GET", "/", nil)
	r2.AddCookie(cookies[0])
	s2 := EnsureSession(httptest.NewRecorder(), r2, "secret")
	assert.Equal(t, s1.ID, s2.ID)
}

func TestUserLifecycle(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	s := EnsureSession(w, r, "secret")

	SetUser(s, "u1", "alice")
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "alice", s.UserName)

	ClearUser(s)
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.UserName)
}

func TestFlashesAreOneShot(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	s := EnsureSession(w, r, "secret")

	AddFlash(s, "success", "saved")
	AddFlash(s, "error", "boom")

	flashes := PopFlashes(s)
	require.Len(t, flashes, 2)
	assert.Equal(t, "saved", flashes[0].Message)
	assert.Equal(t, "error", flashes[1].Level)

	assert.Empty(t, PopFlashes(s))
}
