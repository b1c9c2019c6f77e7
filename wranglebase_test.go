package wranglebase

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wranglebase/wranglebase/shared/constants"
	"github.com/wranglebase/wranglebase/store/sqlstore"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	st, err := sqlstore.Open(sqlstore.Config{
		Driver:   "sqlite",
		Database: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := Config{
		BasePath:      "/",
		ActionParam:   "action",
		SessionSecret: "test-secret",
		Backend:       constants.BackendSQLite,
	}
	app := New(cfg, st)
	require.NoError(t, app.Bootstrap(t.Context()))

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

type apiEnvelope struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) apiEnvelope {
	t.Helper()
	defer resp.Body.Close()
	var env apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func postForm(t *testing.T, c *http.Client, rawURL string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(rawURL, form)
	require.NoError(t, err)
	return resp
}

func bodyText(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// signupAndLogin registers a fresh user and authenticates the client's
// session.
func signupAndLogin(t *testing.T, srv *httptest.Server, c *http.Client) {
	t.Helper()
	creds := url.Values{"username": {"admin"}, "password": {"hunter22"}}
	resp := postForm(t, c, srv.URL+"/?action=signup", creds)
	resp.Body.Close()
	resp = postForm(t, c, srv.URL+"/?action=login", creds)
	body := bodyText(t, resp)
	assert.Contains(t, body, "Welcome back")
}

func TestHealthz(t *testing.T) {
	srv, c := newTestServer(t)

	resp, err := c.Get(srv.URL + "/?action=healthz")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, "success", env.Status)
}

func TestHomePageRenders(t *testing.T) {
	srv, c := newTestServer(t)

	resp, err := c.Get(srv.URL + "/")
	require.NoError(t, err)
	body := bodyText(t, resp)
	assert.Contains(t, body, "Create table")
	assert.Contains(t, body, "Wranglebase")
}

func TestTableLifecycleThroughWeb(t *testing.T) {
	srv, c := newTestServer(t)
	signupAndLogin(t, srv, c)

	// Create
	resp := postForm(t, c, srv.URL+"/?action=table_create", url.Values{
		"table_name": {"people"},
		"columns":    {"name:text,age:integer,active:boolean"},
	})
	body := bodyText(t, resp)
	assert.Contains(t, body, "people")
	assert.Contains(t, body, "is ready")

	// Insert with coercion hints
	resp = postForm(t, c, srv.URL+"/?action=row_insert", url.Values{
		"table":       {"people"},
		"name":        {"Ada"},
		"age":         {"36"},
		"age_type":    {"number"},
		"active":      {"on"},
		"active_type": {"boolean"},
	})
	body = bodyText(t, resp)
	assert.Contains(t, body, "Row inserted")
	assert.Contains(t, body, "Ada")

	// Browse as JSON
	resp, err := c.Get(srv.URL + "/?action=rows_browse&table=people")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	require.Equal(t, "success", env.Status)
	records := env.Data["records"].([]any)
	require.Len(t, records, 1)
	rec := records[0].(map[string]any)
	assert.Equal(t, "Ada", rec["name"])
	assert.EqualValues(t, 36, rec["age"])

	// Per-column update keyed on __pk_id
	resp = postForm(t, c, srv.URL+"/?action=row_update", url.Values{
		"table":                           {"people"},
		constants.PKParamPrefix + "id":    {"1"},
		"name":                            {"Grace"},
	})
	body = bodyText(t, resp)
	assert.Contains(t, body, "Row updated")
	assert.Contains(t, body, "Grace")

	// JSON-document update replaces fields wholesale
	resp = postForm(t, c, srv.URL+"/?action=row_update", url.Values{
		"table":                        {"people"},
		constants.PKParamPrefix + "id": {"1"},
		"document_json":                {`{"name": "Linus", "age": 55}`},
	})
	body = bodyText(t, resp)
	assert.Contains(t, body, "Row updated")
	assert.Contains(t, body, "Linus")

	// Delete, then deleting again is a no-op with a different flash
	form := url.Values{
		"table":                        {"people"},
		constants.PKParamPrefix + "id": {"1"},
	}
	resp = postForm(t, c, srv.URL+"/?action=row_delete", form)
	assert.Contains(t, bodyText(t, resp), "Row deleted")

	resp = postForm(t, c, srv.URL+"/?action=row_delete", form)
	assert.Contains(t, bodyText(t, resp), "No matching row")
}

func TestMutationsRequireLogin(t *testing.T) {
	srv, c := newTestServer(t)

	resp := postForm(t, c, srv.URL+"/?action=table_create", url.Values{
		"table_name": {"sneaky"},
	})
	body := bodyText(t, resp)
	assert.Contains(t, body, "Please log in first")

	// The table must not exist.
	resp, err := c.Get(srv.URL + "/?action=rows_browse&table=sneaky")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, "error", env.Status)
}

func TestSignupDuplicateUsername(t *testing.T) {
	srv, c := newTestServer(t)

	creds := url.Values{"username": {"bob"}, "password": {"pw"}}
	resp := postForm(t, c, srv.URL+"/?action=signup", creds)
	resp.Body.Close()

	resp = postForm(t, c, srv.URL+"/?action=signup", creds)
	assert.Contains(t, bodyText(t, resp), "Username already exists")
}

func TestLoginBadCredentials(t *testing.T) {
	srv, c := newTestServer(t)

	resp := postForm(t, c, srv.URL+"/?action=login", url.Values{
		"username": {"ghost"},
		"password": {"nope"},
	})
	assert.Contains(t, bodyText(t, resp), "Invalid username or password")
}

func TestRowsBrowseClampsLimit(t *testing.T) {
	srv, c := newTestServer(t)
	signupAndLogin(t, srv, c)

	resp := postForm(t, c, srv.URL+"/?action=table_create", url.Values{
		"table_name": {"things"},
		"columns":    {"name:text"},
	})
	resp.Body.Close()

	resp, err := c.Get(srv.URL + "/?action=rows_browse&table=things&limit=9999")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	require.Equal(t, "success", env.Status)
	assert.EqualValues(t, 200, env.Data["limit"])
}

func TestRowsBrowseRejectsBadTableName(t *testing.T) {
	srv, c := newTestServer(t)

	resp, err := c.Get(srv.URL + "/?action=rows_browse&table=users%3B+DROP")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Message, "invalid table name")
}

func TestTableInfo(t *testing.T) {
	srv, c := newTestServer(t)
	signupAndLogin(t, srv, c)

	resp := postForm(t, c, srv.URL+"/?action=table_create", url.Values{
		"table_name": {"notes"},
		"columns":    {"body:text"},
	})
	resp.Body.Close()

	resp, err := c.Get(srv.URL + "/?action=table_info&table=notes")
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	require.Equal(t, "success", env.Status)
	assert.Equal(t, []any{"id"}, env.Data["primary_keys"])
	cols := env.Data["columns"].([]any)
	require.Len(t, cols, 2)
}

func TestContactsAPI(t *testing.T) {
	srv, c := newTestServer(t)

	jsonReq := func(method, rawURL, payload string) apiEnvelope {
		t.Helper()
		req, err := http.NewRequest(method, rawURL, bytes.NewReader([]byte(payload)))
		require.NoError(t, err)
		if payload != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := c.Do(req)
		require.NoError(t, err)
		return decodeEnvelope(t, resp)
	}

	base := srv.URL + "/?action=contacts"

	env := jsonReq(http.MethodPost, base, `{"name": "Ada", "email": "ada@example.com"}`)
	require.Equal(t, "success", env.Status)
	contact := env.Data["contact"].(map[string]any)
	assert.EqualValues(t, 1, contact["id"])

	// Duplicate email
	env = jsonReq(http.MethodPost, base, `{"name": "Ada2", "email": "ada@example.com"}`)
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Message, "already exists")

	// List
	env = jsonReq(http.MethodGet, base, "")
	require.Equal(t, "success", env.Status)
	assert.Len(t, env.Data["contacts"].([]any), 1)

	// Partial update keeps the untouched field
	env = jsonReq(http.MethodPut, base+"&id=1", `{"name": "Countess"}`)
	require.Equal(t, "success", env.Status)
	contact = env.Data["contact"].(map[string]any)
	assert.Equal(t, "Countess", contact["name"])
	assert.Equal(t, "ada@example.com", contact["email"])

	// Unknown ids report not found
	env = jsonReq(http.MethodPut, base+"&id=999", `{"name": "x"}`)
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Message, "not found")

	env = jsonReq(http.MethodDelete, base+"&id=1", "")
	require.Equal(t, "success", env.Status)

	env = jsonReq(http.MethodDelete, base+"&id=1", "")
	assert.Equal(t, "error", env.Status)
}

func TestUnknownActionRedirectsHome(t *testing.T) {
	srv, c := newTestServer(t)

	resp, err := c.Get(srv.URL + "/?action=no_such_action")
	require.NoError(t, err)
	body := bodyText(t, resp)
	assert.Contains(t, body, "Wranglebase")
}

func TestParseColumnSpecs(t *testing.T) {
	specs := parseColumnSpecs(" name:text , age:integer ,active ,, notes : TEXT ")
	require.Len(t, specs, 4)
	assert.Equal(t, "name", specs[0].Name)
	assert.Equal(t, "text", specs[0].Type)
	assert.Equal(t, "active", specs[2].Name)
	assert.Equal(t, "text", specs[2].Type)
	assert.Equal(t, "notes", specs[3].Name)
	assert.Equal(t, "text", specs[3].Type)

	assert.Nil(t, parseColumnSpecs(""))
}

func TestCollectFields(t *testing.T) {
	form := url.Values{
		"action":     {"row_insert"},
		"table":      {"people"},
		"__pk_id":    {"7"},
		"name":       {"Ada"},
		"age":        {"36"},
		"age_type":   {"number"},
		"empty":      {""},
		"empty_type": {"string"},
	}
	fields, hints := collectFields(form, "action")

	assert.Equal(t, map[string]string{"name": "Ada", "age": "36", "empty": ""}, fields)
	assert.Contains(t, hints, "age")
	assert.NotContains(t, fields, "table")
	assert.NotContains(t, fields, "__pk_id")
}
