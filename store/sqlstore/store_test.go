package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wranglebase/wranglebase/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{
		Driver:   "sqlite",
		Database: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateTableAndIntrospect(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	err := s.CreateTable(ctx, "people", []store.ColumnSpec{
		{Name: "name", Type: "text"},
		{Name: "age", Type: "integer"},
		{Name: "active", Type: "boolean"},
	})
	require.NoError(t, err)

	cols, err := s.Columns(ctx, "people")
	require.NoError(t, err)
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"id", "name", "age", "active"}, names)

	pks, err := s.PrimaryKeys(ctx, "people")
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, pks)

	// Fresh table lists as empty, not as an error.
	recs, err := s.List(ctx, "people", 0)
	require.NoError(t, err)
	assert.Empty(t, recs)

	tables, err := s.Tables(ctx)
	require.NoError(t, err)
	assert.Contains(t, tables, "people")
}

func TestCreateTableValidation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	err := s.CreateTable(ctx, "bad-name", nil)
	assert.True(t, store.IsValidation(err))

	err = s.CreateTable(ctx, "ok", []store.ColumnSpec{{Name: "x;y", Type: "text"}})
	assert.True(t, store.IsValidation(err))

	err = s.CreateTable(ctx, "ok", []store.ColumnSpec{{Name: "x", Type: "geometry"}})
	assert.True(t, store.IsValidation(err))
}

func TestInsertListRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.CreateTable(ctx, "people", []store.ColumnSpec{
		{Name: "name", Type: "text"},
		{Name: "age", Type: "integer"},
		{Name: "active", Type: "boolean"},
		{Name: "notes", Type: "text"},
	}))

	id, err := s.Insert(ctx, "people",
		map[string]string{"name": "Ada", "age": "42", "active": "On", "notes": ""},
		map[string]store.TypeHint{"age": store.HintNumber, "active": store.HintBoolean})
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	recs, err := s.List(ctx, "people", 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	rec := recs[0]

	assert.Equal(t, "Ada", rec["name"])
	assert.EqualValues(t, 42, rec["age"], "age must round-trip as a number, not %T", rec["age"])
	// The empty value was dropped, so the column is NULL.
	assert.Nil(t, rec["notes"])
	// Dialects store booleans differently; both forms are truthy.
	switch v := rec["active"].(type) {
	case bool:
		assert.True(t, v)
	case int64:
		assert.EqualValues(t, 1, v)
	default:
		t.Fatalf("unexpected boolean representation %T", rec["active"])
	}
}

func TestInsertRejectsEmptyRecord(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.CreateTable(ctx, "people", []store.ColumnSpec{{Name: "name", Type: "text"}}))

	// All values empty and the pk excluded: nothing survives filtering.
	_, err := s.Insert(ctx, "people", map[string]string{"name": "", "id": "7"}, nil)
	assert.True(t, store.IsValidation(err))
}

func TestInsertSkipsUnknownAndKeyColumns(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.CreateTable(ctx, "people", []store.ColumnSpec{{Name: "name", Type: "text"}}))

	_, err := s.Insert(ctx, "people",
		map[string]string{"name": "Ada", "id": "99", "ghost": "boo"}, nil)
	require.NoError(t, err)

	recs, err := s.List(ctx, "people", 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	// The generated key was assigned by the database, not the form.
	assert.EqualValues(t, 1, recs[0]["id"])
}

func TestUpdateIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.CreateTable(ctx, "people", []store.ColumnSpec{{Name: "name", Type: "text"}}))
	id, err := s.Insert(ctx, "people", map[string]string{"name": "Ada"}, nil)
	require.NoError(t, err)

	updates := store.Record{"name": "Grace"}
	changed, err := s.Update(ctx, "people", id, updates)
	require.NoError(t, err)
	assert.True(t, changed)

	// Applying the same payload again yields the same final state and still
	// reports a match.
	changed, err = s.Update(ctx, "people", id, updates)
	require.NoError(t, err)
	assert.True(t, changed)

	recs, err := s.List(ctx, "people", 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Grace", recs[0]["name"])
}

func TestUpdateMissingRecord(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.CreateTable(ctx, "people", []store.ColumnSpec{{Name: "name", Type: "text"}}))

	changed, err := s.Update(ctx, "people", "12345", store.Record{"name": "X"})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUpdateRejectsEmptySet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.CreateTable(ctx, "people", []store.ColumnSpec{{Name: "name", Type: "text"}}))
	id, err := s.Insert(ctx, "people", map[string]string{"name": "Ada"}, nil)
	require.NoError(t, err)

	_, err = s.Update(ctx, "people", id, store.Record{"ghost": "boo", "id": "1"})
	assert.True(t, store.IsValidation(err))
}

func TestDeleteIdempotentEffect(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.CreateTable(ctx, "people", []store.ColumnSpec{{Name: "name", Type: "text"}}))
	id, err := s.Insert(ctx, "people", map[string]string{"name": "Ada"}, nil)
	require.NoError(t, err)

	existed, err := s.Delete(ctx, "people", id)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.Delete(ctx, "people", id)
	require.NoError(t, err)
	assert.False(t, existed)

	existed, err = s.Delete(ctx, "people", "999")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestNoPrimaryKeyRejectsMutations(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.db.Exec("CREATE TABLE plain (name TEXT)").Error)

	pks, err := s.PrimaryKeys(ctx, "plain")
	require.NoError(t, err)
	assert.Empty(t, pks)

	_, err = s.Update(ctx, "plain", "1", store.Record{"name": "X"})
	assert.True(t, store.IsValidation(err))

	_, err = s.Delete(ctx, "plain", "1")
	assert.True(t, store.IsValidation(err))
}

func TestInvalidIdentifiersFailClosed(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.List(ctx, "people; DROP TABLE users", 10)
	assert.True(t, store.IsValidation(err))

	_, err = s.Columns(ctx, "1people")
	assert.True(t, store.IsValidation(err))

	_, err = s.Insert(ctx, "ta ble", map[string]string{"a": "b"}, nil)
	assert.True(t, store.IsValidation(err))
}

func TestAuthStore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.EnsureAuth(ctx))
	// EnsureAuth is safe to repeat.
	require.NoError(t, s.EnsureAuth(ctx))

	u, err := s.InsertUser(ctx, "ada", "hash-one")
	require.NoError(t, err)
	assert.Equal(t, "ada", u.Name)
	assert.NotEmpty(t, u.ID)

	_, err = s.InsertUser(ctx, "ada", "hash-two")
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	// Failed signup must not clobber the existing credential.
	got, err := s.UserByName(ctx, "ada")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hash-one", got.PasswordHash)

	missing, err := s.UserByName(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContacts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.EnsureContacts(ctx))

	c, err := s.ContactCreate(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.Name)
	assert.NotZero(t, c.ID)

	_, err = s.ContactCreate(ctx, "Imposter", "ada@example.com")
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	all, err := s.Contacts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Partial update: only the name changes, the email is kept.
	newName := "Ada L."
	updated, err := s.ContactUpdate(ctx, c.ID, &newName, nil)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "ada@example.com", updated.Email)

	none, err := s.ContactUpdate(ctx, 9999, &newName, nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	deleted, err := s.ContactDelete(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, c.ID, deleted.ID)

	again, err := s.ContactDelete(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
}
