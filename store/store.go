// Package store defines the backend-neutral contract for the generic table
// admin: identifier validation, schema introspection, bounded listing, and
// single-record mutation over a user-chosen table or collection. Two
// implementations exist, sqlstore (relational, GORM) and mongostore
// (document, MongoDB).
package store

import "context"

// DefaultListLimit bounds how many records List returns when the caller does
// not ask for fewer.
const DefaultListLimit = 200

// Record maps field/column names to dynamically typed scalar values.
type Record = map[string]any

// Column describes one column or field of a table/collection.
// The document backend fills Name only; DataType and Nullable are a
// relational concept.
type Column struct {
	Name     string `json:"name"`
	DataType string `json:"data_type,omitempty"`
	Nullable bool   `json:"nullable,omitempty"`
}

// ColumnSpec is a requested column for CreateTable. Type is one of the
// logical types in LogicalTypes; the relational adapter maps it to a dialect
// type, the document adapter ignores it.
type ColumnSpec struct {
	Name string
	Type string
}

// LogicalTypes is the closed set of column types accepted by CreateTable.
var LogicalTypes = map[string]bool{
	"text":      true,
	"integer":   true,
	"int":       true,
	"boolean":   true,
	"bool":      true,
	"timestamp": true,
}

// User is one credential row/document from the auth store.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
}

// Contact is one entry of the fixed-schema contact list (relational only).
type Contact struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Store is the abstract contract the web layer depends on. Implementations
// must validate every table name with ValidIdentifier before interpolating it
// anywhere, and must never interpret record values beyond the coercion rules
// in this package.
type Store interface {
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
	// Close releases the underlying connection pool.
	Close() error

	// Tables returns user tables/collections sorted by name, excluding
	// system objects.
	Tables(ctx context.Context) ([]string, error)

	// CreateTable creates a table/collection if it does not already exist.
	CreateTable(ctx context.Context, table string, cols []ColumnSpec) error

	// Columns introspects the current schema of a table. The document
	// backend samples one record, so fields absent from the sample are
	// omitted; an empty collection yields an empty slice and no error.
	Columns(ctx context.Context, table string) ([]Column, error)

	// PrimaryKeys returns the primary-key column names in key order. An
	// empty slice means the table has no primary key and update/delete are
	// unsupported for it. The document backend always reports ["_id"].
	PrimaryKeys(ctx context.Context, table string) ([]string, error)

	// List returns at most limit records ordered by the identifying column
	// ascending. limit <= 0 means DefaultListLimit. Generated identifiers
	// are returned in a JSON-safe form.
	List(ctx context.Context, table string, limit int) ([]Record, error)

	// Insert stores one record built from raw form values. Values are
	// coerced per the caller-supplied hints, empty values are dropped, and
	// identifier columns are never written. Returns the generated record
	// identifier where the backend can report one.
	Insert(ctx context.Context, table string, fields map[string]string, hints map[string]TypeHint) (string, error)

	// Update merges updates over the record identified by id. The
	// identifier field itself is stripped before merging. Returns whether
	// any field actually changed; (false, nil) also covers a missing
	// record. Tables without a primary key are rejected up front.
	//
	// Composite primary keys are matched on their first column only.
	Update(ctx context.Context, table, id string, updates Record) (bool, error)

	// Delete removes the record identified by id. Returns whether a record
	// existed. Same primary-key constraints as Update.
	Delete(ctx context.Context, table, id string) (bool, error)

	// EnsureAuth creates the users table/collection and its unique
	// constraint on name.
	EnsureAuth(ctx context.Context) error

	// InsertUser creates a credential entry. A duplicate name fails with
	// ErrAlreadyExists and leaves the existing entry untouched.
	InsertUser(ctx context.Context, name, passwordHash string) (*User, error)

	// UserByName returns the named user, or (nil, nil) when absent.
	UserByName(ctx context.Context, name string) (*User, error)
}

// ContactStore is the optional fixed-schema contact list. Only the
// relational backend implements it; callers discover support with a type
// assertion.
type ContactStore interface {
	EnsureContacts(ctx context.Context) error

	// ContactCreate inserts a contact; a duplicate email fails with
	// ErrAlreadyExists.
	ContactCreate(ctx context.Context, name, email string) (*Contact, error)

	// Contacts returns all contacts ordered by id.
	Contacts(ctx context.Context) ([]Contact, error)

	// ContactUpdate sets the non-nil fields of the identified contact and
	// returns the resulting row, or (nil, nil) when the id does not exist.
	ContactUpdate(ctx context.Context, id int64, name, email *string) (*Contact, error)

	// ContactDelete removes a contact and returns the removed row, or
	// (nil, nil) when the id does not exist.
	ContactDelete(ctx context.Context, id int64) (*Contact, error)
}
