package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wranglebase/wranglebase/store"
)

// contactsDDL returns the dialect DDL for the fixed-schema contact list.
func (s *Store) contactsDDL() string {
	switch s.driver {
	case "postgres":
		return `CREATE TABLE IF NOT EXISTS contacts (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE
		)`
	case "mysql":
		return `CREATE TABLE IF NOT EXISTS contacts (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name TEXT NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE
		)`
	case "sqlserver":
		return `IF OBJECT_ID(N'contacts', N'U') IS NULL CREATE TABLE contacts (
			id INT IDENTITY(1,1) PRIMARY KEY,
			name NVARCHAR(MAX) NOT NULL,
			email NVARCHAR(255) NOT NULL UNIQUE
		)`
	default: // sqlite
		return `CREATE TABLE IF NOT EXISTS contacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE
		)`
	}
}

// EnsureContacts creates the contacts table if missing.
func (s *Store) EnsureContacts(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec(s.contactsDDL()).Error; err != nil {
		return fmt.Errorf("ensure contacts table: %w", err)
	}
	return nil
}

// ContactCreate inserts a contact. A duplicate email surfaces as
// store.ErrAlreadyExists.
func (s *Store) ContactCreate(ctx context.Context, name, email string) (*store.Contact, error) {
	err := s.db.WithContext(ctx).
		Exec("INSERT INTO contacts (name, email) VALUES (?, ?)", name, email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("contact %q: %w", email, store.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("insert contact: %w", err)
	}
	// Email is unique, so the fresh row can be read back by it.
	return s.contactByEmail(ctx, email)
}

// Contacts returns all contacts ordered by id.
func (s *Store) Contacts(ctx context.Context) ([]store.Contact, error) {
	rows, err := s.db.WithContext(ctx).
		Raw("SELECT id, name, email FROM contacts ORDER BY id").Rows()
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []store.Contact{}
	for rows.Next() {
		var c store.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, fmt.Errorf("list contacts: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ContactUpdate sets the non-nil fields and returns the resulting row, or
// (nil, nil) when the id does not exist.
func (s *Store) ContactUpdate(ctx context.Context, id int64, name, email *string) (*store.Contact, error) {
	res := s.db.WithContext(ctx).Exec(
		`UPDATE contacts
		    SET name = COALESCE(?, name),
		        email = COALESCE(?, email)
		  WHERE id = ?`, name, email, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("contact update: %w", store.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("update contact: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.contactByID(ctx, id)
}

// ContactDelete removes the contact and returns the removed row, or
// (nil, nil) when the id does not exist.
func (s *Store) ContactDelete(ctx context.Context, id int64) (*store.Contact, error) {
	c, err := s.contactByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Exec("DELETE FROM contacts WHERE id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("delete contact: %w", err)
	}
	return c, nil
}

func (s *Store) contactByID(ctx context.Context, id int64) (*store.Contact, error) {
	return s.scanContact(s.db.WithContext(ctx).
		Raw("SELECT id, name, email FROM contacts WHERE id = ?", id).Row())
}

func (s *Store) contactByEmail(ctx context.Context, email string) (*store.Contact, error) {
	return s.scanContact(s.db.WithContext(ctx).
		Raw("SELECT id, name, email FROM contacts WHERE email = ?", email).Row())
}

func (s *Store) scanContact(row *sql.Row) (*store.Contact, error) {
	var c store.Contact
	if err := row.Scan(&c.ID, &c.Name, &c.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read contact: %w", err)
	}
	return &c, nil
}
