package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wranglebase/wranglebase/store"
)

// usersDDL returns the dialect DDL for the credential table. The column is
// named password but only ever stores a hash.
func (s *Store) usersDDL() string {
	switch s.driver {
	case "postgres":
		return `CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`
	case "mysql":
		return `CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`
	case "sqlserver":
		return `IF OBJECT_ID(N'users', N'U') IS NULL CREATE TABLE users (
			id INT IDENTITY(1,1) PRIMARY KEY,
			name NVARCHAR(255) NOT NULL UNIQUE,
			password NVARCHAR(MAX) NOT NULL
		)`
	default: // sqlite
		return `CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`
	}
}

// EnsureAuth creates the users table with its unique name constraint.
func (s *Store) EnsureAuth(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec(s.usersDDL()).Error; err != nil {
		return fmt.Errorf("ensure users table: %w", err)
	}
	return nil
}

// InsertUser creates a credential row. A duplicate name surfaces as
// store.ErrAlreadyExists; the existing row is left untouched.
func (s *Store) InsertUser(ctx context.Context, name, passwordHash string) (*store.User, error) {
	err := s.db.WithContext(ctx).
		Exec("INSERT INTO users (name, password) VALUES (?, ?)", name, passwordHash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("user %q: %w", name, store.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.UserByName(ctx, name)
}

// UserByName returns the named user, or (nil, nil) when no such user exists.
func (s *Store) UserByName(ctx context.Context, name string) (*store.User, error) {
	row := s.db.WithContext(ctx).
		Raw("SELECT id, name, password FROM users WHERE name = ?", name).Row()
	var u store.User
	if err := row.Scan(&u.ID, &u.Name, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
