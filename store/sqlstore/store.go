// Package sqlstore implements the relational store.Store over GORM.
// Postgres, MySQL, SQLite, and SQL Server dialects are supported; schema
// introspection goes through each catalog, record access through raw SQL
// with validated, quoted identifiers and bound parameters.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/wranglebase/wranglebase/store"
)

// Store is the relational adapter. All methods are safe for concurrent use;
// state beyond the connection pool is never kept between calls.
type Store struct {
	db     *gorm.DB
	driver string
}

var _ store.Store = (*Store)(nil)
var _ store.ContactStore = (*Store)(nil)

// Driver returns the canonical driver name this store was opened with.
func (s *Store) Driver() string { return s.driver }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// quoteIdent quotes an already-validated identifier for the active dialect.
func (s *Store) quoteIdent(ident string) string {
	switch s.driver {
	case "mysql":
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	case "sqlserver":
		return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
	default: // postgres, sqlite
		return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
	}
}

// Tables lists user tables sorted by name, excluding catalog objects.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	var q string
	switch s.driver {
	case "postgres":
		q = `SELECT table_name FROM information_schema.tables
		      WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		      ORDER BY table_name`
	case "mysql":
		q = `SELECT table_name FROM information_schema.tables
		      WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		      ORDER BY table_name`
	case "sqlite":
		q = `SELECT name FROM sqlite_master
		      WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		      ORDER BY name`
	case "sqlserver":
		q = `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		      WHERE TABLE_TYPE = 'BASE TABLE'
		      ORDER BY TABLE_NAME`
	default:
		return nil, fmt.Errorf("tables: unsupported driver %s", s.driver)
	}
	var names []string
	if err := s.db.WithContext(ctx).Raw(q).Scan(&names).Error; err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

// CreateTable creates the table with an implicit auto-increment id primary
// key plus the requested columns, mapped from the closed logical type set.
func (s *Store) CreateTable(ctx context.Context, table string, cols []store.ColumnSpec) error {
	if !store.ValidIdentifier(table) {
		return store.Validationf("invalid table name %q", table)
	}
	defs := []string{s.idColumnDef()}
	for _, c := range cols {
		if !store.ValidIdentifier(c.Name) {
			return store.Validationf("invalid column name %q", c.Name)
		}
		typ, err := s.columnType(c.Type)
		if err != nil {
			return err
		}
		defs = append(defs, s.quoteIdent(c.Name)+" "+typ)
	}
	qtable := s.quoteIdent(table)
	body := fmt.Sprintf("CREATE TABLE %s (%s)", qtable, strings.Join(defs, ", "))

	var stmt string
	if s.driver == "sqlserver" {
		stmt = fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL %s", table, body)
	} else {
		stmt = strings.Replace(body, "CREATE TABLE", "CREATE TABLE IF NOT EXISTS", 1)
	}
	if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

func (s *Store) idColumnDef() string {
	switch s.driver {
	case "postgres":
		return "id SERIAL PRIMARY KEY"
	case "mysql":
		return "id INT AUTO_INCREMENT PRIMARY KEY"
	case "sqlserver":
		return "id INT IDENTITY(1,1) PRIMARY KEY"
	default: // sqlite
		return "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

// columnType maps a logical column type to the dialect type.
func (s *Store) columnType(logical string) (string, error) {
	l := strings.ToLower(strings.TrimSpace(logical))
	if l == "" {
		l = "text"
	}
	if !store.LogicalTypes[l] {
		return "", store.Validationf("unsupported column type %q", logical)
	}
	switch l {
	case "integer", "int":
		return "INTEGER", nil
	case "boolean", "bool":
		if s.driver == "sqlserver" {
			return "BIT", nil
		}
		return "BOOLEAN", nil
	case "timestamp":
		switch s.driver {
		case "postgres":
			return "TIMESTAMPTZ", nil
		case "mysql":
			return "DATETIME", nil
		case "sqlserver":
			return "DATETIME2", nil
		default:
			return "TIMESTAMP", nil
		}
	default:
		return "TEXT", nil
	}
}

// List returns a bounded preview of the table ordered by its first column.
func (s *Store) List(ctx context.Context, table string, limit int) ([]store.Record, error) {
	if !store.ValidIdentifier(table) {
		return nil, store.Validationf("invalid table name %q", table)
	}
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	qtable := s.quoteIdent(table)
	var q string
	var args []any
	if s.driver == "sqlserver" {
		q = fmt.Sprintf("SELECT TOP (%d) * FROM %s ORDER BY 1", limit, qtable)
	} else {
		q = fmt.Sprintf("SELECT * FROM %s ORDER BY 1 LIMIT ?", qtable)
		args = append(args, limit)
	}
	rows, err := s.db.WithContext(ctx).Raw(q, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Insert builds one row from raw form values: primary-key columns and empty
// values are skipped, the rest are coerced per their hints and bound as
// parameters. Returns the generated id where the dialect can report one.
func (s *Store) Insert(ctx context.Context, table string, fields map[string]string, hints map[string]store.TypeHint) (string, error) {
	if !store.ValidIdentifier(table) {
		return "", store.Validationf("invalid table name %q", table)
	}
	cols, err := s.Columns(ctx, table)
	if err != nil {
		return "", err
	}
	pks, err := s.PrimaryKeys(ctx, table)
	if err != nil {
		return "", err
	}
	pkset := make(map[string]bool, len(pks))
	for _, pk := range pks {
		pkset[pk] = true
	}

	// Walk declared columns so the statement is deterministic.
	var names []string
	var args []any
	for _, c := range cols {
		if pkset[c.Name] {
			continue
		}
		v, ok := fields[c.Name]
		if !ok || v == "" {
			continue
		}
		names = append(names, s.quoteIdent(c.Name))
		args = append(args, store.Coerce(v, hints[c.Name]))
	}
	if len(names) == 0 {
		return "", store.Validationf("no insertable fields for table %q", table)
	}

	ph := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.quoteIdent(table), strings.Join(names, ", "), ph)

	var id string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.driver == "postgres" && len(pks) == 1 {
			var raw any
			row := tx.Raw(stmt+" RETURNING "+s.quoteIdent(pks[0]), args...).Row()
			if err := row.Scan(&raw); err != nil {
				return err
			}
			id = fmt.Sprint(raw)
			return nil
		}
		if err := tx.Exec(stmt, args...).Error; err != nil {
			return err
		}
		switch s.driver {
		case "sqlite":
			var n int64
			if err := tx.Raw("SELECT last_insert_rowid()").Scan(&n).Error; err == nil {
				id = fmt.Sprint(n)
			}
		case "mysql":
			var n int64
			if err := tx.Raw("SELECT LAST_INSERT_ID()").Scan(&n).Error; err == nil {
				id = fmt.Sprint(n)
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", table, err)
	}
	return id, nil
}

// Update sets the given columns on the row identified by id. Tables without
// a primary key are rejected before any statement is issued; composite keys
// are matched on their first column only.
func (s *Store) Update(ctx context.Context, table, id string, updates store.Record) (bool, error) {
	pk, cols, err := s.mutationKey(ctx, table, "update")
	if err != nil {
		return false, err
	}
	var sets []string
	var args []any
	for _, c := range cols {
		if c.Name == pk {
			continue
		}
		v, ok := updates[c.Name]
		if !ok {
			continue
		}
		sets = append(sets, s.quoteIdent(c.Name)+" = ?")
		args = append(args, v)
	}
	if len(sets) == 0 {
		return false, store.Validationf("nothing to update")
	}
	args = append(args, id)
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		s.quoteIdent(table), strings.Join(sets, ", "), s.quoteIdent(pk))
	res := s.db.WithContext(ctx).Exec(stmt, args...)
	if res.Error != nil {
		return false, fmt.Errorf("update %s: %w", table, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the row identified by id; (false, nil) means no such row.
func (s *Store) Delete(ctx context.Context, table, id string) (bool, error) {
	pk, _, err := s.mutationKey(ctx, table, "delete")
	if err != nil {
		return false, err
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.quoteIdent(table), s.quoteIdent(pk))
	res := s.db.WithContext(ctx).Exec(stmt, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete from %s: %w", table, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// mutationKey validates the table and resolves the primary-key column used
// for update/delete matching.
func (s *Store) mutationKey(ctx context.Context, table, op string) (string, []store.Column, error) {
	if !store.ValidIdentifier(table) {
		return "", nil, store.Validationf("invalid table name %q", table)
	}
	pks, err := s.PrimaryKeys(ctx, table)
	if err != nil {
		return "", nil, err
	}
	if len(pks) == 0 {
		return "", nil, store.Validationf("table %q has no primary key; %s unsupported", table, op)
	}
	cols, err := s.Columns(ctx, table)
	if err != nil {
		return "", nil, err
	}
	return pks[0], cols, nil
}

// scanRecords reads every row into a name-keyed map, converting []byte cells
// to strings so results are JSON-safe.
func scanRecords(rows *sql.Rows) ([]store.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	records := []store.Record{}
	for rows.Next() {
		values := make([]any, len(cols))
		pointers := make([]any, len(cols))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec := make(store.Record, len(cols))
		for i, name := range cols {
			switch v := values[i].(type) {
			case []byte:
				rec[name] = string(v)
			default:
				rec[name] = v
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return records, nil
}
