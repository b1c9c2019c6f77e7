package sqlstore

import (
	"context"
	"fmt"

	"github.com/wranglebase/wranglebase/store"
)

// Columns returns the table's column metadata ordered by declared position.
// Introspection is repeated on every call; nothing is cached.
func (s *Store) Columns(ctx context.Context, table string) ([]store.Column, error) {
	if !store.ValidIdentifier(table) {
		return nil, store.Validationf("invalid table name %q", table)
	}
	switch s.driver {
	case "postgres":
		return s.columnsInformationSchema(ctx, table,
			`SELECT column_name, data_type, is_nullable
			   FROM information_schema.columns
			  WHERE table_schema = 'public' AND table_name = ?
			  ORDER BY ordinal_position`)
	case "mysql":
		return s.columnsInformationSchema(ctx, table,
			`SELECT column_name, data_type, is_nullable
			   FROM information_schema.columns
			  WHERE table_schema = DATABASE() AND table_name = ?
			  ORDER BY ordinal_position`)
	case "sqlserver":
		return s.columnsInformationSchema(ctx, table,
			`SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE
			   FROM INFORMATION_SCHEMA.COLUMNS
			  WHERE TABLE_NAME = ?
			  ORDER BY ORDINAL_POSITION`)
	case "sqlite":
		return s.columnsSQLite(ctx, table)
	default:
		return nil, fmt.Errorf("columns: unsupported driver %s", s.driver)
	}
}

func (s *Store) columnsInformationSchema(ctx context.Context, table, query string) ([]store.Column, error) {
	rows, err := s.db.WithContext(ctx).Raw(query, table).Rows()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := []store.Column{}
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("columns of %s: %w", table, err)
		}
		cols = append(cols, store.Column{
			Name:     name,
			DataType: dataType,
			Nullable: nullable == "YES",
		})
	}
	return cols, rows.Err()
}

// columnsSQLite uses PRAGMA table_info; the pragma cannot bind the table
// name, which is why the identifier check above is load-bearing.
func (s *Store) columnsSQLite(ctx context.Context, table string) ([]store.Column, error) {
	rows, err := s.db.WithContext(ctx).
		Raw(fmt.Sprintf("PRAGMA table_info(%s)", s.quoteIdent(table))).Rows()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := []store.Column{}
	for rows.Next() {
		var cid, notNull, pk int
		var name, dataType string
		var dflt any
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("columns of %s: %w", table, err)
		}
		cols = append(cols, store.Column{
			Name:     name,
			DataType: dataType,
			Nullable: notNull == 0,
		})
	}
	return cols, rows.Err()
}

// PrimaryKeys returns the primary-key columns in key order, or an empty
// slice when the table has none (update/delete then become unsupported and
// callers surface that explicitly).
func (s *Store) PrimaryKeys(ctx context.Context, table string) ([]string, error) {
	if !store.ValidIdentifier(table) {
		return nil, store.Validationf("invalid table name %q", table)
	}
	switch s.driver {
	case "postgres":
		return s.primaryKeysScan(ctx, table,
			`SELECT a.attname
			   FROM pg_index i
			   JOIN pg_attribute a ON a.attrelid = i.indrelid
			    AND a.attnum = ANY(i.indkey)
			  WHERE i.indisprimary
			    AND i.indrelid = ?::regclass
			  ORDER BY a.attnum`)
	case "mysql":
		return s.primaryKeysScan(ctx, table,
			`SELECT k.column_name
			   FROM information_schema.table_constraints t
			   JOIN information_schema.key_column_usage k
			     ON k.constraint_name = t.constraint_name
			    AND k.table_schema = t.table_schema
			    AND k.table_name = t.table_name
			  WHERE t.constraint_type = 'PRIMARY KEY'
			    AND t.table_schema = DATABASE()
			    AND t.table_name = ?
			  ORDER BY k.ordinal_position`)
	case "sqlserver":
		return s.primaryKeysScan(ctx, table,
			`SELECT k.COLUMN_NAME
			   FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS t
			   JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE k
			     ON k.CONSTRAINT_NAME = t.CONSTRAINT_NAME
			  WHERE t.CONSTRAINT_TYPE = 'PRIMARY KEY'
			    AND t.TABLE_NAME = ?
			  ORDER BY k.ORDINAL_POSITION`)
	case "sqlite":
		return s.pragmaKeyColumns(ctx, table)
	default:
		return nil, fmt.Errorf("primary keys: unsupported driver %s", s.driver)
	}
}

func (s *Store) primaryKeysScan(ctx context.Context, table, query string) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Raw(query, table).Scan(&names).Error; err != nil {
		return nil, fmt.Errorf("primary keys of %s: %w", table, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// pragmaKeyColumns reads PRAGMA table_info and orders key columns by their
// position within the primary key (the pk field is 1-based).
func (s *Store) pragmaKeyColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.WithContext(ctx).
		Raw(fmt.Sprintf("PRAGMA table_info(%s)", s.quoteIdent(table))).Rows()
	if err != nil {
		return nil, fmt.Errorf("primary keys of %s: %w", table, err)
	}
	defer rows.Close()

	type keyCol struct {
		name string
		pos  int
	}
	var keys []keyCol
	for rows.Next() {
		var cid, notNull, pk int
		var name, dataType string
		var dflt any
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("primary keys of %s: %w", table, err)
		}
		if pk > 0 {
			keys = append(keys, keyCol{name: name, pos: pk})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	names := make([]string, len(keys))
	for _, k := range keys {
		names[k.pos-1] = k.name
	}
	return names, nil
}
