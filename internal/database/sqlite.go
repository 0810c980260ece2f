package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dbauto/internal/schema"
)

type SQLiteExtractor struct {
	db *sql.DB
}

func (s *SQLiteExtractor) ExtractSchema(ctx context.Context, filter schema.Filter) (*schema.Schema, error) {
	sch := &schema.Schema{Dialect: "sqlite"}

	tables, err := s.extractTables(ctx, filter)
	if err != nil {
		return nil, err
	}
	sch.Tables = tables

	for _, table := range tables {
		if table.IsView {
			continue
		}
		foreignKeys, err := s.extractForeignKeys(ctx, table.Name)
		if err != nil {
			return nil, err
		}
		sch.ForeignKeys = append(sch.ForeignKeys, foreignKeys...)
	}

	return sch, nil
}

func (s *SQLiteExtractor) extractTables(ctx context.Context, filter schema.Filter) ([]schema.Table, error) {
	query := `
        SELECT name, type
        FROM sqlite_master
        WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
        ORDER BY name
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	tables, err := readTables(rows, filter, func(table *schema.Table) error {
		var kind string
		if err := rows.Scan(&table.Name, &kind); err != nil {
			return err
		}
		table.IsView = kind == "view"
		table.Schema = "main"
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range tables {
		columns, err := s.extractColumns(ctx, tables[i].Name, filter)
		if err != nil {
			return nil, err
		}
		tables[i].Columns = columns

		for _, col := range columns {
			if col.IsPrimaryKey {
				tables[i].PrimaryKeys = append(tables[i].PrimaryKeys, col.Name)
			}
		}
	}

	return tables, nil
}

func (s *SQLiteExtractor) extractColumns(ctx context.Context, tableName string, filter schema.Filter) ([]schema.Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(tableName))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var cid int
		var defaultValue sql.NullString
		var notNull int
		var pk int

		if err := rows.Scan(
			&cid,
			&col.Name,
			&col.Type,
			&notNull,
			&defaultValue,
			&pk,
		); err != nil {
			return nil, err
		}

		if !filter.IncludeColumn(col.Name) {
			continue
		}

		col.IsNullable = notNull == 0 && pk == 0
		col.IsPrimaryKey = pk > 0
		col.AutoIncrement = pk == 1 && strings.EqualFold(col.Type, "integer")
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (s *SQLiteExtractor) extractForeignKeys(ctx context.Context, tableName string) ([]schema.ForeignKey, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(tableName))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foreignKeys []schema.ForeignKey
	for rows.Next() {
		var fk schema.ForeignKey
		var id, seq int
		var to sql.NullString
		var onUpdate, onDelete, match string

		if err := rows.Scan(
			&id,
			&seq,
			&fk.ReferencedTable,
			&fk.Column,
			&to,
			&onUpdate,
			&onDelete,
			&match,
		); err != nil {
			return nil, err
		}

		fk.Name = fmt.Sprintf("fk_%s_%s", tableName, fk.Column)
		fk.Table = tableName
		fk.ReferencedColumn = to.String

		foreignKeys = append(foreignKeys, fk)
	}

	return foreignKeys, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
