package database

import (
	"context"
	"database/sql"
	"strings"

	"dbauto/internal/schema"
)

type MySQLExtractor struct {
	db *sql.DB
}

func (m *MySQLExtractor) ExtractSchema(ctx context.Context, filter schema.Filter) (*schema.Schema, error) {
	s := &schema.Schema{Dialect: "mysql"}

	if filter.Schema == "" {
		if err := m.db.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&filter.Schema); err != nil {
			return nil, err
		}
	}

	tables, err := m.extractTables(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.Tables = tables

	foreignKeys, err := m.extractForeignKeys(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.ForeignKeys = foreignKeys

	return s, nil
}

func (m *MySQLExtractor) extractTables(ctx context.Context, filter schema.Filter) ([]schema.Table, error) {
	query := `
        SELECT table_name, table_type, COALESCE(table_comment, '')
        FROM information_schema.tables
        WHERE table_schema = ? AND table_type IN ('BASE TABLE', 'VIEW')
        ORDER BY table_name
    `

	rows, err := m.db.QueryContext(ctx, query, filter.Schema)
	if err != nil {
		return nil, err
	}

	tables, err := readTables(rows, filter, func(table *schema.Table) error {
		var tableType string
		if err := rows.Scan(&table.Name, &tableType, &table.Comment); err != nil {
			return err
		}
		table.IsView = tableType == "VIEW"
		table.Schema = filter.Schema
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range tables {
		columns, err := m.extractColumns(ctx, filter, tables[i].Name)
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

func (m *MySQLExtractor) extractColumns(ctx context.Context, filter schema.Filter, tableName string) ([]schema.Column, error) {
	query := `
        SELECT column_name, column_type, is_nullable = 'YES', column_default,
            column_key = 'PRI', extra, COALESCE(column_comment, '')
        FROM information_schema.columns
        WHERE table_schema = ? AND table_name = ?
        ORDER BY ordinal_position
    `

	rows, err := m.db.QueryContext(ctx, query, filter.Schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var defaultValue sql.NullString
		var extra string

		if err := rows.Scan(
			&col.Name,
			&col.Type,
			&col.IsNullable,
			&defaultValue,
			&col.IsPrimaryKey,
			&extra,
			&col.Comment,
		); err != nil {
			return nil, err
		}

		if !filter.IncludeColumn(col.Name) {
			continue
		}

		col.AutoIncrement = strings.Contains(extra, "auto_increment")
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (m *MySQLExtractor) extractForeignKeys(ctx context.Context, filter schema.Filter) ([]schema.ForeignKey, error) {
	query := `
        SELECT constraint_name, table_name, column_name,
            referenced_table_name, referenced_column_name
        FROM information_schema.key_column_usage
        WHERE table_schema = ? AND referenced_table_name IS NOT NULL
        ORDER BY table_name, ordinal_position
    `

	rows, err := m.db.QueryContext(ctx, query, filter.Schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foreignKeys []schema.ForeignKey
	for rows.Next() {
		var fk schema.ForeignKey
		if err := rows.Scan(
			&fk.Name,
			&fk.Table,
			&fk.Column,
			&fk.ReferencedTable,
			&fk.ReferencedColumn,
		); err != nil {
			return nil, err
		}

		if !filter.IncludeTable(fk.Table) {
			continue
		}

		foreignKeys = append(foreignKeys, fk)
	}

	return foreignKeys, rows.Err()
}
