package database

import (
	"context"
	"database/sql"
	"strings"

	"dbauto/internal/schema"
)

type PostgreSQLExtractor struct {
	db *sql.DB
}

func (p *PostgreSQLExtractor) ExtractSchema(ctx context.Context, filter schema.Filter) (*schema.Schema, error) {
	s := &schema.Schema{Dialect: "postgres"}

	if filter.Schema == "" {
		filter.Schema = "public"
	}

	tables, err := p.extractTables(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.Tables = tables

	foreignKeys, err := p.extractForeignKeys(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.ForeignKeys = foreignKeys

	return s, nil
}

func (p *PostgreSQLExtractor) extractTables(ctx context.Context, filter schema.Filter) ([]schema.Table, error) {
	query := `
        SELECT t.table_name, t.table_type, COALESCE(obj_description(c.oid), '') as comment
        FROM information_schema.tables t
        LEFT JOIN pg_namespace n ON n.nspname = t.table_schema
        LEFT JOIN pg_class c ON c.relname = t.table_name AND c.relnamespace = n.oid
        WHERE t.table_schema = $1 AND t.table_type IN ('BASE TABLE', 'VIEW')
        ORDER BY t.table_name
    `

	rows, err := p.db.QueryContext(ctx, query, filter.Schema)
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
		columns, err := p.extractColumns(ctx, filter, tables[i].Name)
		if err != nil {
			return nil, err
		}

		primaryKeys, err := p.extractPrimaryKeys(ctx, filter.Schema, tables[i].Name)
		if err != nil {
			return nil, err
		}
		tables[i].PrimaryKeys = primaryKeys

		for j := range columns {
			columns[j].IsPrimaryKey = contains(primaryKeys, columns[j].Name)
		}
		tables[i].Columns = columns
	}

	return tables, nil
}

func (p *PostgreSQLExtractor) extractColumns(ctx context.Context, filter schema.Filter, tableName string) ([]schema.Column, error) {
	query := `
        SELECT
            c.column_name,
            c.data_type,
            c.is_nullable = 'YES' as is_nullable,
            c.column_default,
            COALESCE(col_description(pgc.oid, c.ordinal_position), '') as comment
        FROM information_schema.columns c
        LEFT JOIN pg_namespace n ON n.nspname = c.table_schema
        LEFT JOIN pg_class pgc ON pgc.relname = c.table_name AND pgc.relnamespace = n.oid
        WHERE c.table_schema = $1 AND c.table_name = $2
        ORDER BY c.ordinal_position
    `

	rows, err := p.db.QueryContext(ctx, query, filter.Schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var defaultValue sql.NullString

		if err := rows.Scan(
			&col.Name,
			&col.Type,
			&col.IsNullable,
			&defaultValue,
			&col.Comment,
		); err != nil {
			return nil, err
		}

		if !filter.IncludeColumn(col.Name) {
			continue
		}

		if defaultValue.Valid {
			if strings.HasPrefix(defaultValue.String, "nextval(") {
				col.AutoIncrement = true
			} else {
				col.DefaultValue = &defaultValue.String
			}
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (p *PostgreSQLExtractor) extractPrimaryKeys(ctx context.Context, schemaName, tableName string) ([]string, error) {
	query := `
        SELECT kcu.column_name
        FROM information_schema.table_constraints tc
        JOIN information_schema.key_column_usage kcu
            ON tc.constraint_name = kcu.constraint_name
            AND tc.table_schema = kcu.table_schema
        WHERE tc.table_schema = $1
            AND tc.table_name = $2
            AND tc.constraint_type = 'PRIMARY KEY'
        ORDER BY kcu.ordinal_position
    `

	rows, err := p.db.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var primaryKeys []string
	for rows.Next() {
		var columnName string
		if err := rows.Scan(&columnName); err != nil {
			return nil, err
		}
		primaryKeys = append(primaryKeys, columnName)
	}

	return primaryKeys, rows.Err()
}

func (p *PostgreSQLExtractor) extractForeignKeys(ctx context.Context, filter schema.Filter) ([]schema.ForeignKey, error) {
	query := `
        SELECT
            tc.constraint_name,
            tc.table_name,
            kcu.column_name,
            ccu.table_name AS foreign_table_name,
            ccu.column_name AS foreign_column_name
        FROM information_schema.table_constraints AS tc
        JOIN information_schema.key_column_usage AS kcu
            ON tc.constraint_name = kcu.constraint_name
            AND tc.table_schema = kcu.table_schema
        JOIN information_schema.constraint_column_usage AS ccu
            ON ccu.constraint_name = tc.constraint_name
            AND ccu.table_schema = tc.table_schema
        WHERE tc.constraint_type = 'FOREIGN KEY'
            AND tc.table_schema = $1
    `

	rows, err := p.db.QueryContext(ctx, query, filter.Schema)
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

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
