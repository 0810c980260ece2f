package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"dbauto/internal/schema"
	"dbauto/pkg/config"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type Connector struct {
	db      *sql.DB
	dialect string
}

type SchemaExtractor interface {
	ExtractSchema(ctx context.Context, filter schema.Filter) (*schema.Schema, error)
}

// NewConnector opens and pings a connection for the resolved configuration.
func NewConnector(ctx context.Context, cfg *config.Config) (*Connector, error) {
	driver, dsn, err := DataSource(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connector{
		db:      db,
		dialect: cfg.Dialect,
	}, nil
}

func (c *Connector) Close() error {
	return c.db.Close()
}

func (c *Connector) ExtractSchema(ctx context.Context, filter schema.Filter) (*schema.Schema, error) {
	var extractor SchemaExtractor

	switch c.dialect {
	case "postgres":
		extractor = &PostgreSQLExtractor{db: c.db}
	case "mysql", "mariadb":
		extractor = &MySQLExtractor{db: c.db}
	case "sqlite":
		extractor = &SQLiteExtractor{db: c.db}
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", c.dialect)
	}

	return extractor.ExtractSchema(ctx, filter)
}

// DataSource returns the database/sql driver name and DSN for cfg.
func DataSource(cfg *config.Config) (driver, dsn string, err error) {
	switch cfg.Dialect {
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Path:   "/" + cfg.Database,
		}
		if cfg.Username != "" {
			u.User = url.UserPassword(cfg.Username, cfg.Password)
		}
		q := url.Values{}
		q.Set("sslmode", "disable")
		for k, v := range cfg.DialectOptions {
			if s, ok := v.(string); ok {
				q.Set(k, s)
			}
		}
		u.RawQuery = q.Encode()
		return "postgres", u.String(), nil
	case "mysql", "mariadb":
		mc := mysql.NewConfig()
		mc.User = cfg.Username
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		mc.DBName = cfg.Database
		return "mysql", mc.FormatDSN(), nil
	case "sqlite":
		if cfg.Storage == "" {
			return "", "", fmt.Errorf("sqlite requires a storage path")
		}
		return "sqlite3", cfg.Storage, nil
	default:
		return "", "", fmt.Errorf("unsupported dialect: %s", cfg.Dialect)
	}
}

// tableRows is the part of *sql.Rows that readTables needs.
type tableRows interface {
	Next() bool
	Err() error
	Close() error
}

// readTables drains rows through scan and keeps the tables the filter
// selects. Views are dropped unless the filter asks for them.
func readTables(rows tableRows, filter schema.Filter, scan func(*schema.Table) error) ([]schema.Table, error) {
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var table schema.Table
		if err := scan(&table); err != nil {
			return nil, err
		}
		if table.IsView && !filter.Views {
			continue
		}
		if !filter.IncludeTable(table.Name) {
			continue
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, rows.Close()
}
