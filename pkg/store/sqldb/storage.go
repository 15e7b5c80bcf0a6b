package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

const ActsTableSchema = `
	CREATE TABLE IF NOT EXISTS acts (
		id INTEGER PRIMARY KEY,
		act_no INTEGER NOT NULL UNIQUE,
		title TEXT NOT NULL
	);
`

const BeatsTableSchema = `
	CREATE TABLE IF NOT EXISTS beats (
		id INTEGER PRIMARY KEY,
		act_id INTEGER NOT NULL REFERENCES acts(id),
		beat_number INTEGER NOT NULL,
		scene_number INTEGER NULL,
		title TEXT NULL,
		description TEXT NULL,
		conflict TEXT NULL,
		emotion TEXT NULL,
		location TEXT NULL,
		time_of_day TEXT NULL,
		characters TEXT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		is_current BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at TIMESTAMP NULL,
		UNIQUE (act_id, beat_number, is_current)
	);
`

// bootQueries create the schema for local sqlite databases. MySQL schemas are
// owned by the authoring system and are never touched from here.
var bootQueries = []string{
	ActsTableSchema,
	BeatsTableSchema,
}

type Settings struct {
	Driver    string `mapstructure:"driver"`
	DSN       string `mapstructure:"dsn"`
	Bootstrap bool   `mapstructure:"bootstrap"`
}

func NewDB(ctx context.Context, settings Settings) (*sql.DB, error) {
	driver := settings.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if settings.DSN == "" {
		return nil, fmt.Errorf("database dsn is empty")
	}

	db, err := open(driver, settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	// every sqlite connection to :memory: opens its own empty database
	if driver == DriverSQLite && isMemory(settings.DSN) {
		db.SetMaxOpenConns(1)
	}

	if settings.Bootstrap && driver == DriverSQLite {
		for _, query := range bootQueries {
			if _, err := db.ExecContext(ctx, query); err != nil {
				db.Close()
				return nil, fmt.Errorf("bootstrap schema: %w", err)
			}
		}
	}

	return db, nil
}

func open(driver, dsn string) (*sql.DB, error) {
	if driver != DriverMySQL {
		return sql.Open(driver, dsn)
	}
	cfg, err := mysqlConfig(dsn)
	if err != nil {
		return nil, err
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

// mysqlConfig makes the driver return DATETIME and TIMESTAMP columns as
// time.Time in UTC. Without parseTime they arrive as []byte and fail to scan.
func mysqlConfig(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg, nil
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
