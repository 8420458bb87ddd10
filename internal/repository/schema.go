package repository

import (
	"context"
	"errors"

	"entgo.io/ent/dialect"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
)

const (
	tableCourts   = "courts"
	tableVehicles = "vehicles"
	tableJobs     = "jobs"
)

// Dates are stored as YYYY-MM-DD text on both backends so that lexical
// ordering matches calendar ordering. SQLite keeps amounts as text to stay
// exact; Postgres uses NUMERIC.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS courts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		city TEXT NOT NULL,
		district TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		address TEXT,
		phone TEXT,
		email TEXT,
		contact TEXT,
		notes TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		plate TEXT NOT NULL UNIQUE,
		brand TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		year INTEGER NOT NULL DEFAULT 0,
		type TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		received_date TEXT NOT NULL,
		scheduled_date TEXT NOT NULL,
		court_id TEXT NOT NULL REFERENCES courts(id),
		file_number TEXT NOT NULL,
		vehicle_id TEXT REFERENCES vehicles(id),
		total_amount TEXT NOT NULL,
		base_amount TEXT NOT NULL,
		vat_amount TEXT NOT NULL,
		vat_rate TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		invoice_status TEXT NOT NULL,
		status TEXT NOT NULL,
		status_date TEXT NOT NULL,
		status_note TEXT,
		completion_date TEXT,
		payment_date TEXT,
		invoice_date TEXT,
		invoice_number TEXT,
		notes TEXT,
		synthetic_dates INTEGER NOT NULL DEFAULT 0,
		synthetic_amount INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (court_id, file_number)
	)`,
	`CREATE INDEX IF NOT EXISTS jobs_scheduled_date_idx ON jobs (scheduled_date)`,
	`CREATE INDEX IF NOT EXISTS jobs_status_idx ON jobs (status)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS courts (
		id uuid PRIMARY KEY,
		name text NOT NULL UNIQUE,
		city text NOT NULL,
		district text NOT NULL DEFAULT '',
		type text NOT NULL DEFAULT '',
		address text,
		phone text,
		email text,
		contact text,
		notes text,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id uuid PRIMARY KEY,
		plate text NOT NULL UNIQUE,
		brand text NOT NULL DEFAULT '',
		model text NOT NULL DEFAULT '',
		year integer NOT NULL DEFAULT 0,
		type text NOT NULL,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id uuid PRIMARY KEY,
		received_date varchar(10) NOT NULL,
		scheduled_date varchar(10) NOT NULL,
		court_id uuid NOT NULL REFERENCES courts(id),
		file_number text NOT NULL,
		vehicle_id uuid REFERENCES vehicles(id),
		total_amount numeric(12,2) NOT NULL,
		base_amount numeric(12,2) NOT NULL,
		vat_amount numeric(12,2) NOT NULL,
		vat_rate numeric(5,2) NOT NULL,
		payment_status text NOT NULL,
		invoice_status text NOT NULL,
		status text NOT NULL,
		status_date varchar(10) NOT NULL,
		status_note text,
		completion_date varchar(10),
		payment_date varchar(10),
		invoice_date varchar(10),
		invoice_number text,
		notes text,
		synthetic_dates boolean NOT NULL DEFAULT false,
		synthetic_amount boolean NOT NULL DEFAULT false,
		created_at timestamptz NOT NULL,
		updated_at timestamptz NOT NULL,
		UNIQUE (court_id, file_number)
	)`,
	`CREATE INDEX IF NOT EXISTS jobs_scheduled_date_idx ON jobs (scheduled_date)`,
	`CREATE INDEX IF NOT EXISTS jobs_status_idx ON jobs (status)`,
}

// Migrate creates the tables and indexes if they do not exist yet.
func (c *Client) Migrate(ctx context.Context) error {
	stmts := sqliteSchema
	if c.dialect == dialect.Postgres {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if err := c.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			c.logger.Error("schema migration failed", "error", err)
			return common.NewAppError("DB_MIGRATE", "apply schema", errors.Join(common.ErrDatabase, err))
		}
	}
	c.logger.Debug("schema up to date", "dialect", c.dialect)
	return nil
}
