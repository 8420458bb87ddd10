package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
)

type Config struct {
	Driver           string
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ConfigFrom maps application config onto repository config.
func ConfigFrom(cfg common.DatabaseConfig) Config {
	return Config{
		Driver:           cfg.Driver,
		DSN:              cfg.DSN,
		MaxConns:         cfg.MaxConns,
		MinConns:         cfg.MinConns,
		MaxConnLifetime:  cfg.MaxConnLifetime,
		MaxConnIdleTime:  cfg.MaxConnIdleTime,
		DialTimeout:      cfg.DialTimeout,
		StatementTimeout: cfg.StatementTimeout,
	}
}

// Client is the ent SQL driver shared by the repositories, plus the pgx pool
// when running on Postgres.
type Client struct {
	drv     *entsql.Driver
	dialect string
	pool    *pgxpool.Pool
	logger  *slog.Logger
}

// Open connects to the configured database and applies the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		client *Client
		err    error
	)
	switch cfg.Driver {
	case common.DriverPostgres:
		client, err = openPostgres(ctx, cfg, logger)
	case common.DriverSQLite, "":
		client, err = openSQLite(cfg.DSN, logger)
	default:
		return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown driver %q", cfg.Driver), common.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	if err := client.Migrate(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// OpenInMemory returns a migrated private in-memory SQLite database.
func OpenInMemory(ctx context.Context, logger *slog.Logger) (*Client, error) {
	return Open(ctx, Config{Driver: common.DriverSQLite, DSN: ":memory:"}, logger)
}

// InitDatabase opens a fresh in-memory store when inmem is set, otherwise
// the configured database.
func InitDatabase(ctx context.Context, cfg common.DatabaseConfig, inmem bool, logger *slog.Logger) (*Client, error) {
	if inmem {
		return OpenInMemory(ctx, logger)
	}
	return Open(ctx, ConfigFrom(cfg), logger)
}

func openSQLite(dsn string, logger *slog.Logger) (*Client, error) {
	logger.Info("opening sqlite database", "dsn", dsn)
	db, err := sql.Open("sqlite", sqliteDSN(dsn))
	if err != nil {
		logger.Error("failed to open sqlite database", "error", err)
		return nil, common.NewAppError("DB_OPEN", "open sqlite", errors.Join(common.ErrDatabase, err))
	}
	// Imports are single-writer, and an in-memory database only lives as
	// long as its one connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	return &Client{
		drv:     entsql.OpenDB(dialect.SQLite, db),
		dialect: dialect.SQLite,
		logger:  logger,
	}, nil
}

func sqliteDSN(dsn string) string {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if dsn == "" || dsn == ":memory:" {
		return "file::memory:?" + pragmas
	}
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + pragmas
	}
	return dsn + "?" + pragmas
}

// openPostgres creates a pgx pool and wraps it for the ent driver.
func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	logger.Info("connecting to database", "driver", cfg.Driver)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, common.NewAppError("DB_OPEN", "parse postgres dsn", errors.Join(common.ErrDatabase, err))
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "tebligat-tracker"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.StatementTimeout.Milliseconds())
	}

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, common.NewAppError("DB_OPEN", "connect postgres", errors.Join(common.ErrDatabase, err))
	}

	// Wrap pool as *sql.DB for the ent driver
	db := stdlib.OpenDBFromPool(pool)
	logger.Info("successfully connected to database")
	return &Client{
		drv:     entsql.OpenDB(dialect.Postgres, db),
		dialect: dialect.Postgres,
		pool:    pool,
		logger:  logger,
	}, nil
}

// Dialect returns the ent dialect name of the connection.
func (c *Client) Dialect() string {
	return c.dialect
}

// Close closes the database connections gracefully
func (c *Client) Close() {
	c.logger.Info("closing database connections")
	if err := c.drv.Close(); err != nil {
		c.logger.Error("failed to close database", "error", err)
	}
	if c.pool != nil {
		c.pool.Close()
	}
	c.logger.Info("database connections closed")
}

// HealthCheck pings the database within timeout.
func (c *Client) HealthCheck(ctx context.Context, timeout time.Duration) error {
	c.logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	var err error
	if c.pool != nil {
		err = c.pool.Ping(ctx)
	} else {
		err = c.drv.DB().PingContext(ctx)
	}
	if err != nil {
		c.logger.Error("database ping failed", "error", err)
		return errors.Join(common.ErrDatabase, err)
	}
	c.logger.Debug("database ping successful")
	return nil
}

func (c *Client) sql() *entsql.DialectBuilder {
	return entsql.Dialect(c.dialect)
}

// exec runs a statement and returns the number of affected rows.
func (c *Client) exec(ctx context.Context, q entsql.Querier) (int64, error) {
	query, args := q.Query()
	var res entsql.Result
	if err := c.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// query runs q and scans all rows into v, a pointer to a slice.
func (c *Client) query(ctx context.Context, q entsql.Querier, v any) error {
	query, args := q.Query()
	var rows entsql.Rows
	if err := c.drv.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, v)
}

// count runs a COUNT query.
func (c *Client) count(ctx context.Context, q entsql.Querier) (int, error) {
	query, args := q.Query()
	var rows entsql.Rows
	if err := c.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, err
	}
	defer rows.Close()
	return entsql.ScanInt(rows)
}

// isUniqueViolation reports whether err is a unique constraint failure
// from either backend.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// storeError classifies a driver error for callers.
func storeError(err error, message string) error {
	if isUniqueViolation(err) {
		return common.NewAppError("DUPLICATE", message, errors.Join(common.ErrDuplicate, err))
	}
	return common.NewAppError("DB_ERROR", message, errors.Join(common.ErrDatabase, err))
}
