package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/kylycht/flux/storage"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Dialect holds the statements of a SQL flavour
type Dialect struct {
	Driver string // database/sql driver name
	create string
	get    string
	set    string
}

var (
	Postgres = Dialect{
		Driver: "postgres",
		create: `CREATE TABLE IF NOT EXISTS %s (
					kv_key     VARCHAR(64) PRIMARY KEY,
					kv_value   TEXT NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
				 )`,
		get: `SELECT kv_value FROM %s WHERE kv_key = $1`,
		set: `INSERT INTO %s (kv_key, kv_value, updated_at)
				 VALUES ($1, $2, now())
				 ON CONFLICT (kv_key) DO UPDATE
				 SET kv_value = EXCLUDED.kv_value, updated_at = now()`,
	}

	MySQL = Dialect{
		Driver: "mysql",
		create: `CREATE TABLE IF NOT EXISTS %s (
					kv_key     VARCHAR(64) PRIMARY KEY,
					kv_value   TEXT NOT NULL,
					updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
				 )`,
		get: `SELECT kv_value FROM %s WHERE kv_key = ?`,
		set: `INSERT INTO %s (kv_key, kv_value)
				 VALUES (?, ?)
				 ON DUPLICATE KEY UPDATE kv_value = VALUES(kv_value)`,
	}
)

// DialectFor returns the dialect registered for driver
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case Postgres.Driver:
		return Postgres, nil
	case MySQL.Driver:
		return MySQL, nil
	}
	return Dialect{}, fmt.Errorf("unsupported sql driver: %s", driver)
}

type Persistence struct {
	dbConn  *sql.DB
	dialect Dialect
	table   string
}

// Open connects to the database and returns a store
// backed by table, creating the table when migrate is set
func Open(ctx context.Context, driver, dsn, table string, migrate bool) (*Persistence, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	dbConn, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := dbConn.PingContext(ctx); err != nil {
		dbConn.Close()
		return nil, err
	}

	p := New(dbConn, dialect, table)

	if migrate {
		if err := p.Migrate(ctx); err != nil {
			dbConn.Close()
			return nil, err
		}
	}

	return p, nil
}

func New(dbConn *sql.DB, dialect Dialect, table string) *Persistence {
	if table == "" {
		table = "flux_store"
	}

	return &Persistence{
		dbConn:  dbConn,
		dialect: dialect,
		table:   table,
	}
}

// Migrate creates the backing table
func (p *Persistence) Migrate(ctx context.Context) error {
	log.Debug().Str("table", p.table).Str("driver", p.dialect.Driver).Msg("migrating store table")

	_, err := p.dbConn.ExecContext(ctx, p.query(p.dialect.create))
	return err
}

// Get implements storage.Store.
func (p *Persistence) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := p.dbConn.QueryRowContext(ctx, p.query(p.dialect.get), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

// Set implements storage.Store.
func (p *Persistence) Set(ctx context.Context, key, value string) error {
	_, err := p.dbConn.ExecContext(ctx, p.query(p.dialect.set), key, value)
	return err
}

// Close implements storage.Store.
func (p *Persistence) Close() error {
	return p.dbConn.Close()
}

func (p *Persistence) query(format string) string {
	return fmt.Sprintf(format, p.table)
}

var _ storage.Store = (*Persistence)(nil)
