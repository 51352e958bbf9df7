package statestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/ClydeShen/Angular2-UUIID"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// TableName is the table holding saved clock states, one row per name.
const TableName = "uuid_clock_state"

// Dialect selects the SQL flavour of a SQLStore.
type Dialect int

const (
	DialectMySQL Dialect = iota
	DialectPostgres
	DialectSQLite
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driverName string) (Dialect, error) {
	switch driverName {
	case "mysql":
		return DialectMySQL, nil
	case "pgx", "postgres":
		return DialectPostgres, nil
	case "sqlite3":
		return DialectSQLite, nil
	default:
		return 0, fmt.Errorf("%w: driver %q", ErrUnsupportedScheme, driverName)
	}
}

// SQLStore keeps the clock state in a row of TableName.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	name    string
}

// NewSQLStore returns a store for the row called name. The table is not
// created; call EnsureSchema first on a fresh database.
func NewSQLStore(db *sql.DB, dialect Dialect, name string) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, name: name}
}

// bind returns the n-th (1-based) placeholder.
func (s *SQLStore) bind(n int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) binds(count int) string {
	out := make([]string, count)
	for i := range out {
		out[i] = s.bind(i + 1)
	}
	return strings.Join(out, ", ")
}

// EnsureSchema creates TableName if it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+TableName+` (
		name VARCHAR(64) NOT NULL PRIMARY KEY,
		last_timestamp BIGINT NOT NULL,
		tick INTEGER NOT NULL,
		clock_seq INTEGER NOT NULL,
		node_id BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("statestore: create %s: %w", TableName, err)
	}
	return nil
}

// Load reads the row for the store's name.
func (s *SQLStore) Load(ctx context.Context) (uuid.ClockState, error) {
	var (
		st       uuid.ClockState
		sequence int64
		node     int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT last_timestamp, tick, clock_seq, node_id FROM "+TableName+" WHERE name = "+s.bind(1),
		s.name).Scan(&st.Timestamp, &st.Tick, &sequence, &node)
	if errors.Is(err, sql.ErrNoRows) {
		return st, ErrNotFound
	}
	if err != nil {
		return st, fmt.Errorf("statestore: load %q: %w", s.name, err)
	}
	if sequence < 0 || sequence > 0xffff || node < 0 {
		return st, fmt.Errorf("%w: row %q", ErrCorruptState, s.name)
	}
	st.Sequence = uint16(sequence)
	st.Node = uint64(node)
	return st, nil
}

// Save upserts the row for the store's name.
func (s *SQLStore) Save(ctx context.Context, st uuid.ClockState) error {
	cols := "name, last_timestamp, tick, clock_seq, node_id, updated_at"
	query := "INSERT INTO " + TableName + " (" + cols + ") VALUES (" + s.binds(6) + ")"
	if s.dialect == DialectMySQL {
		query += ` ON DUPLICATE KEY UPDATE last_timestamp = VALUES(last_timestamp), tick = VALUES(tick),
			clock_seq = VALUES(clock_seq), node_id = VALUES(node_id), updated_at = VALUES(updated_at)`
	} else {
		query += ` ON CONFLICT (name) DO UPDATE SET last_timestamp = excluded.last_timestamp, tick = excluded.tick,
			clock_seq = excluded.clock_seq, node_id = excluded.node_id, updated_at = excluded.updated_at`
	}

	_, err := s.db.ExecContext(ctx, query,
		s.name, st.Timestamp, st.Tick, int64(st.Sequence), int64(st.Node), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("statestore: save %q: %w", s.name, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// tune applies the pool settings used for every SQL backend.
func tune(db *sql.DB) {
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
}

func openSQLStore(ctx context.Context, db *sql.DB, dialect Dialect, name string) (*SQLStore, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("statestore: connect: %w", err)
	}
	store := NewSQLStore(db, dialect, name)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func openMySQL(ctx context.Context, dsn, name string) (*SQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("statestore: mysql dsn: %w", err)
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("statestore: mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	tune(db)
	return openSQLStore(ctx, db, DialectMySQL, name)
}

func openPostgres(ctx context.Context, connString, name string) (*SQLStore, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("statestore: postgres url: %w", err)
	}
	db := stdlib.OpenDB(*cfg)
	tune(db)
	return openSQLStore(ctx, db, DialectPostgres, name)
}

func openSQLite(ctx context.Context, path, name string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("statestore: sqlite: %w", err)
	}
	// a single writer avoids "database is locked" on concurrent saves
	db.SetMaxOpenConns(1)
	return openSQLStore(ctx, db, DialectSQLite, name)
}
