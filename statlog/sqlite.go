package statlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goStats/stat"
	"github.com/joeycumines/go-microbatch"
	"github.com/joeycumines/logiface"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DefaultSQLitePath          = "gostats.db"
	DefaultSQLiteBatchSize     = 256
	DefaultSQLiteFlushInterval = 500 * time.Millisecond
	DefaultSQLiteCloseTimeout  = 5 * time.Second
)

// SQLiteConfig configures the sqlite sink.
type SQLiteConfig struct {
	Path          string        `toml:"path"`
	BatchSize     int           `toml:"batch_size"`
	FlushInterval time.Duration `toml:"flush_interval"`
	CloseTimeout  time.Duration `toml:"close_timeout"`
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS stats (
	ts         INTEGER NOT NULL,
	instance   TEXT    NOT NULL,
	uid        INTEGER NOT NULL,
	tracker    TEXT    NOT NULL,
	stat       TEXT    NOT NULL,
	type       TEXT    NOT NULL,
	long_val   INTEGER,
	double_val REAL,
	object_val TEXT
);
CREATE INDEX IF NOT EXISTS stats_tracker_ts ON stats (tracker, ts);
`

const sqliteInsert = `INSERT INTO stats
	(ts, instance, uid, tracker, stat, type, long_val, double_val, object_val)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

type sqliteRow struct {
	ts      int64
	uid     int
	tracker string
	stat    string
	typ     string
	long    sql.NullInt64
	double  sql.NullFloat64
	object  sql.NullString
}

// SQLite appends one row per statistic to a "stats" table. Rows are written
// asynchronously in batches; Close flushes pending rows.
type SQLite struct {
	db       *sql.DB
	batcher  *microbatch.Batcher[*sqliteRow]
	instance string
	log      *logiface.Logger[logiface.Event]
	timeout  time.Duration
}

// OpenSQLite opens (creating if needed) the database at cfg.Path.
func OpenSQLite(cfg SQLiteConfig, instance string, log *logiface.Logger[logiface.Event]) (*SQLite, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultSQLitePath
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultSQLiteBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultSQLiteFlushInterval
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = DefaultSQLiteCloseTimeout
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLite{db: db, instance: instance, log: log, timeout: cfg.CloseTimeout}
	s.batcher = microbatch.NewBatcher(&microbatch.BatcherConfig{
		MaxSize:       cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
	}, s.insert)
	return s, nil
}

// DB exposes the underlying handle for queries.
func (s *SQLite) DB() *sql.DB { return s.db }

func (s *SQLite) Log(id stat.ID, tracker stat.Tracker, scheduled time.Time) error {
	ts := scheduled.UnixMilli()
	for _, v := range tracker.Snapshot() {
		row := &sqliteRow{
			ts:      ts,
			uid:     id.UID(),
			tracker: id.Display(),
			stat:    v.Name,
			typ:     v.Type.String(),
		}
		if !v.Null {
			switch v.Type {
			case stat.TypeLong:
				row.long = sql.NullInt64{Int64: v.Long, Valid: true}
			case stat.TypeDouble:
				row.double = sql.NullFloat64{Float64: v.Double, Valid: true}
			default:
				row.object = sql.NullString{String: v.Text(), Valid: true}
			}
		}
		if _, err := s.batcher.Submit(context.Background(), row); err != nil {
			return fmt.Errorf("sqlite submit %s: %w", id.Display(), err)
		}
	}
	return nil
}

func (s *SQLite) insert(ctx context.Context, rows []*sqliteRow) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.failed(len(rows), err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, sqliteInsert)
	if err != nil {
		return s.failed(len(rows), err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err = stmt.ExecContext(ctx, r.ts, s.instance, r.uid, r.tracker, r.stat, r.typ, r.long, r.double, r.object); err != nil {
			return s.failed(len(rows), err)
		}
	}
	if err = tx.Commit(); err != nil {
		return s.failed(len(rows), err)
	}
	return nil
}

func (s *SQLite) failed(rows int, err error) error {
	s.log.Err().Err(err).Int("rows", rows).Limit().Log("sqlite batch insert failed")
	return err
}

// Close flushes pending rows, bounded by CloseTimeout, then closes the
// database.
func (s *SQLite) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	shutdownErr := s.batcher.Shutdown(ctx)
	return errors.Join(shutdownErr, s.db.Close())
}
