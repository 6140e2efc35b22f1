package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const memory = ":memory:"

// SQLite stores every batch as a row of the batch table, in a transaction of its own.
type SQLite struct {
	runID string
	db    *sql.DB
}

// NewSQLite opens the database at dsn and creates the batch table if needed.
// The special dsn ":memory:" opens a private in-memory database.
func NewSQLite(dsn, runID string) (*SQLite, error) {
	db, err := open(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}

	if err := setup(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "setup")
	}

	return &SQLite{runID: runID, db: db}, nil
}

func open(dsn string) (*sql.DB, error) {
	path, rawQuery, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Add("_txlock", "immediate")
	params.Add("_timeout", "5000") // 5s
	if path == memory {
		path = uuid.NewString()
		params.Add("mode", "memory")
		params.Add("cache", "shared")
	} else {
		params.Add("_journal", "wal")
		params.Add("_sync", "normal")
	}
	for k, v := range query {
		if len(v) != 0 {
			params.Set(k, v[0])
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	// batches are written sequentially
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)

	return db, nil
}

func setup(db *sql.DB) error {
	if _, err := db.Exec(
		`
		create table if not exists batch (
			id         text primary key,
			run_id     text not null,
			size       int not null,
			payload    blob not null,
			created_at int not null
		) strict
		`,
	); err != nil {
		return errors.Wrap(err, "create table")
	}

	if _, err := db.Exec(
		`
		create index if not exists idx_batch_run
		on batch (run_id, created_at)
		`,
	); err != nil {
		return errors.Wrap(err, "create index")
	}

	return nil
}

func (s *SQLite) Write(ctx context.Context, batch []string) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return errors.Wrap(err, "encode batch")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`
		insert into batch (
			id,
			run_id,
			size,
			payload,
			created_at
		) values (
			:id,
			:run_id,
			:size,
			:payload,
			:created_at
		)
		`,
		sql.Named("id", uuid.NewString()),
		sql.Named("run_id", s.runID),
		sql.Named("size", len(batch)),
		sql.Named("payload", payload),
		sql.Named("created_at", time.Now().UnixMicro()),
	)
	if err != nil {
		return errors.Wrap(err, "insert batch")
	}

	return errors.Wrap(tx.Commit(), "commit")
}

// Stats returns the number of batches and lines stored by the run.
func (s *SQLite) Stats(ctx context.Context, runID string) (batches, lines int, err error) {
	err = s.db.QueryRowContext(ctx,
		`select count(*), coalesce(sum(size), 0) from batch where run_id = :run_id`,
		sql.Named("run_id", runID),
	).Scan(&batches, &lines)
	return batches, lines, errors.Wrap(err, "query stats")
}

// Batches returns the payloads stored by the run, oldest first.
func (s *SQLite) Batches(ctx context.Context, runID string) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`select payload from batch where run_id = :run_id order by created_at asc, rowid asc`,
		sql.Named("run_id", runID),
	)
	if err != nil {
		return nil, errors.Wrap(err, "query batches")
	}
	defer rows.Close()

	var res [][]string
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, "scan batch")
		}
		var batch []string
		if err := json.Unmarshal(payload, &batch); err != nil {
			return nil, errors.Wrap(err, "decode batch")
		}
		res = append(res, batch)
	}

	return res, errors.Wrap(rows.Err(), "iterate batches")
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
