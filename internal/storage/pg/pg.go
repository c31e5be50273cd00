// Package pg implements the durable store on PostgreSQL.
//
// All methods return errors from the internal/errors taxonomy: expected
// outcomes (missing rows, uniqueness violations) map to their specific
// status, anything unexpected is logged here and surfaced as Unavailable
// so callers can treat a failed persist as retryable.
package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/murmur-dev/murmur/internal/config"
	"github.com/murmur-dev/murmur/internal/domain"
	internal_errors "github.com/murmur-dev/murmur/internal/errors"
	"github.com/murmur-dev/murmur/internal/logger"

	_ "github.com/lib/pq" // registers the postgres driver
)

type Storage struct {
	db  *sql.DB
	cfg *config.Config
}

func New(cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to db", "component", "storage")
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db", "component", "storage")
	return &Storage{db, cfg}, nil
}

func Connect(cfg *config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Private.Pg.Host, cfg.Private.Pg.Port, cfg.Private.Pg.User, cfg.Private.Pg.Password, cfg.Private.Pg.Dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// Ping backs the readiness probe.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Querier is satisfied by both *sql.DB and *sql.Tx, so query logic can run
// inside or outside a transaction.
type Querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

func (s *Storage) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback() // no-op if the tx has been committed

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// storageErr logs the underlying cause and returns a retryable Unavailable.
// Callers that expect a specific failure (no rows, unique violation) must
// translate it before reaching this fallback.
func storageErr(op string, err error) error {
	logger.Log.Error("storage operation failed",
		"component", "storage",
		"op", op,
		"error", err)
	return internal_errors.Unavailable("storage unavailable")
}

// scanReactions decodes a json_object_agg(emoji, count) column. A SQL NULL
// (no reactions) arrives as an empty slice and yields a nil map.
func scanReactions(raw []byte) (domain.ReactionCounts, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var counts domain.ReactionCounts
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, nil
	}
	return counts, nil
}
