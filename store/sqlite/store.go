package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/xraph/fungible"
	"github.com/xraph/fungible/journal"
	fungiblestore "github.com/xraph/fungible/store"
	"github.com/xraph/fungible/token"
)

// compile-time interface check
var _ fungiblestore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("fungible/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("fungible/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Token Store ====================

func (s *Store) CreateToken(ctx context.Context, t *token.Token) error {
	_, err := s.sdb.NewInsert(toTokenModel(t)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("fungible/sqlite: create token: %w", mapError(err))
	}
	return nil
}

func (s *Store) GetToken(ctx context.Context) (*token.Token, error) {
	m := new(tokenModel)
	err := s.sdb.NewSelect(m).
		Where("slot = ?", tokenSlot).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fungible.ErrTokenNotFound
		}
		return nil, fmt.Errorf("fungible/sqlite: get token: %w", err)
	}
	return fromTokenModel(m)
}

// ==================== Journal Store ====================

func (s *Store) AppendEntry(ctx context.Context, e *journal.Entry) error {
	_, err := s.sdb.NewInsert(toEntryModel(e)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("fungible/sqlite: append entry %d: %w", e.Seq, mapError(err))
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, opts journal.ListOpts) ([]*journal.Entry, error) {
	var models []entryModel
	q := s.sdb.NewSelect(&models).
		Where("seq > ?", int64(opts.AfterSeq)). //nolint:gosec // sequence numbers stay far below 2^63
		OrderExpr("seq ASC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("fungible/sqlite: list entries: %w", err)
	}

	result := make([]*journal.Entry, 0, len(models))
	for i := range models {
		e, err := fromEntryModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("fungible/sqlite: decode entry: %w", err)
		}
		result = append(result, e)
	}
	return result, nil
}

func (s *Store) LastSequence(ctx context.Context) (uint64, error) {
	var seq int64
	err := s.sdb.NewRaw(`SELECT COALESCE(MAX(seq), 0) FROM fungible_journal`).Scan(ctx, &seq)
	if err != nil {
		return 0, fmt.Errorf("fungible/sqlite: last sequence: %w", err)
	}
	return uint64(seq), nil //nolint:gosec // seq is CHECKed positive
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// mapError turns a primary key or unique violation into
// fungible.ErrDuplicateEntry.
func mapError(err error) error {
	var sqlErr *moderncsqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %s", fungible.ErrDuplicateEntry, sqlErr.Error())
		}
	}
	// Drivers that do not expose extended result codes.
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", fungible.ErrDuplicateEntry, err.Error())
	}
	return err
}
