package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/fungible"
	"github.com/xraph/fungible/journal"
	fungiblestore "github.com/xraph/fungible/store"
	"github.com/xraph/fungible/token"
)

// compile-time interface check
var _ fungiblestore.Store = (*Store)(nil)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("fungible/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("fungible/postgres: migration failed: %w", err)
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
	_, err := s.pg.NewInsert(toTokenModel(t)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("fungible/postgres: create token: %w", mapError(err))
	}
	return nil
}

func (s *Store) GetToken(ctx context.Context) (*token.Token, error) {
	m := new(tokenModel)
	err := s.pg.NewSelect(m).
		Where("slot = $1", tokenSlot).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, fungible.ErrTokenNotFound
		}
		return nil, fmt.Errorf("fungible/postgres: get token: %w", err)
	}
	return fromTokenModel(m)
}

// ==================== Journal Store ====================

func (s *Store) AppendEntry(ctx context.Context, e *journal.Entry) error {
	_, err := s.pg.NewInsert(toEntryModel(e)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("fungible/postgres: append entry %d: %w", e.Seq, mapError(err))
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, opts journal.ListOpts) ([]*journal.Entry, error) {
	var models []entryModel
	q := s.pg.NewSelect(&models).
		Where("seq > $1", int64(opts.AfterSeq)). //nolint:gosec // sequence numbers stay far below 2^63
		OrderExpr("seq ASC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("fungible/postgres: list entries: %w", err)
	}

	result := make([]*journal.Entry, 0, len(models))
	for i := range models {
		e, err := fromEntryModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("fungible/postgres: decode entry: %w", err)
		}
		result = append(result, e)
	}
	return result, nil
}

func (s *Store) LastSequence(ctx context.Context) (uint64, error) {
	var seq int64
	err := s.pg.NewRaw(`SELECT COALESCE(MAX(seq), 0) FROM fungible_journal`).Scan(ctx, &seq)
	if err != nil {
		return 0, fmt.Errorf("fungible/postgres: last sequence: %w", err)
	}
	return uint64(seq), nil //nolint:gosec // seq is CHECKed positive
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// mapError turns a unique violation into fungible.ErrDuplicateEntry.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", fungible.ErrDuplicateEntry, pgErr.ConstraintName)
	}
	return err
}
