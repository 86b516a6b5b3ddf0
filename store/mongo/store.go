package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/fungible"
	"github.com/xraph/fungible/journal"
	fungiblestore "github.com/xraph/fungible/store"
	"github.com/xraph/fungible/token"
)

// Collection name constants.
const (
	colToken   = "fungible_token"
	colJournal = "fungible_journal"
)

// compile-time interface check
var _ fungiblestore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM. Journal
// documents use the sequence number as _id, so MongoDB itself rejects a
// second entry for the same sequence.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all fungible collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("fungible/mongo: migrate %s indexes: %w", col, err)
		}
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
	_, err := s.mdb.NewInsert(toTokenModel(t)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("fungible/mongo: create token: %w", mapError(err))
	}
	return nil
}

func (s *Store) GetToken(ctx context.Context) (*token.Token, error) {
	var m tokenModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": tokenDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fungible.ErrTokenNotFound
		}
		return nil, fmt.Errorf("fungible/mongo: get token: %w", err)
	}
	return fromTokenModel(&m)
}

// ==================== Journal Store ====================

func (s *Store) AppendEntry(ctx context.Context, e *journal.Entry) error {
	_, err := s.mdb.NewInsert(toEntryModel(e)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("fungible/mongo: append entry %d: %w", e.Seq, mapError(err))
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, opts journal.ListOpts) ([]*journal.Entry, error) {
	var models []entryModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{"_id": bson.M{"$gt": int64(opts.AfterSeq)}}). //nolint:gosec // sequence numbers stay far below 2^63
		Sort(bson.D{{Key: "_id", Value: 1}})
	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("fungible/mongo: list entries: %w", err)
	}

	result := make([]*journal.Entry, 0, len(models))
	for i := range models {
		e, err := fromEntryModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("fungible/mongo: decode entry: %w", err)
		}
		result = append(result, e)
	}
	return result, nil
}

func (s *Store) LastSequence(ctx context.Context) (uint64, error) {
	var models []entryModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: -1}}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("fungible/mongo: last sequence: %w", err)
	}
	if len(models) == 0 {
		return 0, nil
	}
	return uint64(models[0].Seq), nil //nolint:gosec // _id is never negative
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// mapError turns a duplicate key write error into fungible.ErrDuplicateEntry.
func mapError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", fungible.ErrDuplicateEntry, err)
	}
	return err
}

// migrationIndexes returns the index definitions for the fungible collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colToken: {
			{
				Keys:    bson.D{{Key: "id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colJournal: {
			{
				Keys:    bson.D{{Key: "id", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
			{Keys: bson.D{{Key: "caller", Value: 1}, {Key: "_id", Value: 1}}},
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "_id", Value: 1}}},
		},
	}
}
