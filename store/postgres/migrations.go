package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the fungible store.
var Migrations = migrate.NewGroup("fungible")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_fungible_token",
			Version: "20260101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS fungible_token (
    slot           SMALLINT PRIMARY KEY CHECK (slot = 1),
    id             TEXT NOT NULL UNIQUE,
    name           TEXT NOT NULL,
    symbol         TEXT NOT NULL,
    decimals       SMALLINT NOT NULL CHECK (decimals BETWEEN 0 AND 255),
    total_supply   TEXT NOT NULL CHECK (total_supply ~ '^[0-9]+$'),
    initial_holder TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS fungible_token`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_fungible_journal",
			Version: "20260101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS fungible_journal (
    seq         BIGINT PRIMARY KEY CHECK (seq > 0),
    id          TEXT NOT NULL UNIQUE,
    kind        TEXT NOT NULL,
    caller      TEXT NOT NULL,
    owner       TEXT NOT NULL DEFAULT '',
    spender     TEXT NOT NULL DEFAULT '',
    recipient   TEXT NOT NULL DEFAULT '',
    amount      TEXT NOT NULL CHECK (amount ~ '^[0-9]+$'),
    recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_fungible_journal_caller ON fungible_journal (caller);
CREATE INDEX IF NOT EXISTS idx_fungible_journal_kind ON fungible_journal (kind, seq);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS fungible_journal`)
				return err
			},
		},
	)
}
