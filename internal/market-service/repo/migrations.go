package repo

import (
	"context"
	"database/sql"
	"fmt"
)

// schema criado automaticamente no start do serviço (sem versionamento)
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS events (
		request_id  TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		due_date    BIGINT NOT NULL,
		predict     JSONB,
		contracts   JSONB,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bets (
		id               BIGSERIAL PRIMARY KEY,
		event_request_id TEXT NOT NULL REFERENCES events(request_id),
		wallet_address   TEXT NOT NULL,
		prediction       TEXT NOT NULL CHECK (prediction IN ('YES','NO')),
		tokens           DOUBLE PRECISION NOT NULL CHECK (tokens > 0),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bets_event_request_id ON bets (event_request_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bets_wallet_address ON bets (wallet_address)`,
}

// EnsureSchema cria as tabelas e índices caso ainda não existam
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
