package repository

import (
	"database/sql"
	"fmt"
)

// InitMigration initializes the database. In production, this would use a proper migration
// library like go-migrate
func InitMigration(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS tracked_wallets (
			id SERIAL PRIMARY KEY,
			wallet_address VARCHAR(42) NOT NULL,
			chain_id INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE(wallet_address, chain_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tracked_wallets_wallet ON tracked_wallets (wallet_address)`,
		`CREATE TABLE IF NOT EXISTS request_snapshots (
			wallet_address VARCHAR(42) NOT NULL,
			request_id BIGINT NOT NULL,
			status VARCHAR(20) NOT NULL,
			share_amount DECIMAL(78,18) NOT NULL,
			base_amount DECIMAL(78,18) NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			PRIMARY KEY (wallet_address, request_id)
		)`,
		`CREATE TABLE IF NOT EXISTS event_outbox (
			event_id UUID PRIMARY KEY,
			event_type VARCHAR(30) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'unsent',
			wallet_address VARCHAR(42) NOT NULL,
			request_id BIGINT NOT NULL,
			request_status VARCHAR(20) NOT NULL,
			share_amount DECIMAL(78,18) NOT NULL,
			base_amount DECIMAL(78,18) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_event_outbox_status ON event_outbox (status, created_at)`,
		`CREATE TABLE IF NOT EXISTS target_preferences (
			wallet_address VARCHAR(42) PRIMARY KEY,
			target_address VARCHAR(42) NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}
