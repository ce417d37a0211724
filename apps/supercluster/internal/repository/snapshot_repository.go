package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/model"
)

// SnapshotRepository stores the last observed status of each request so the
// poller can detect lifecycle transitions between refresh passes. The chain
// remains the source of truth; snapshots are a diffing aid, never served
// back to clients.
type SnapshotRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSnapshotRepository(db *sql.DB, logger *zap.Logger) *SnapshotRepository {
	return &SnapshotRepository{db: db, logger: logger}
}

func (r *SnapshotRepository) UpsertSnapshot(snapshot model.RequestSnapshot) error {
	_, err := r.db.Exec(`
		INSERT INTO request_snapshots (wallet_address, request_id, status, share_amount, base_amount, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (wallet_address, request_id) DO UPDATE SET
			status = EXCLUDED.status,
			share_amount = EXCLUDED.share_amount,
			base_amount = EXCLUDED.base_amount,
			updated_at = NOW()
	`, snapshot.WalletAddress, snapshot.RequestID, snapshot.Status, snapshot.ShareAmount, snapshot.BaseAmount)

	if err != nil {
		return fmt.Errorf("failed to upsert request snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) GetSnapshotsByWallet(walletAddress string) (map[uint64]model.RequestSnapshot, error) {
	rows, err := r.db.Query(`
		SELECT wallet_address, request_id, status, share_amount, base_amount, updated_at
		FROM request_snapshots
		WHERE wallet_address = $1
	`, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get request snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make(map[uint64]model.RequestSnapshot)
	for rows.Next() {
		var snapshot model.RequestSnapshot
		if err := rows.Scan(&snapshot.WalletAddress, &snapshot.RequestID, &snapshot.Status,
			&snapshot.ShareAmount, &snapshot.BaseAmount, &snapshot.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request snapshot: %w", err)
		}
		snapshots[snapshot.RequestID] = snapshot
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating request snapshots: %w", err)
	}

	return snapshots, nil
}
