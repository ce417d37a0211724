package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/model"
)

type WalletRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewWalletRepository(db *sql.DB, logger *zap.Logger) *WalletRepository {
	return &WalletRepository{db: db, logger: logger}
}

func (r *WalletRepository) TrackWallet(walletAddress string, chainID int64) error {
	_, err := r.db.Exec(`
		INSERT INTO tracked_wallets (wallet_address, chain_id)
		VALUES ($1, $2)
		ON CONFLICT (wallet_address, chain_id) DO NOTHING
	`, walletAddress, chainID)

	if err != nil {
		return fmt.Errorf("failed to track wallet: %w", err)
	}

	r.logger.Info("Tracking wallet",
		zap.String("wallet_address", walletAddress),
		zap.Int64("chain_id", chainID))
	return nil
}

func (r *WalletRepository) GetAllTrackedWallets() ([]model.TrackedWallet, error) {
	rows, err := r.db.Query(`
		SELECT id, wallet_address, chain_id, created_at
		FROM tracked_wallets
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked wallets: %w", err)
	}
	defer rows.Close()

	var wallets []model.TrackedWallet
	for rows.Next() {
		var wallet model.TrackedWallet
		if err := rows.Scan(&wallet.ID, &wallet.WalletAddress, &wallet.ChainID, &wallet.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tracked wallet: %w", err)
		}
		wallets = append(wallets, wallet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracked wallets: %w", err)
	}

	return wallets, nil
}

func (r *WalletRepository) IsWalletTracked(walletAddress string, chainID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM tracked_wallets WHERE wallet_address = $1 AND chain_id = $2)
	`, walletAddress, chainID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("failed to check if wallet is tracked: %w", err)
	}

	return exists, nil
}
