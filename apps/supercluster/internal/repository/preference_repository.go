package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// PreferenceRepository persists the last-selected allocation target per
// wallet, a single value with no on-chain counterpart.
type PreferenceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPreferenceRepository(db *sql.DB, logger *zap.Logger) *PreferenceRepository {
	return &PreferenceRepository{db: db, logger: logger}
}

// GetTarget returns the stored target address for the wallet, or "" when the
// wallet has never selected one.
func (r *PreferenceRepository) GetTarget(walletAddress string) (string, error) {
	var target string
	err := r.db.QueryRow(`
		SELECT target_address FROM target_preferences WHERE wallet_address = $1
	`, walletAddress).Scan(&target)

	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get target preference: %w", err)
	}

	return target, nil
}

func (r *PreferenceRepository) SetTarget(walletAddress, targetAddress string) error {
	_, err := r.db.Exec(`
		INSERT INTO target_preferences (wallet_address, target_address, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (wallet_address) DO UPDATE SET
			target_address = EXCLUDED.target_address,
			updated_at = NOW()
	`, walletAddress, targetAddress)

	if err != nil {
		return fmt.Errorf("failed to set target preference: %w", err)
	}

	r.logger.Info("Stored target preference",
		zap.String("wallet_address", walletAddress),
		zap.String("target_address", targetAddress))
	return nil
}
