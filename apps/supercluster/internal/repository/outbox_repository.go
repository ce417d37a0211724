package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/model"
)

type OutboxRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewOutboxRepository(db *sql.DB, logger *zap.Logger) *OutboxRepository {
	return &OutboxRepository{db: db, logger: logger}
}

func (r *OutboxRepository) StoreEvent(event model.OutboxEvent) error {
	_, err := r.db.Exec(`
		INSERT INTO event_outbox (event_id, event_type, status, wallet_address, request_id, request_status, share_amount, base_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, event.EventID, event.EventType, event.Status, event.WalletAddress, event.RequestID, event.RequestStatus, event.ShareAmount, event.BaseAmount)

	if err != nil {
		return fmt.Errorf("failed to store outbox event: %w", err)
	}

	r.logger.Info("Stored lifecycle event",
		zap.String("event_type", event.EventType),
		zap.String("wallet_address", event.WalletAddress),
		zap.Uint64("request_id", event.RequestID))
	return nil
}

// GetUnsentEventsForProcessing selects a batch of unsent events and marks
// them processing within one transaction, so concurrent publishers never
// pick up the same rows.
func (r *OutboxRepository) GetUnsentEventsForProcessing(limit int) ([]model.OutboxEvent, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() // Will be ignored if tx.Commit() succeeds

	rows, err := tx.Query(`
		SELECT event_id, event_type, status, wallet_address, request_id, request_status, share_amount, base_amount, created_at
		FROM event_outbox
		WHERE status = 'unsent'
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.OutboxEvent
	for rows.Next() {
		var event model.OutboxEvent
		if err := rows.Scan(&event.EventID, &event.EventType, &event.Status, &event.WalletAddress,
			&event.RequestID, &event.RequestStatus, &event.ShareAmount, &event.BaseAmount, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	rows.Close()

	for _, event := range events {
		_, err = tx.Exec(`
			UPDATE event_outbox
			SET status = 'processing'
			WHERE event_id = $1 AND status = 'unsent'
		`, event.EventID)
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *OutboxRepository) MarkEventAsSent(eventID string) error {
	_, err := r.db.Exec(`
		UPDATE event_outbox
		SET status = 'sent'
		WHERE event_id = $1
	`, eventID)
	return err
}

func (r *OutboxRepository) MarkEventAsFailed(eventID string) error {
	_, err := r.db.Exec(`
		UPDATE event_outbox
		SET status = 'unsent'
		WHERE event_id = $1 AND status = 'processing'
	`, eventID)
	return err
}
