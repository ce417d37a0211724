package model

import (
	"time"
)

// OutboxEvent is a lifecycle transition waiting to be published to Kafka.
type OutboxEvent struct {
	EventID       string    `db:"event_id"`
	EventType     string    `db:"event_type"`
	Status        string    `db:"status"`
	WalletAddress string    `db:"wallet_address"`
	RequestID     uint64    `db:"request_id"`
	RequestStatus string    `db:"request_status"`
	ShareAmount   string    `db:"share_amount"`
	BaseAmount    string    `db:"base_amount"`
	CreatedAt     time.Time `db:"created_at"`
}

// RequestSnapshot is the last status the poller observed for a request,
// used to detect lifecycle transitions between refresh passes.
type RequestSnapshot struct {
	WalletAddress string    `db:"wallet_address"`
	RequestID     uint64    `db:"request_id"`
	Status        Status    `db:"status"`
	ShareAmount   string    `db:"share_amount"`
	BaseAmount    string    `db:"base_amount"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// TrackedWallet is a wallet whose withdrawal queue the poller refreshes.
type TrackedWallet struct {
	ID            int       `db:"id"`
	WalletAddress string    `db:"wallet_address"`
	ChainID       int64     `db:"chain_id"`
	CreatedAt     time.Time `db:"created_at"`
}
