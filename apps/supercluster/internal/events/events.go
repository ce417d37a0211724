package events

import (
	"time"
)

// Lifecycle event types published when a withdrawal request changes state.
const (
	TypeWithdrawalRequested  = "withdrawal_requested"
	TypeWithdrawalFinalizing = "withdrawal_finalizing"
	TypeWithdrawalReady      = "withdrawal_ready"
	TypeWithdrawalClaimed    = "withdrawal_claimed"
)

type LifecycleEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	WalletAddress string    `json:"wallet_address"`
	RequestID     uint64    `json:"request_id"`
	RequestStatus string    `json:"request_status"`
	ShareAmount   string    `json:"share_amount"`
	BaseAmount    string    `json:"base_amount"`
	Timestamp     time.Time `json:"timestamp"`
}
