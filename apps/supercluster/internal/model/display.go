package model

// DisplayRequest is the presentation view of a WithdrawalRequest at a given
// point in time. It is recomputed wholesale on every derivation pass and
// never persisted or mutated in place.
type DisplayRequest struct {
	ID                uint64 `json:"id"`
	Owner             string `json:"owner"`
	Status            Status `json:"status"`
	ShareAmount       string `json:"share_amount"`
	BaseAmount        string `json:"base_amount"`
	RequestedAtMillis int64  `json:"requested_at_millis"`
	AvailableAtMillis int64  `json:"available_at_millis"`
	SecondsToUnlock   uint64 `json:"seconds_to_unlock"`
	Progress          int    `json:"progress"`
	Claimable         bool   `json:"claimable"`
}

// WithdrawalSummary aggregates the derived requests of a single wallet.
type WithdrawalSummary struct {
	Requests             []DisplayRequest `json:"requests"`
	ReadyToClaimCount    int              `json:"ready_to_claim_count"`
	PendingRequestsCount int              `json:"pending_requests_count"`
	ClaimedCount         int              `json:"claimed_count"`
	TotalClaimableAmount string           `json:"total_claimable_amount"`
	TotalPendingAmount   string           `json:"total_pending_amount"`
}
