package api

// SubmitWithdrawalRequest is the request body for creating a withdrawal
// request. TargetAddress is optional; the wallet's stored preference (or the
// protocol default) is used when absent.
type SubmitWithdrawalRequest struct {
	Amount        string `json:"amount"`
	WalletAddress string `json:"wallet_address"`
	TargetAddress string `json:"target_address,omitempty"`
}

// SubmitWithdrawalResponse reports the id of the newly created request.
// RequestID is null when the receipt carried no matching event; the request
// still exists and appears on the next list fetch.
type SubmitWithdrawalResponse struct {
	RequestID *uint64 `json:"request_id"`
}

// ClaimResponse acknowledges a successful claim
type ClaimResponse struct {
	RequestID uint64 `json:"request_id"`
	Status    string `json:"status"`
}

// BalanceResponse represents the API response for receipt-token balance
type BalanceResponse struct {
	WalletAddress string `json:"wallet_address"`
	Balance       string `json:"balance"`
	Symbol        string `json:"symbol"`
	Decimals      int    `json:"decimals"`
}

// PreferenceResponse represents the stored allocation target of a wallet
type PreferenceResponse struct {
	WalletAddress string `json:"wallet_address"`
	TargetAddress string `json:"target_address"`
}

// SetPreferenceRequest is the request body for selecting an allocation target
type SetPreferenceRequest struct {
	TargetAddress string `json:"target_address"`
}

// TokenInfo describes one protocol token
type TokenInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
}

// InfoResponse represents the API response for protocol information
type InfoResponse struct {
	ProtocolName    string      `json:"protocol_name"`
	APY             string      `json:"apy"`
	UnstakingPeriod string      `json:"unstaking_period"`
	Tokens          []TokenInfo `json:"tokens"`
}

// ErrorResponse represents the API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
