package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Status is the derived lifecycle state of a withdrawal request.
// A request only moves forward: pending -> finalizing -> ready -> claimed.
type Status string

const (
	StatusPending    Status = "pending"
	StatusFinalizing Status = "finalizing"
	StatusReady      Status = "ready"
	StatusClaimed    Status = "claimed"
)

// WithdrawalRequest mirrors the on-chain request record. The chain owns this
// data; the service only ever holds a read projection of it. RequestedAt and
// AvailableAt are unix seconds. AvailableAt is meaningless until Finalized
// is set by the operator.
type WithdrawalRequest struct {
	ID          uint64
	Owner       common.Address
	ShareAmount *big.Int
	BaseAmount  *big.Int
	RequestedAt uint64
	AvailableAt uint64
	Finalized   bool
	Claimed     bool
}
