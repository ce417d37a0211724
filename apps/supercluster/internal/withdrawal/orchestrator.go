package withdrawal

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/amount"
	"supercluster/apps/supercluster/internal/assets"
)

// LedgerWriter is the state-changing ledger surface the orchestrator depends
// on. SubmitWithdrawalRequest returns the new request id recovered from the
// mined receipt's events; known is false when no matching event was found,
// which is not a failure (the request will appear on the next list fetch).
type LedgerWriter interface {
	SubmitWithdrawalRequest(ctx context.Context, account, target, token common.Address, shareAmount *big.Int) (requestID uint64, known bool, err error)
	SubmitClaim(ctx context.Context, requestID uint64) error
}

// Orchestrator issues the two state-changing operations against the ledger
// and tracks in-flight and error state. The submitting flag is advisory:
// callers are responsible for refusing concurrent submissions; the ledger is
// the final arbiter either way.
type Orchestrator struct {
	reader LedgerReader
	writer LedgerWriter
	logger *zap.Logger

	mu         sync.Mutex
	submitting bool
	claiming   map[uint64]bool
	requestErr *ClassifiedError
	claimErr   *ClassifiedError
}

func NewOrchestrator(reader LedgerReader, writer LedgerWriter, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		reader:   reader,
		writer:   writer,
		logger:   logger,
		claiming: make(map[uint64]bool),
	}
}

// SubmitWithdrawal validates the typed amount against the account's current
// receipt-token balance and sends the withdrawal-creation transaction. The
// balance check may race with other transfers; the ledger rejects on chain
// if it was stale. Returns the new request id when the receipt carried the
// matching event, otherwise known is false.
func (o *Orchestrator) SubmitWithdrawal(ctx context.Context, account common.Address, rawAmount string, target common.Address) (requestID uint64, known bool, err error) {
	if account == (common.Address{}) {
		return 0, false, newValidationError("wallet is not connected")
	}

	susdc, _ := assets.GlobalRegistry.GetBySymbol("sUSDC")
	value, parseErr := amount.Parse(rawAmount, susdc.Decimals, amount.MaxInputDecimals)
	if parseErr != nil {
		return 0, false, newValidationError(parseErr.Error())
	}
	if value.Sign() <= 0 {
		return 0, false, newValidationError("amount must be greater than zero")
	}

	balance, balErr := o.reader.ReceiptBalanceOf(ctx, account)
	if balErr != nil {
		classified := ClassifyError(balErr)
		o.recordRequestError(classified)
		return 0, false, classified
	}
	if value.Cmp(balance) > 0 {
		return 0, false, newValidationError("amount exceeds available balance")
	}

	if target == (common.Address{}) {
		target = common.HexToAddress(assets.DefaultTargetAddress)
	}

	o.mu.Lock()
	o.submitting = true
	o.requestErr = nil
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.submitting = false
		o.mu.Unlock()
	}()

	requestID, known, submitErr := o.writer.SubmitWithdrawalRequest(ctx, account, target, assets.USDCAddress, value)
	if submitErr != nil {
		classified := ClassifyError(submitErr)
		if classified.Kind == KindUserCancelled {
			// Dismissed signature prompt: not a failure, keep no error state.
			o.logger.Info("Withdrawal submission cancelled by user",
				zap.String("account", account.Hex()))
			return 0, false, classified
		}
		o.recordRequestError(classified)
		o.logger.Error("Withdrawal submission failed",
			zap.String("account", account.Hex()),
			zap.String("amount", rawAmount),
			zap.Error(submitErr))
		return 0, false, classified
	}

	if !known {
		o.logger.Warn("Withdrawal created but request id not found in receipt events",
			zap.String("account", account.Hex()))
	} else {
		o.logger.Info("Withdrawal request created",
			zap.String("account", account.Hex()),
			zap.Uint64("request_id", requestID),
			zap.String("amount", rawAmount))
	}

	return requestID, known, nil
}

// ClaimWithdrawal sends the claim transaction for a single request. The
// orchestrator does not re-check that the request is ready; eligibility is
// the caller's concern and the ledger rejects stale claims.
func (o *Orchestrator) ClaimWithdrawal(ctx context.Context, requestID uint64) error {
	o.mu.Lock()
	o.claiming[requestID] = true
	o.claimErr = nil
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.claiming, requestID)
		o.mu.Unlock()
	}()

	if err := o.writer.SubmitClaim(ctx, requestID); err != nil {
		classified := ClassifyError(err)
		if classified.Kind == KindUserCancelled {
			o.logger.Info("Claim cancelled by user", zap.Uint64("request_id", requestID))
			return classified
		}
		o.mu.Lock()
		o.claimErr = classified
		o.mu.Unlock()
		o.logger.Error("Claim failed", zap.Uint64("request_id", requestID), zap.Error(err))
		return classified
	}

	o.logger.Info("Withdrawal claimed", zap.Uint64("request_id", requestID))
	return nil
}

// IsSubmitting reports whether a withdrawal submission is in flight.
func (o *Orchestrator) IsSubmitting() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.submitting
}

// IsClaiming reports whether a claim for the given request is in flight, so
// the caller can disable only that request's claim control.
func (o *Orchestrator) IsClaiming(requestID uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.claiming[requestID]
}

// RequestError returns the retained error of the last failed submission, or
// nil.
func (o *Orchestrator) RequestError() *ClassifiedError {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.requestErr
}

// ClaimError returns the retained error of the last failed claim, or nil.
func (o *Orchestrator) ClaimError() *ClassifiedError {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.claimErr
}

// ResetRequestError clears retained submission error state.
func (o *Orchestrator) ResetRequestError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requestErr = nil
}

// ResetClaimState clears retained claim error state.
func (o *Orchestrator) ResetClaimState() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.claimErr = nil
}

func (o *Orchestrator) recordRequestError(classified *ClassifiedError) {
	o.mu.Lock()
	o.requestErr = classified
	o.mu.Unlock()
}
