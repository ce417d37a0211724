package withdrawal

import (
	"math"
	"math/big"
	"time"

	"supercluster/apps/supercluster/internal/amount"
	"supercluster/apps/supercluster/internal/assets"
	"supercluster/apps/supercluster/internal/model"
)

// MinFinalizingProgress is the lowest progress percentage shown once a
// request is finalized, so a fresh finalization is visibly in motion. Display
// policy only; tunable.
const MinFinalizingProgress = 5

// ClassifyRequest derives the lifecycle status of a request at the given
// time. Pure: repeated calls with the same inputs yield the same output and
// the record is never mutated. A request can never skip from pending to
// ready; finalization is an external operator event and must happen first,
// even if availableAt has already elapsed.
func ClassifyRequest(req model.WithdrawalRequest, now time.Time) model.Status {
	switch {
	case req.Claimed:
		return model.StatusClaimed
	case req.Finalized && req.AvailableAt <= uint64(now.Unix()):
		return model.StatusReady
	case req.Finalized:
		return model.StatusFinalizing
	default:
		return model.StatusPending
	}
}

// DeriveRequest builds the display view of a single request at the given
// time.
func DeriveRequest(req model.WithdrawalRequest, now time.Time) model.DisplayRequest {
	status := ClassifyRequest(req, now)

	susdc, _ := assets.GlobalRegistry.GetBySymbol("sUSDC")
	usdc, _ := assets.GlobalRegistry.GetBySymbol("USDC")

	return model.DisplayRequest{
		ID:                req.ID,
		Owner:             req.Owner.Hex(),
		Status:            status,
		ShareAmount:       amount.Format(req.ShareAmount, susdc.Decimals, susdc.DisplayDecimals),
		BaseAmount:        amount.Format(req.BaseAmount, usdc.Decimals, usdc.DisplayDecimals),
		RequestedAtMillis: int64(req.RequestedAt) * 1000,
		AvailableAtMillis: int64(req.AvailableAt) * 1000,
		SecondsToUnlock:   secondsToUnlock(req, status, now),
		Progress:          progress(req, status, now),
		Claimable:         status == model.StatusReady,
	}
}

// DeriveSummary recomputes the full display set and its aggregates from the
// latest fetched records and the current time.
func DeriveSummary(requests []model.WithdrawalRequest, now time.Time) model.WithdrawalSummary {
	susdc, _ := assets.GlobalRegistry.GetBySymbol("sUSDC")
	usdc, _ := assets.GlobalRegistry.GetBySymbol("USDC")

	summary := model.WithdrawalSummary{
		Requests: make([]model.DisplayRequest, 0, len(requests)),
	}

	totalClaimable := new(big.Int)
	totalPending := new(big.Int)

	for _, req := range requests {
		display := DeriveRequest(req, now)
		summary.Requests = append(summary.Requests, display)

		switch display.Status {
		case model.StatusReady:
			summary.ReadyToClaimCount++
		case model.StatusPending, model.StatusFinalizing:
			summary.PendingRequestsCount++
		case model.StatusClaimed:
			summary.ClaimedCount++
		}

		if display.Status == model.StatusReady && req.BaseAmount != nil {
			totalClaimable.Add(totalClaimable, req.BaseAmount)
		}
		if display.Status != model.StatusClaimed && req.ShareAmount != nil {
			totalPending.Add(totalPending, req.ShareAmount)
		}
	}

	summary.TotalClaimableAmount = amount.Format(totalClaimable, usdc.Decimals, usdc.DisplayDecimals)
	summary.TotalPendingAmount = amount.Format(totalPending, susdc.Decimals, susdc.DisplayDecimals)

	return summary
}

// secondsToUnlock counts down to availableAt while a request is finalizing.
// availableAt is meaningless before finalization, so pending requests report
// zero rather than a countdown to a garbage timestamp.
func secondsToUnlock(req model.WithdrawalRequest, status model.Status, now time.Time) uint64 {
	if status != model.StatusFinalizing {
		return 0
	}
	nowSec := uint64(now.Unix())
	if req.AvailableAt <= nowSec {
		return 0
	}
	return req.AvailableAt - nowSec
}

func progress(req model.WithdrawalRequest, status model.Status, now time.Time) int {
	switch status {
	case model.StatusClaimed, model.StatusReady:
		return 100
	case model.StatusPending:
		return 0
	}

	span := int64(req.AvailableAt) - int64(req.RequestedAt)
	if span < 1 {
		span = 1
	}
	elapsed := now.Unix() - int64(req.RequestedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > span {
		elapsed = span
	}

	pct := int(math.Round(float64(elapsed) / float64(span) * 100))
	if pct < MinFinalizingProgress {
		pct = MinFinalizingProgress
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}
