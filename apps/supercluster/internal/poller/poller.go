package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/events"
	"supercluster/apps/supercluster/internal/model"
	"supercluster/apps/supercluster/internal/repository"
	"supercluster/apps/supercluster/internal/withdrawal"
)

// Poller periodically re-derives the withdrawal view of every tracked
// wallet. Each pass resamples the clock, re-fetches the request list, diffs
// it against the stored snapshots and writes a lifecycle event to the outbox
// for every transition it finds. Countdowns and progress therefore advance
// on the poll interval without any extra ledger reads in between.
type Poller struct {
	repo      *withdrawal.Repository
	clock     withdrawal.Clock
	wallets   *repository.WalletRepository
	snapshots *repository.SnapshotRepository
	outbox    *repository.OutboxRepository
	interval  time.Duration
	chainID   int64
	logger    *zap.Logger
}

func New(
	repo *withdrawal.Repository,
	clock withdrawal.Clock,
	wallets *repository.WalletRepository,
	snapshots *repository.SnapshotRepository,
	outbox *repository.OutboxRepository,
	interval time.Duration,
	chainID int64,
	logger *zap.Logger) *Poller {
	return &Poller{
		repo:      repo,
		clock:     clock,
		wallets:   wallets,
		snapshots: snapshots,
		outbox:    outbox,
		interval:  interval,
		chainID:   chainID,
		logger:    logger,
	}
}

// Start runs refresh passes until the context is cancelled.
func (p *Poller) Start(ctx context.Context) error {
	p.logger.Info("Starting withdrawal queue poller",
		zap.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.refreshAll(ctx); err != nil {
				p.logger.Error("Refresh pass failed", zap.Error(err))
			}
		}
	}
}

func (p *Poller) refreshAll(ctx context.Context) error {
	wallets, err := p.wallets.GetAllTrackedWallets()
	if err != nil {
		return fmt.Errorf("failed to list tracked wallets: %w", err)
	}

	for _, wallet := range wallets {
		if wallet.ChainID != p.chainID {
			continue
		}
		if err := p.RefreshWallet(ctx, common.HexToAddress(wallet.WalletAddress)); err != nil {
			p.logger.Error("Failed to refresh wallet",
				zap.String("wallet_address", wallet.WalletAddress),
				zap.Error(err))
		}
	}

	return nil
}

// RefreshWallet re-fetches one wallet's request list immediately. Called by
// each poll pass and by the API right after a successful submit or claim.
func (p *Poller) RefreshWallet(ctx context.Context, wallet common.Address) error {
	requests, err := p.repo.FetchRequests(ctx, wallet)
	if err != nil {
		return err
	}

	now := p.clock.Now()
	known, err := p.snapshots.GetSnapshotsByWallet(wallet.Hex())
	if err != nil {
		return err
	}

	for _, req := range requests {
		display := withdrawal.DeriveRequest(req, now)

		previous, seen := known[req.ID]
		if seen && previous.Status == display.Status {
			continue
		}

		event := model.OutboxEvent{
			EventID:       uuid.New().String(),
			EventType:     eventTypeFor(display.Status),
			Status:        "unsent",
			WalletAddress: wallet.Hex(),
			RequestID:     req.ID,
			RequestStatus: string(display.Status),
			ShareAmount:   display.ShareAmount,
			BaseAmount:    display.BaseAmount,
		}
		if err := p.outbox.StoreEvent(event); err != nil {
			p.logger.Error("Failed to store lifecycle event",
				zap.Uint64("request_id", req.ID),
				zap.Error(err))
			continue
		}

		if err := p.snapshots.UpsertSnapshot(model.RequestSnapshot{
			WalletAddress: wallet.Hex(),
			RequestID:     req.ID,
			Status:        display.Status,
			ShareAmount:   display.ShareAmount,
			BaseAmount:    display.BaseAmount,
		}); err != nil {
			p.logger.Error("Failed to upsert request snapshot",
				zap.Uint64("request_id", req.ID),
				zap.Error(err))
		}
	}

	return nil
}

func eventTypeFor(status model.Status) string {
	switch status {
	case model.StatusFinalizing:
		return events.TypeWithdrawalFinalizing
	case model.StatusReady:
		return events.TypeWithdrawalReady
	case model.StatusClaimed:
		return events.TypeWithdrawalClaimed
	default:
		return events.TypeWithdrawalRequested
	}
}
