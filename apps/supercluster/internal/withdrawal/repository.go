package withdrawal

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/model"
)

// LedgerReader is the read-only ledger surface the repository depends on.
type LedgerReader interface {
	RequestIdsOf(ctx context.Context, account common.Address) ([]uint64, error)
	RequestByID(ctx context.Context, id uint64) (model.WithdrawalRequest, error)
	ReceiptBalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
}

// Repository fetches the withdrawal request records for an account. The
// chain is the single source of truth; every fetch is a fresh projection.
type Repository struct {
	reader LedgerReader
	logger *zap.Logger
}

func NewRepository(reader LedgerReader, logger *zap.Logger) *Repository {
	return &Repository{reader: reader, logger: logger}
}

// FetchRequests retrieves the account's request records: the id list is
// deduplicated (overlapping queries may repeat ids) and sorted newest-first,
// then each record is fetched individually. A record that fails to resolve
// is logged and omitted; one stale or missing record must not take down the
// rest of the list.
func (r *Repository) FetchRequests(ctx context.Context, account common.Address) ([]model.WithdrawalRequest, error) {
	ids, err := r.reader.RequestIdsOf(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request ids for %s: %w", account.Hex(), err)
	}

	seen := make(map[uint64]bool, len(ids))
	unique := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i] > unique[j]
	})

	requests := make([]model.WithdrawalRequest, 0, len(unique))
	for _, id := range unique {
		req, err := r.reader.RequestByID(ctx, id)
		if err != nil {
			r.logger.Warn("Skipping unresolved withdrawal request",
				zap.Uint64("request_id", id),
				zap.String("account", account.Hex()),
				zap.Error(err))
			continue
		}
		requests = append(requests, req)
	}

	return requests, nil
}
