package withdrawal

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/model"
)

type fakeLedger struct {
	ids        []uint64
	idsErr     error
	records    map[uint64]model.WithdrawalRequest
	recordErrs map[uint64]error
	balance    *big.Int
	balanceErr error
}

func (f *fakeLedger) RequestIdsOf(ctx context.Context, account common.Address) ([]uint64, error) {
	return f.ids, f.idsErr
}

func (f *fakeLedger) RequestByID(ctx context.Context, id uint64) (model.WithdrawalRequest, error) {
	if err := f.recordErrs[id]; err != nil {
		return model.WithdrawalRequest{}, err
	}
	req, ok := f.records[id]
	if !ok {
		return model.WithdrawalRequest{}, errors.New("unknown request id")
	}
	return req, nil
}

func (f *fakeLedger) ReceiptBalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	if f.balance == nil {
		return big.NewInt(0), nil
	}
	return f.balance, nil
}

func TestFetchRequestsDedupesAndSortsDescending(t *testing.T) {
	ledger := &fakeLedger{
		ids: []uint64{3, 1, 3, 2},
		records: map[uint64]model.WithdrawalRequest{
			1: {ID: 1},
			2: {ID: 2},
			3: {ID: 3},
		},
	}
	repo := NewRepository(ledger, zap.NewNop())

	requests, err := repo.FetchRequests(context.Background(), common.HexToAddress("0x1111111111111111111111111111111111111111"))
	if err != nil {
		t.Fatalf("FetchRequests failed: %v", err)
	}

	if len(requests) != 3 {
		t.Fatalf("Expected 3 requests, got %d", len(requests))
	}
	expected := []uint64{3, 2, 1}
	for i, id := range expected {
		if requests[i].ID != id {
			t.Errorf("Expected id %d at position %d, got %d", id, i, requests[i].ID)
		}
	}
}

func TestFetchRequestsSkipsUnresolvedRecords(t *testing.T) {
	ledger := &fakeLedger{
		ids: []uint64{3, 2, 1},
		records: map[uint64]model.WithdrawalRequest{
			1: {ID: 1},
			3: {ID: 3},
		},
		recordErrs: map[uint64]error{
			2: errors.New("execution reverted"),
		},
	}
	repo := NewRepository(ledger, zap.NewNop())

	requests, err := repo.FetchRequests(context.Background(), common.HexToAddress("0x1111111111111111111111111111111111111111"))
	if err != nil {
		t.Fatalf("One bad record must not fail the fetch: %v", err)
	}

	if len(requests) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(requests))
	}
	if requests[0].ID != 3 || requests[1].ID != 1 {
		t.Errorf("Expected ids [3 1], got [%d %d]", requests[0].ID, requests[1].ID)
	}
}

func TestFetchRequestsIdListFailure(t *testing.T) {
	ledger := &fakeLedger{idsErr: errors.New("connection refused")}
	repo := NewRepository(ledger, zap.NewNop())

	if _, err := repo.FetchRequests(context.Background(), common.HexToAddress("0x1111111111111111111111111111111111111111")); err == nil {
		t.Error("Expected error when the id list fetch fails")
	}
}

func TestFetchRequestsEmpty(t *testing.T) {
	ledger := &fakeLedger{}
	repo := NewRepository(ledger, zap.NewNop())

	requests, err := repo.FetchRequests(context.Background(), common.HexToAddress("0x1111111111111111111111111111111111111111"))
	if err != nil {
		t.Fatalf("FetchRequests failed: %v", err)
	}
	if len(requests) != 0 {
		t.Errorf("Expected no requests, got %d", len(requests))
	}
}
