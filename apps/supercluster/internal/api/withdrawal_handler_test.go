package api

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/model"
	"supercluster/apps/supercluster/internal/withdrawal"
)

type fakeReader struct {
	ids     []uint64
	records map[uint64]model.WithdrawalRequest
	balance *big.Int
}

func (f *fakeReader) RequestIdsOf(ctx context.Context, account common.Address) ([]uint64, error) {
	return f.ids, nil
}

func (f *fakeReader) RequestByID(ctx context.Context, id uint64) (model.WithdrawalRequest, error) {
	return f.records[id], nil
}

func (f *fakeReader) ReceiptBalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	if f.balance == nil {
		return big.NewInt(0), nil
	}
	return f.balance, nil
}

type fakeWriter struct {
	claimCalls int
}

func (f *fakeWriter) SubmitWithdrawalRequest(ctx context.Context, account, target, token common.Address, shareAmount *big.Int) (uint64, bool, error) {
	return 0, false, nil
}

func (f *fakeWriter) SubmitClaim(ctx context.Context, requestID uint64) error {
	f.claimCalls++
	return nil
}

type fakeRefresher struct {
	calls int
}

func (f *fakeRefresher) RefreshWallet(ctx context.Context, wallet common.Address) error {
	f.calls++
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newClaimTestHandler(reader *fakeReader, writer *fakeWriter, refresher *fakeRefresher) *WithdrawalHandler {
	logger := zap.NewNop()
	repo := withdrawal.NewRepository(reader, logger)
	orchestrator := withdrawal.NewOrchestrator(reader, writer, logger)
	return NewWithdrawalHandler(repo, orchestrator, refresher, nil, nil, fixedClock{now: time.Unix(1500, 0)}, 1, logger)
}

func claimRequest(requestID, wallet string) *http.Request {
	r := httptest.NewRequest("POST", "/api/withdrawals/"+requestID+"/claim?wallet_address="+wallet, nil)
	return mux.SetURLVars(r, map[string]string{"request_id": requestID})
}

func TestClaimWithdrawalReadyRequest(t *testing.T) {
	reader := &fakeReader{
		ids: []uint64{9},
		records: map[uint64]model.WithdrawalRequest{
			9: {
				ID:          9,
				ShareAmount: big.NewInt(1),
				BaseAmount:  big.NewInt(1),
				RequestedAt: 100,
				AvailableAt: 200,
				Finalized:   true,
			},
		},
	}
	writer := &fakeWriter{}
	refresher := &fakeRefresher{}
	handler := newClaimTestHandler(reader, writer, refresher)

	w := httptest.NewRecorder()
	handler.ClaimWithdrawal(w, claimRequest("9", "0x1111111111111111111111111111111111111111"))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if writer.claimCalls != 1 {
		t.Errorf("Expected 1 claim call, got %d", writer.claimCalls)
	}
	if refresher.calls != 1 {
		t.Errorf("Expected a refresh after the claim, got %d", refresher.calls)
	}

	var response ClaimResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.RequestID != 9 {
		t.Errorf("Expected request id 9, got %d", response.RequestID)
	}
}

func TestClaimWithdrawalNotReady(t *testing.T) {
	// Finalized but still inside the unlock window.
	reader := &fakeReader{
		ids: []uint64{9},
		records: map[uint64]model.WithdrawalRequest{
			9: {
				ID:          9,
				ShareAmount: big.NewInt(1),
				BaseAmount:  big.NewInt(1),
				RequestedAt: 1000,
				AvailableAt: 2000,
				Finalized:   true,
			},
		},
	}
	writer := &fakeWriter{}
	handler := newClaimTestHandler(reader, writer, &fakeRefresher{})

	w := httptest.NewRecorder()
	handler.ClaimWithdrawal(w, claimRequest("9", "0x1111111111111111111111111111111111111111"))

	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if writer.claimCalls != 0 {
		t.Errorf("Unready claim must not reach the ledger, got %d calls", writer.claimCalls)
	}
	if !strings.Contains(w.Body.String(), "request_not_claimable") {
		t.Errorf("Expected request_not_claimable, got %s", w.Body.String())
	}
}

func TestClaimWithdrawalUnknownRequest(t *testing.T) {
	reader := &fakeReader{}
	writer := &fakeWriter{}
	handler := newClaimTestHandler(reader, writer, &fakeRefresher{})

	w := httptest.NewRecorder()
	handler.ClaimWithdrawal(w, claimRequest("42", "0x1111111111111111111111111111111111111111"))

	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if writer.claimCalls != 0 {
		t.Errorf("Unknown request claim must not reach the ledger, got %d calls", writer.claimCalls)
	}
}

func TestClaimWithdrawalInvalidWallet(t *testing.T) {
	handler := newClaimTestHandler(&fakeReader{}, &fakeWriter{}, &fakeRefresher{})

	w := httptest.NewRecorder()
	handler.ClaimWithdrawal(w, claimRequest("9", "not-an-address"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmitWithdrawalRejectsBadBody(t *testing.T) {
	handler := newClaimTestHandler(&fakeReader{}, &fakeWriter{}, &fakeRefresher{})

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", "{not json"},
		{"missing amount", `{"wallet_address": "0x1111111111111111111111111111111111111111"}`},
		{"missing wallet", `{"amount": "100"}`},
		{"invalid wallet", `{"amount": "100", "wallet_address": "nope"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("POST", "/api/withdrawals", strings.NewReader(tc.body))
			handler.SubmitWithdrawal(w, r)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}
