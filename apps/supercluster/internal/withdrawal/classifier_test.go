package withdrawal

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"supercluster/apps/supercluster/internal/amount"
	"supercluster/apps/supercluster/internal/model"
)

func tokens(t *testing.T, value string) *big.Int {
	t.Helper()
	parsed, err := amount.Parse(value, 18, amount.MaxInputDecimals)
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", value, err)
	}
	return parsed
}

func testRequest(t *testing.T, id uint64, finalized, claimed bool, requestedAt, availableAt uint64) model.WithdrawalRequest {
	t.Helper()
	return model.WithdrawalRequest{
		ID:          id,
		Owner:       common.HexToAddress("0x1111111111111111111111111111111111111111"),
		ShareAmount: tokens(t, "100"),
		BaseAmount:  tokens(t, "95"),
		RequestedAt: requestedAt,
		AvailableAt: availableAt,
		Finalized:   finalized,
		Claimed:     claimed,
	}
}

func TestClassifyRequest(t *testing.T) {
	now := time.Unix(1500, 0)

	cases := []struct {
		name     string
		req      model.WithdrawalRequest
		expected model.Status
	}{
		{"unfinalized is pending", testRequest(t, 1, false, false, 1000, 2000), model.StatusPending},
		{"unfinalized past available time is still pending", testRequest(t, 2, false, false, 100, 200), model.StatusPending},
		{"finalized before available time is finalizing", testRequest(t, 3, true, false, 1000, 2000), model.StatusFinalizing},
		{"finalized at available time is ready", testRequest(t, 4, true, false, 1000, 1500), model.StatusReady},
		{"finalized past available time is ready", testRequest(t, 5, true, false, 100, 200), model.StatusReady},
		{"claimed wins over ready", testRequest(t, 6, true, true, 100, 200), model.StatusClaimed},
		{"claimed wins over finalizing", testRequest(t, 7, true, true, 1000, 2000), model.StatusClaimed},
		{"claimed wins over pending", testRequest(t, 8, false, true, 1000, 2000), model.StatusClaimed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyRequest(tc.req, now); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestClassifyRequestIsPure(t *testing.T) {
	req := testRequest(t, 1, true, false, 1000, 2000)
	now := time.Unix(1500, 0)

	first := ClassifyRequest(req, now)
	second := ClassifyRequest(req, now)
	if first != second {
		t.Errorf("Classification not stable: %s vs %s", first, second)
	}
}

func TestDeriveRequestMidWindow(t *testing.T) {
	// Finalized request exactly halfway through its unlock window.
	req := testRequest(t, 1, true, false, 1000, 2000)
	now := time.Unix(1500, 0)

	display := DeriveRequest(req, now)

	if display.Status != model.StatusFinalizing {
		t.Errorf("Expected finalizing, got %s", display.Status)
	}
	if display.SecondsToUnlock != 500 {
		t.Errorf("Expected 500 seconds to unlock, got %d", display.SecondsToUnlock)
	}
	if display.Progress != 50 {
		t.Errorf("Expected progress 50, got %d", display.Progress)
	}
	if display.Claimable {
		t.Error("Finalizing request must not be claimable")
	}
}

func TestDeriveRequestHappyPath(t *testing.T) {
	req := testRequest(t, 1, false, false, 1000, 2000)
	now := time.Unix(1100, 0)

	display := DeriveRequest(req, now)

	if display.Status != model.StatusPending {
		t.Errorf("Expected pending, got %s", display.Status)
	}
	if display.ShareAmount != "100.0000" {
		t.Errorf("Expected share amount 100.0000, got %s", display.ShareAmount)
	}
	if display.BaseAmount != "95.000000" {
		t.Errorf("Expected base amount 95.000000, got %s", display.BaseAmount)
	}
	if display.Progress != 0 {
		t.Errorf("Expected progress 0 for pending, got %d", display.Progress)
	}
	if display.SecondsToUnlock != 0 {
		t.Errorf("Expected no countdown for pending, got %d", display.SecondsToUnlock)
	}
	if display.RequestedAtMillis != 1000000 {
		t.Errorf("Expected requested at 1000000 ms, got %d", display.RequestedAtMillis)
	}
	if display.AvailableAtMillis != 2000000 {
		t.Errorf("Expected available at 2000000 ms, got %d", display.AvailableAtMillis)
	}
}

func TestDeriveRequestReadyAndClaimed(t *testing.T) {
	ready := DeriveRequest(testRequest(t, 1, true, false, 100, 200), time.Unix(1500, 0))
	if ready.Status != model.StatusReady {
		t.Fatalf("Expected ready, got %s", ready.Status)
	}
	if ready.Progress != 100 {
		t.Errorf("Expected progress 100 for ready, got %d", ready.Progress)
	}
	if !ready.Claimable {
		t.Error("Ready request must be claimable")
	}
	if ready.SecondsToUnlock != 0 {
		t.Errorf("Expected no countdown for ready, got %d", ready.SecondsToUnlock)
	}

	claimed := DeriveRequest(testRequest(t, 2, true, true, 100, 200), time.Unix(1500, 0))
	if claimed.Status != model.StatusClaimed {
		t.Fatalf("Expected claimed, got %s", claimed.Status)
	}
	if claimed.Progress != 100 {
		t.Errorf("Expected progress 100 for claimed, got %d", claimed.Progress)
	}
	if claimed.Claimable {
		t.Error("Claimed request must not be claimable")
	}
}

func TestProgressFloorWhenFreshlyFinalized(t *testing.T) {
	// Just finalized, no time elapsed yet: the floor keeps the bar visible.
	req := testRequest(t, 1, true, false, 1000, 101000)
	now := time.Unix(1000, 0)

	display := DeriveRequest(req, now)

	if display.Progress != MinFinalizingProgress {
		t.Errorf("Expected progress floor %d, got %d", MinFinalizingProgress, display.Progress)
	}
}

func TestProgressNeverDecreases(t *testing.T) {
	req := testRequest(t, 1, true, false, 1000, 2000)

	previous := -1
	for sec := int64(900); sec <= 2100; sec += 50 {
		display := DeriveRequest(req, time.Unix(sec, 0))
		if display.Progress < previous {
			t.Fatalf("Progress decreased from %d to %d at t=%d", previous, display.Progress, sec)
		}
		if display.Progress > 100 {
			t.Fatalf("Progress exceeded 100 at t=%d: %d", sec, display.Progress)
		}
		previous = display.Progress
	}
}

func TestProgressDegenerateWindow(t *testing.T) {
	// availableAt before requestedAt must not divide by a non-positive span.
	req := testRequest(t, 1, true, false, 2000, 1000)
	now := time.Unix(1500, 0)

	// Past availableAt, so the request is ready regardless of the window.
	if got := ClassifyRequest(req, now); got != model.StatusReady {
		t.Fatalf("Expected ready, got %s", got)
	}
	if got := DeriveRequest(req, now).Progress; got != 100 {
		t.Errorf("Expected progress 100, got %d", got)
	}
}

func TestDeriveSummaryAggregates(t *testing.T) {
	now := time.Unix(1500, 0)
	requests := []model.WithdrawalRequest{
		testRequest(t, 4, false, false, 1400, 2400), // pending
		testRequest(t, 3, true, false, 1000, 2000),  // finalizing
		testRequest(t, 2, true, false, 100, 200),    // ready
		testRequest(t, 1, true, true, 50, 100),      // claimed
	}

	summary := DeriveSummary(requests, now)

	if len(summary.Requests) != 4 {
		t.Fatalf("Expected 4 requests, got %d", len(summary.Requests))
	}
	if summary.ReadyToClaimCount != 1 {
		t.Errorf("Expected 1 ready, got %d", summary.ReadyToClaimCount)
	}
	if summary.PendingRequestsCount != 2 {
		t.Errorf("Expected 2 pending, got %d", summary.PendingRequestsCount)
	}
	if summary.ClaimedCount != 1 {
		t.Errorf("Expected 1 claimed, got %d", summary.ClaimedCount)
	}

	total := summary.ReadyToClaimCount + summary.PendingRequestsCount + summary.ClaimedCount
	if total != len(requests) {
		t.Errorf("Counts do not partition the request set: %d vs %d", total, len(requests))
	}

	// Claimable total sums base amounts of ready requests only.
	if summary.TotalClaimableAmount != "95.000000" {
		t.Errorf("Expected total claimable 95.000000, got %s", summary.TotalClaimableAmount)
	}
	// Pending total sums share amounts of everything not yet claimed.
	if summary.TotalPendingAmount != "300.0000" {
		t.Errorf("Expected total pending 300.0000, got %s", summary.TotalPendingAmount)
	}
}

func TestDeriveSummaryEmpty(t *testing.T) {
	summary := DeriveSummary(nil, time.Unix(1500, 0))

	if len(summary.Requests) != 0 {
		t.Errorf("Expected no requests, got %d", len(summary.Requests))
	}
	if summary.TotalClaimableAmount != "0.000000" {
		t.Errorf("Expected total claimable 0.000000, got %s", summary.TotalClaimableAmount)
	}
	if summary.TotalPendingAmount != "0.0000" {
		t.Errorf("Expected total pending 0.0000, got %s", summary.TotalPendingAmount)
	}
}
