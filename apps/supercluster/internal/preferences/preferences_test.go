package preferences

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/assets"
)

type fakeStore struct {
	targets map[string]string
	getErr  error
	setErr  error
}

func (f *fakeStore) GetTarget(walletAddress string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.targets[walletAddress], nil
}

func (f *fakeStore) SetTarget(walletAddress, targetAddress string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.targets[walletAddress] = targetAddress
	return nil
}

var (
	testWallet = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testTarget = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func TestTargetFallsBackToDefault(t *testing.T) {
	service := NewService(&fakeStore{targets: map[string]string{}}, zap.NewNop())

	target, err := service.Target(testWallet)
	if err != nil {
		t.Fatalf("Target failed: %v", err)
	}
	if target != common.HexToAddress(assets.DefaultTargetAddress) {
		t.Errorf("Expected default target, got %s", target.Hex())
	}
}

func TestSetTargetRoundTrip(t *testing.T) {
	service := NewService(&fakeStore{targets: map[string]string{}}, zap.NewNop())

	if err := service.SetTarget(testWallet, testTarget); err != nil {
		t.Fatalf("SetTarget failed: %v", err)
	}

	target, err := service.Target(testWallet)
	if err != nil {
		t.Fatalf("Target failed: %v", err)
	}
	if target != testTarget {
		t.Errorf("Expected %s, got %s", testTarget.Hex(), target.Hex())
	}
}

func TestSetTargetNotifiesSubscribers(t *testing.T) {
	service := NewService(&fakeStore{targets: map[string]string{}}, zap.NewNop())

	changes := service.Subscribe()

	if err := service.SetTarget(testWallet, testTarget); err != nil {
		t.Fatalf("SetTarget failed: %v", err)
	}

	select {
	case change := <-changes:
		if change.WalletAddress != testWallet.Hex() || change.TargetAddress != testTarget.Hex() {
			t.Errorf("Unexpected change: %+v", change)
		}
	default:
		t.Error("Expected a change notification")
	}
}

func TestSetTargetStoreFailureSkipsNotification(t *testing.T) {
	service := NewService(&fakeStore{setErr: errors.New("db down")}, zap.NewNop())

	changes := service.Subscribe()

	if err := service.SetTarget(testWallet, testTarget); err == nil {
		t.Fatal("Expected store error")
	}

	select {
	case change := <-changes:
		t.Errorf("Unexpected notification after failed persist: %+v", change)
	default:
	}
}

func TestTargetPropagatesStoreError(t *testing.T) {
	service := NewService(&fakeStore{getErr: errors.New("db down")}, zap.NewNop())

	if _, err := service.Target(testWallet); err == nil {
		t.Error("Expected store error")
	}
}
