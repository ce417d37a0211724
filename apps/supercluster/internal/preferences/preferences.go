// Package preferences exposes the persisted per-wallet allocation-target
// selection behind a small service with change notification, so nothing else
// reads storage directly.
package preferences

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/assets"
)

// Store is the persistence surface the service depends on.
type Store interface {
	GetTarget(walletAddress string) (string, error)
	SetTarget(walletAddress, targetAddress string) error
}

// Change is delivered to subscribers whenever a wallet selects a new target.
type Change struct {
	WalletAddress string
	TargetAddress string
}

type Service struct {
	store  Store
	logger *zap.Logger

	mu          sync.Mutex
	subscribers []chan Change
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Target returns the wallet's selected allocation target, falling back to
// the protocol's primary target when none was ever selected.
func (s *Service) Target(wallet common.Address) (common.Address, error) {
	stored, err := s.store.GetTarget(wallet.Hex())
	if err != nil {
		return common.Address{}, err
	}
	if stored == "" {
		return common.HexToAddress(assets.DefaultTargetAddress), nil
	}
	return common.HexToAddress(stored), nil
}

// SetTarget persists the selection and notifies subscribers.
func (s *Service) SetTarget(wallet, target common.Address) error {
	if err := s.store.SetTarget(wallet.Hex(), target.Hex()); err != nil {
		return err
	}

	change := Change{WalletAddress: wallet.Hex(), TargetAddress: target.Hex()}

	s.mu.Lock()
	subscribers := make([]chan Change, len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, subscriber := range subscribers {
		select {
		case subscriber <- change:
		default:
			s.logger.Warn("Dropping preference change for slow subscriber",
				zap.String("wallet_address", change.WalletAddress))
		}
	}

	return nil
}

// Subscribe returns a channel receiving future target changes. Slow
// consumers miss updates rather than blocking the writer.
func (s *Service) Subscribe() <-chan Change {
	ch := make(chan Change, 16)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}
