package store

import (
	"fmt"

	"github.com/mezonai/tokencore/db"
)

// ActivityStore tracks which senders transferred at a given height.
// Keys: PrefixBlockSender + <h16>:<addr> => empty marker
type ActivityStore interface {
	MarkSender(height uint64, addr string) error
	IsSender(height uint64, addr string) (bool, error)
	CountSenders(height uint64, stopAt uint64) (uint64, error)
}

type GenericActivityStore struct {
	provider db.IterableProvider
}

func NewGenericActivityStore(provider db.IterableProvider) *GenericActivityStore {
	return &GenericActivityStore{provider: provider}
}

func (s *GenericActivityStore) MarkSender(height uint64, addr string) error {
	if err := s.provider.Put(blockSenderKey(height, addr), []byte{1}); err != nil {
		return fmt.Errorf("failed to mark sender %s at height %d: %w", addr, height, err)
	}
	return nil
}

func (s *GenericActivityStore) IsSender(height uint64, addr string) (bool, error) {
	ok, err := s.provider.Has(blockSenderKey(height, addr))
	if err != nil {
		return false, fmt.Errorf("could not check sender %s at height %d: %w", addr, height, err)
	}
	return ok, nil
}

// CountSenders counts distinct senders at height. Counting stops once
// stopAt is reached when stopAt > 0.
func (s *GenericActivityStore) CountSenders(height uint64, stopAt uint64) (uint64, error) {
	var count uint64
	err := s.provider.IteratePrefix(blockSenderPrefix(height), func(_, _ []byte) bool {
		count++
		return stopAt == 0 || count < stopAt
	})
	if err != nil {
		return 0, fmt.Errorf("could not count senders at height %d: %w", height, err)
	}
	return count, nil
}
