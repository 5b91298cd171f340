package store

import (
	"fmt"

	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/jsonx"
)

// AccountState is the per-account sequencing state: the next nonce to use
// and the timestamp of the latest successful outbound transfer.
type AccountState struct {
	Nonce        uint64  `json:"nonce"`
	LastTransfer *uint64 `json:"last_transfer,omitempty"`
}

// NonceStore persists AccountState under PrefixNonce + <addr>.
type NonceStore interface {
	Get(addr string) (*AccountState, error)
	Put(addr string, state *AccountState) error
}

type GenericNonceStore struct {
	provider db.DatabaseProvider
}

func NewGenericNonceStore(provider db.DatabaseProvider) *GenericNonceStore {
	return &GenericNonceStore{provider: provider}
}

// Get returns the account state, a zero state when none is stored
func (s *GenericNonceStore) Get(addr string) (*AccountState, error) {
	data, err := s.provider.Get(nonceKey(addr))
	if err != nil {
		return nil, fmt.Errorf("could not get nonce for %s: %w", addr, err)
	}
	state := &AccountState{}
	if data == nil {
		return state, nil
	}
	if err := jsonx.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal nonce for %s: %w", addr, err)
	}
	return state, nil
}

func (s *GenericNonceStore) Put(addr string, state *AccountState) error {
	data, err := jsonx.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal nonce for %s: %w", addr, err)
	}
	if err := s.provider.Put(nonceKey(addr), data); err != nil {
		return fmt.Errorf("failed to write nonce for %s: %w", addr, err)
	}
	return nil
}
