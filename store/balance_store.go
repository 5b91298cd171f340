package store

import (
	"fmt"

	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// BalanceStore is the append-only snapshot log behind the balance ledger.
// Keys: PrefixBalance + <addr>:<h16>:<seq8> => decimal balance
type BalanceStore interface {
	Append(snapshot *types.BalanceSnapshot) error
	Get(addr string, height uint64, seq uint32) (*types.BalanceSnapshot, error)
	List(addr string) ([]*types.BalanceSnapshot, error)
}

type GenericBalanceStore struct {
	provider db.IterableProvider
}

func NewGenericBalanceStore(provider db.IterableProvider) *GenericBalanceStore {
	return &GenericBalanceStore{provider: provider}
}

// Append writes a snapshot. Existing entries are never overwritten.
func (s *GenericBalanceStore) Append(snapshot *types.BalanceSnapshot) error {
	key := balanceKey(snapshot.Account, snapshot.Height, snapshot.Seq)
	exists, err := s.provider.Has(key)
	if err != nil {
		return fmt.Errorf("could not check balance snapshot %s: %w", key, err)
	}
	if exists {
		return fmt.Errorf("balance snapshot %s already recorded", key)
	}
	if err := s.provider.Put(key, []byte(utils.Uint256ToString(snapshot.Balance))); err != nil {
		return fmt.Errorf("failed to write balance snapshot %s: %w", key, err)
	}
	return nil
}

// Get returns one snapshot, nil when absent
func (s *GenericBalanceStore) Get(addr string, height uint64, seq uint32) (*types.BalanceSnapshot, error) {
	data, err := s.provider.Get(balanceKey(addr, height, seq))
	if err != nil {
		return nil, fmt.Errorf("could not get balance snapshot for %s: %w", addr, err)
	}
	if data == nil {
		return nil, nil
	}
	return &types.BalanceSnapshot{
		Account: addr,
		Height:  height,
		Seq:     seq,
		Balance: utils.Uint256FromString(string(data)),
	}, nil
}

// List returns every snapshot of addr ordered by (height, seq)
func (s *GenericBalanceStore) List(addr string) ([]*types.BalanceSnapshot, error) {
	var (
		out     []*types.BalanceSnapshot
		iterErr error
	)
	err := s.provider.IteratePrefix(balancePrefix(addr), func(key, value []byte) bool {
		height, seq, err := parseBalanceKey(key)
		if err != nil {
			iterErr = err
			return false
		}
		out = append(out, &types.BalanceSnapshot{
			Account: addr,
			Height:  height,
			Seq:     seq,
			Balance: utils.Uint256FromString(string(value)),
		})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("could not scan balance snapshots for %s: %w", addr, err)
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return out, nil
}
