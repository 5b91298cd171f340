package store

import (
	"fmt"

	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// AllowanceStore keeps spending allowances.
// Keys: PrefixAllowance + <owner>:<spender> => decimal amount
type AllowanceStore interface {
	Get(owner, spender string) (*types.Allowance, error)
	Put(allowance *types.Allowance) error
}

type GenericAllowanceStore struct {
	provider db.DatabaseProvider
}

func NewGenericAllowanceStore(provider db.DatabaseProvider) *GenericAllowanceStore {
	return &GenericAllowanceStore{provider: provider}
}

// Get returns the allowance, zero when none was approved
func (s *GenericAllowanceStore) Get(owner, spender string) (*types.Allowance, error) {
	data, err := s.provider.Get(allowanceKey(owner, spender))
	if err != nil {
		return nil, fmt.Errorf("could not get allowance %s->%s: %w", owner, spender, err)
	}
	return &types.Allowance{
		Owner:   owner,
		Spender: spender,
		Amount:  utils.Uint256FromString(string(data)),
	}, nil
}

func (s *GenericAllowanceStore) Put(allowance *types.Allowance) error {
	key := allowanceKey(allowance.Owner, allowance.Spender)
	if err := s.provider.Put(key, []byte(utils.Uint256ToString(allowance.Amount))); err != nil {
		return fmt.Errorf("failed to write allowance %s: %w", key, err)
	}
	return nil
}
