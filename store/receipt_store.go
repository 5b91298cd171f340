package store

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/utils"
)

// ReceiptStore records inbound credits so the holding period can be applied.
// Keys: PrefixReceipt + <addr>:<ts16>:<h16> => decimal amount received
type ReceiptStore interface {
	Add(addr string, ts, height uint64, amount *uint256.Int) error
	ReceivedBetween(addr string, from, to uint64) (*uint256.Int, error)
}

type GenericReceiptStore struct {
	provider db.IterableProvider
}

func NewGenericReceiptStore(provider db.IterableProvider) *GenericReceiptStore {
	return &GenericReceiptStore{provider: provider}
}

// Add accumulates amount into the receipt for (addr, ts, height)
func (s *GenericReceiptStore) Add(addr string, ts, height uint64, amount *uint256.Int) error {
	key := receiptKey(addr, ts, height)
	data, err := s.provider.Get(key)
	if err != nil {
		return fmt.Errorf("could not get receipt %s: %w", key, err)
	}

	total := amount
	if data != nil {
		total, err = utils.CheckedAdd(utils.Uint256FromString(string(data)), amount)
		if err != nil {
			return err
		}
	}
	if err := s.provider.Put(key, []byte(utils.Uint256ToString(total))); err != nil {
		return fmt.Errorf("failed to write receipt %s: %w", key, err)
	}
	return nil
}

// ReceivedBetween sums receipts with timestamp in [from, to]
func (s *GenericReceiptStore) ReceivedBetween(addr string, from, to uint64) (*uint256.Int, error) {
	sum := uint256.NewInt(0)
	if from > to {
		return sum, nil
	}

	var iterErr error
	start, limit := timeRange(receiptPrefix(addr), from, to)
	err := s.provider.IterateRange(start, limit, func(_, value []byte) bool {
		next, err := utils.CheckedAdd(sum, utils.Uint256FromString(string(value)))
		if err != nil {
			iterErr = err
			return false
		}
		sum = next
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("could not scan receipts for %s: %w", addr, err)
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return sum, nil
}
