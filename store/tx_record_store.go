package store

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/jsonx"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// TxRecordStore is the append-only transaction log.
// Keys:
// - PrefixTxMeta + <sender>:<nonce16> => record JSON
// - PrefixTxTime + <sender>:<ts16>:<nonce16> => decimal amount
//
// The time index lets window volume be computed by scanning only the
// records inside the window.
type TxRecordStore interface {
	Append(record *types.TransactionRecord) error
	Get(sender string, nonce uint64) (*types.TransactionRecord, error)
	Exists(sender string, nonce uint64) (bool, error)
	WindowVolume(sender string, from, to uint64) (*uint256.Int, uint64, error)
}

type txRecord struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Nonce     uint64 `json:"nonce"`
	Timestamp uint64 `json:"timestamp"`
	Height    uint64 `json:"height"`
	Amount    string `json:"amount"`
	Signature []byte `json:"signature"`
}

type GenericTxRecordStore struct {
	provider db.IterableProvider
}

func NewGenericTxRecordStore(provider db.IterableProvider) *GenericTxRecordStore {
	return &GenericTxRecordStore{provider: provider}
}

// Append stores the record and its time index entry. A second record for the
// same (sender, nonce) is rejected.
func (s *GenericTxRecordStore) Append(record *types.TransactionRecord) error {
	key := txMetaKey(record.Sender, record.Nonce)
	exists, err := s.provider.Has(key)
	if err != nil {
		return fmt.Errorf("could not check transaction record %s: %w", key, err)
	}
	if exists {
		return fmt.Errorf("transaction record %s already exists", key)
	}

	data, err := jsonx.Marshal(txRecord{
		Sender:    record.Sender,
		Recipient: record.Recipient,
		Nonce:     record.Nonce,
		Timestamp: record.Timestamp,
		Height:    record.Height,
		Amount:    utils.Uint256ToString(record.Amount),
		Signature: record.Signature,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transaction record: %w", err)
	}
	if err := s.provider.Put(key, data); err != nil {
		return fmt.Errorf("failed to write transaction record %s: %w", key, err)
	}

	idx := txTimeKey(record.Sender, record.Timestamp, record.Nonce)
	if err := s.provider.Put(idx, []byte(utils.Uint256ToString(record.Amount))); err != nil {
		return fmt.Errorf("failed to write transaction time index %s: %w", idx, err)
	}
	return nil
}

// Get returns the record for (sender, nonce), nil when absent
func (s *GenericTxRecordStore) Get(sender string, nonce uint64) (*types.TransactionRecord, error) {
	data, err := s.provider.Get(txMetaKey(sender, nonce))
	if err != nil {
		return nil, fmt.Errorf("could not get transaction record %s/%d: %w", sender, nonce, err)
	}
	if data == nil {
		return nil, nil
	}

	var rec txRecord
	if err := jsonx.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction record %s/%d: %w", sender, nonce, err)
	}
	return &types.TransactionRecord{
		Sender:    rec.Sender,
		Recipient: rec.Recipient,
		Nonce:     rec.Nonce,
		Timestamp: rec.Timestamp,
		Height:    rec.Height,
		Amount:    utils.Uint256FromString(rec.Amount),
		Signature: rec.Signature,
	}, nil
}

func (s *GenericTxRecordStore) Exists(sender string, nonce uint64) (bool, error) {
	return s.provider.Has(txMetaKey(sender, nonce))
}

// WindowVolume sums the amounts of sender's records with timestamp in
// [from, to] and returns the sum together with the record count.
func (s *GenericTxRecordStore) WindowVolume(sender string, from, to uint64) (*uint256.Int, uint64, error) {
	sum := uint256.NewInt(0)
	var count uint64
	if from > to {
		return sum, 0, nil
	}

	var iterErr error
	start, limit := timeRange(txTimePrefix(sender), from, to)
	err := s.provider.IterateRange(start, limit, func(_, value []byte) bool {
		amount, err := utils.ParseAmount(string(value))
		if err != nil {
			iterErr = fmt.Errorf("corrupt time index entry for %s: %w", sender, err)
			return false
		}
		next, err := utils.CheckedAdd(sum, amount)
		if err != nil {
			iterErr = err
			return false
		}
		sum = next
		count++
		return true
	})
	if err != nil {
		return nil, 0, fmt.Errorf("could not scan transaction time index for %s: %w", sender, err)
	}
	if iterErr != nil {
		return nil, 0, iterErr
	}
	return sum, count, nil
}
