package store

import (
	"fmt"

	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/jsonx"
	"github.com/mezonai/tokencore/types"
	"github.com/mr-tron/base58"
)

// SignerStore is the persisted public key registry.
// Keys: PrefixSigner + <addr> => JSON {scheme, base58 public key}
type SignerStore interface {
	Get(addr string) (*types.SignerKey, error)
	Put(key *types.SignerKey) error
	Exists(addr string) (bool, error)
}

type signerRecord struct {
	Scheme    string `json:"scheme"`
	PublicKey string `json:"public_key"`
}

type GenericSignerStore struct {
	provider db.DatabaseProvider
}

func NewGenericSignerStore(provider db.DatabaseProvider) *GenericSignerStore {
	return &GenericSignerStore{provider: provider}
}

// Get returns the registered key of addr, nil when none
func (s *GenericSignerStore) Get(addr string) (*types.SignerKey, error) {
	data, err := s.provider.Get(signerKey(addr))
	if err != nil {
		return nil, fmt.Errorf("could not get signer %s: %w", addr, err)
	}
	if data == nil {
		return nil, nil
	}

	var rec signerRecord
	if err := jsonx.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signer %s: %w", addr, err)
	}
	pub, err := base58.Decode(rec.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key of signer %s: %w", addr, err)
	}
	return &types.SignerKey{
		Address:   addr,
		Scheme:    types.SignatureScheme(rec.Scheme),
		PublicKey: pub,
	}, nil
}

func (s *GenericSignerStore) Put(key *types.SignerKey) error {
	data, err := jsonx.Marshal(signerRecord{
		Scheme:    string(key.Scheme),
		PublicKey: base58.Encode(key.PublicKey),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal signer %s: %w", key.Address, err)
	}
	if err := s.provider.Put(signerKey(key.Address), data); err != nil {
		return fmt.Errorf("failed to write signer %s: %w", key.Address, err)
	}
	return nil
}

func (s *GenericSignerStore) Exists(addr string) (bool, error) {
	return s.provider.Has(signerKey(addr))
}
