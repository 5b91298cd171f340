package auth

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/logx"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// KeyRegistry resolves the registered public key of a signer
type KeyRegistry interface {
	Get(addr string) (*types.SignerKey, error)
}

// Module verifies signatures against registered keys only. It never creates
// keys of its own.
type Module struct {
	registry KeyRegistry
}

func NewModule(registry KeyRegistry) *Module {
	return &Module{registry: registry}
}

// VerifySignature reports whether signature over message was produced by
// signer's registered key. An unknown signer is never valid. The error is
// non-nil only when the registry could not be read.
func (m *Module) VerifySignature(signer string, message, signature []byte) (bool, error) {
	key, err := m.registry.Get(signer)
	if err != nil {
		return false, fmt.Errorf("could not load signer key: %w", err)
	}
	if key == nil {
		logx.Warn("AUTH", "no key registered for signer", utils.ShortenLog(signer))
		return false, nil
	}
	return VerifyWithKey(key, message, signature), nil
}

// Verify is VerifySignature that fails with InvalidSignature
func (m *Module) Verify(signer string, message, signature []byte) error {
	ok, err := m.VerifySignature(signer, message, signature)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Newf(errors.ErrCodeInvalidSignature, "%s for %s", errors.ErrMsgInvalidSignature, signer)
	}
	return nil
}

// VerifyWithKey checks signature against an explicit key
func VerifyWithKey(key *types.SignerKey, message, signature []byte) bool {
	switch key.Scheme {
	case types.SchemeEd25519:
		if len(key.PublicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(key.PublicKey), message, signature)
	case types.SchemeSecp256k1:
		pub, err := secp256k1.ParsePubKey(key.PublicKey)
		if err != nil {
			return false
		}
		sig, err := ecdsa.ParseDERSignature(signature)
		if err != nil {
			return false
		}
		hash := SecureHash(message)
		return sig.Verify(hash[:], pub)
	default:
		return false
	}
}

// SecureHash returns the SHA-256 digest of data
func SecureHash(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// ConstantTimeCompare reports whether a and b are equal. Inputs of
// different length return early; equal-length inputs take the same time
// wherever they differ.
func ConstantTimeCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
