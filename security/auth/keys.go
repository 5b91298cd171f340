package auth

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/mezonai/tokencore/types"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// ParsePublicKey checks that pub is a well-formed key for scheme
func ParsePublicKey(scheme types.SignatureScheme, pub []byte) error {
	switch scheme {
	case types.SchemeEd25519:
		if len(pub) != ed25519.PublicKeySize {
			return errors.Errorf("invalid ed25519 public key length: expected %d, got %d", ed25519.PublicKeySize, len(pub))
		}
		return nil
	case types.SchemeSecp256k1:
		if _, err := secp256k1.ParsePubKey(pub); err != nil {
			return errors.Wrap(err, "invalid secp256k1 public key")
		}
		return nil
	default:
		return errors.Errorf("unsupported signature scheme %q", scheme)
	}
}

// DecodePublicKey decodes a base58 public key and validates it for scheme
func DecodePublicKey(scheme types.SignatureScheme, encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, errors.New("public key cannot be empty")
	}
	pub, err := base58.Decode(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode public key")
	}
	if err := ParsePublicKey(scheme, pub); err != nil {
		return nil, err
	}
	return pub, nil
}

// DecodePrivateKey decodes a base58 private key. ed25519 accepts either the
// 32-byte seed or the 64-byte expanded key; secp256k1 takes 32 bytes.
func DecodePrivateKey(scheme types.SignatureScheme, encoded string) ([]byte, error) {
	priv, err := base58.Decode(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode private key")
	}
	switch scheme {
	case types.SchemeEd25519:
		switch len(priv) {
		case ed25519.SeedSize:
			return ed25519.NewKeyFromSeed(priv), nil
		case ed25519.PrivateKeySize:
			return priv, nil
		}
		return nil, errors.Errorf("invalid ed25519 private key length %d", len(priv))
	case types.SchemeSecp256k1:
		if len(priv) != secp256k1.PrivKeyBytesLen {
			return nil, errors.Errorf("invalid secp256k1 private key length %d", len(priv))
		}
		return priv, nil
	default:
		return nil, errors.Errorf("unsupported signature scheme %q", scheme)
	}
}

// GenerateKey creates a key pair for scheme. The public key is returned in
// the form the registry stores (compressed for secp256k1).
func GenerateKey(scheme types.SignatureScheme) (pub, priv []byte, err error) {
	switch scheme {
	case types.SchemeEd25519:
		edPub, edPriv, err := ed25519.GenerateKey(nil)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to generate ed25519 key")
		}
		return edPub, edPriv, nil
	case types.SchemeSecp256k1:
		key, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to generate secp256k1 key")
		}
		return key.PubKey().SerializeCompressed(), key.Serialize(), nil
	default:
		return nil, nil, errors.Errorf("unsupported signature scheme %q", scheme)
	}
}

// Sign produces the signature the registry verifies for scheme: a raw
// ed25519 signature, or a DER ECDSA signature over SHA-256(message).
func Sign(scheme types.SignatureScheme, priv, message []byte) ([]byte, error) {
	switch scheme {
	case types.SchemeEd25519:
		if len(priv) != ed25519.PrivateKeySize {
			return nil, errors.Errorf("invalid ed25519 private key length %d", len(priv))
		}
		return ed25519.Sign(ed25519.PrivateKey(priv), message), nil
	case types.SchemeSecp256k1:
		if len(priv) != secp256k1.PrivKeyBytesLen {
			return nil, errors.Errorf("invalid secp256k1 private key length %d", len(priv))
		}
		hash := sha256.Sum256(message)
		return ecdsa.Sign(secp256k1.PrivKeyFromBytes(priv), hash[:]).Serialize(), nil
	default:
		return nil, errors.Errorf("unsupported signature scheme %q", scheme)
	}
}
