package cmd

import (
	"fmt"

	"github.com/mezonai/tokencore/config"
	"github.com/mezonai/tokencore/security/auth"
	"github.com/mezonai/tokencore/types"
	"github.com/mr-tron/base58"
)

// signer is a key file loaded for signing operations
type signer struct {
	address string
	scheme  types.SignatureScheme
	priv    []byte
}

func loadSigner(path string) (*signer, error) {
	if path == "" {
		return nil, fmt.Errorf("a key file is required")
	}
	kf, priv, err := config.LoadKeyFile(path)
	if err != nil {
		return nil, err
	}
	return &signer{address: kf.Address, scheme: types.SignatureScheme(kf.Scheme), priv: priv}, nil
}

func (s *signer) sign(message []byte) ([]byte, error) {
	return auth.Sign(s.scheme, s.priv, message)
}

// resolveSignature returns the externally supplied base58 signature, or
// signs message with the key file when none was given
func resolveSignature(encoded string, s *signer, message []byte) ([]byte, error) {
	if encoded != "" {
		sig, err := base58.Decode(encoded)
		if err != nil {
			return nil, fmt.Errorf("could not decode signature: %w", err)
		}
		return sig, nil
	}
	if s == nil {
		return nil, fmt.Errorf("either --signature or --key is required")
	}
	return s.sign(message)
}

// identity picks the acting address from --from or the key file
func identity(from string, s *signer) (string, error) {
	switch {
	case from != "":
		return from, nil
	case s != nil:
		return s.address, nil
	}
	return "", fmt.Errorf("either --from or --key is required")
}

func optionalSigner(path string) (*signer, error) {
	if path == "" {
		return nil, nil
	}
	return loadSigner(path)
}
