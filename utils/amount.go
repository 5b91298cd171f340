package utils

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// AmountBytes is the width of the big-endian amount encoding used in signed
// messages. Amounts never exceed MaxAmount so 16 bytes always suffice.
const AmountBytes = 16

// MaxAmount is the largest representable amount (2^128 - 1).
var MaxAmount = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// Uint256ToString renders v as a decimal string, "0" for nil.
func Uint256ToString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

// Uint256FromString parses a decimal string, returning zero for empty or
// malformed input. Use ParseAmount when the caller needs the error.
func Uint256FromString(s string) *uint256.Int {
	if s == "" {
		return uint256.NewInt(0)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return uint256.NewInt(0)
	}
	return v
}

// ParseAmount parses a decimal amount, allowing "_" as a digit separator
// (1_000_000), and rejects values above MaxAmount.
func ParseAmount(s string) (*uint256.Int, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if clean == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	v, err := uint256.FromDecimal(clean)
	if err != nil {
		return nil, fmt.Errorf("could not parse amount %q: %w", s, err)
	}
	if v.Gt(MaxAmount) {
		return nil, fmt.Errorf("amount %s exceeds maximum %s", clean, MaxAmount.Dec())
	}
	return v, nil
}

// AmountToBytes encodes amount as a 16-byte big-endian value.
func AmountToBytes(amount *uint256.Int) []byte {
	full := amount.Bytes32()
	out := make([]byte, AmountBytes)
	copy(out, full[32-AmountBytes:])
	return out
}

// Uint64ToBytes encodes v as an 8-byte big-endian value.
func Uint64ToBytes(v uint64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, v)
	return out
}

// CloneAmount returns an independent copy of v (zero for nil).
func CloneAmount(v *uint256.Int) *uint256.Int {
	if v == nil {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Set(v)
}
