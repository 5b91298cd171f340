package types

import (
	"github.com/holiman/uint256"
)

// TransactionRecord is the immutable log entry written for every executed
// transfer, keyed by (Sender, Nonce).
type TransactionRecord struct {
	Sender    string
	Recipient string
	Nonce     uint64
	Timestamp uint64
	Height    uint64
	Amount    *uint256.Int
	Signature []byte
}
