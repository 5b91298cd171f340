package interfaces

import (
	"github.com/holiman/uint256"
)

// BalanceReader is the read side of the balance ledger
type BalanceReader interface {
	// GetBalance returns the balance of addr as of height, zero when no
	// snapshot exists at or before height
	GetBalance(addr string, height uint64) (*uint256.Int, error)
}

// BalanceLedger is the only path through which balances change
type BalanceLedger interface {
	BalanceReader
	// Debit removes amount from addr at height, failing with insufficient funds
	Debit(addr string, amount *uint256.Int, height uint64) error
	// Credit adds amount to addr at height, failing on overflow
	Credit(addr string, amount *uint256.Int, height uint64) error
}
