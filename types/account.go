package types

import (
	"github.com/holiman/uint256"
)

// BalanceSnapshot is one entry of the append-only balance history. Seq orders
// several writes recorded for the same account at the same height.
type BalanceSnapshot struct {
	Account string
	Height  uint64
	Seq     uint32
	Balance *uint256.Int
}

// Allowance is the amount Spender may move on behalf of Owner.
type Allowance struct {
	Owner   string
	Spender string
	Amount  *uint256.Int
}
