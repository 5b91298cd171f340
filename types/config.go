package types

import (
	"github.com/holiman/uint256"
)

// TokenConfig is the ledger-wide configuration singleton.
type TokenConfig struct {
	Name            string
	Symbol          string
	Decimals        uint8
	TotalSupply     *uint256.Int
	Owner           string
	Paused          bool
	TransferLimit   uint64 // max outbound transfers per account per rate window, 0 disables
	RateLimitWindow uint64 // seconds
	Version         string
}

// RiskParameters holds the tunable limits enforced on every transfer.
type RiskParameters struct {
	MaxTxValue          *uint256.Int
	DailyLimit          *uint256.Int
	MinHoldingPeriod    uint64 // seconds
	MaxAccountsPerBlock uint32
	CoolingPeriod       uint64 // seconds
}

func (rp *RiskParameters) Clone() *RiskParameters {
	cp := *rp
	cp.MaxTxValue = new(uint256.Int).Set(rp.MaxTxValue)
	cp.DailyLimit = new(uint256.Int).Set(rp.DailyLimit)
	return &cp
}
