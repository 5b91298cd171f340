package cmd

import (
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/jsonx"
	"github.com/shopspring/decimal"
)

// printJSON writes v to stdout as indented JSON
func printJSON(v interface{}) error {
	if err := jsonx.NewIndentEncoder(os.Stdout).Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// formatAmount renders a base-unit amount in whole tokens
func formatAmount(amount *uint256.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount.ToBig(), -int32(decimals)).String()
}
