package cmd

import (
	"strconv"

	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/service"
	"github.com/mezonai/tokencore/utils"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Read committed ledger state",
}

type amountView struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

func runQuery(fn func(svc *service.TokenService) (interface{}, error)) error {
	svc, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	out, err := fn(svc)
	if err != nil {
		return err
	}
	return printJSON(out)
}

// amountOf renders amount with the token's decimals
func amountOf(svc *service.TokenService, addr string, amount *uint256.Int) (interface{}, error) {
	info, err := svc.TokenInfo()
	if err != nil {
		return nil, err
	}
	return amountView{
		Address: addr,
		Amount:  amount.Dec(),
		Display: formatAmount(amount, info.Decimals) + " " + info.Symbol,
	}, nil
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

var queryBalanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Latest balance of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(func(svc *service.TokenService) (interface{}, error) {
			balance, err := svc.Balance(args[0])
			if err != nil {
				return nil, err
			}
			return amountOf(svc, args[0], balance)
		})
	},
}

var queryBalanceAtCmd = &cobra.Command{
	Use:   "balance-at [address] [height]",
	Short: "Balance of an account as of a height",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		height, err := parseUint(args[1])
		if err != nil {
			return err
		}
		return runQuery(func(svc *service.TokenService) (interface{}, error) {
			balance, err := svc.BalanceAt(args[0], height)
			if err != nil {
				return nil, err
			}
			return amountOf(svc, args[0], balance)
		})
	},
}

var queryAllowanceCmd = &cobra.Command{
	Use:   "allowance [owner] [spender]",
	Short: "Amount a spender may move for an owner",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(func(svc *service.TokenService) (interface{}, error) {
			allowance, err := svc.Allowance(args[0], args[1])
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"owner":   allowance.Owner,
				"spender": allowance.Spender,
				"amount":  allowance.Amount.Dec(),
			}, nil
		})
	},
}

type scheduleView struct {
	Start         uint64  `json:"start_time"`
	Cliff         uint64  `json:"cliff_time"`
	End           uint64  `json:"end_time"`
	TotalAmount   string  `json:"total_amount"`
	ClaimedAmount string  `json:"claimed_amount"`
	LastClaimTime *uint64 `json:"last_claim_time,omitempty"`
}

var querySchedulesCmd = &cobra.Command{
	Use:   "schedules [address]",
	Short: "Vesting schedules of a beneficiary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(func(svc *service.TokenService) (interface{}, error) {
			schedules, err := svc.VestingSchedules(args[0])
			if err != nil {
				return nil, err
			}
			views := make([]scheduleView, 0, len(schedules))
			for _, s := range schedules {
				views = append(views, scheduleView{
					Start:         s.StartTime,
					Cliff:         s.CliffTime,
					End:           s.EndTime,
					TotalAmount:   s.TotalAmount.Dec(),
					ClaimedAmount: s.ClaimedAmount.Dec(),
					LastClaimTime: s.LastClaimTime,
				})
			}
			return views, nil
		})
	},
}

var queryClaimableCmd = &cobra.Command{
	Use:   "claimable [address]",
	Short: "Vested amount a claim would pay out at --time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(func(svc *service.TokenService) (interface{}, error) {
			amount, err := svc.ClaimableVesting(args[0], currentEnv().Time)
			if err != nil {
				return nil, err
			}
			return amountOf(svc, args[0], amount)
		})
	},
}

var queryInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Token configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(func(svc *service.TokenService) (interface{}, error) {
			info, err := svc.TokenInfo()
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"name":              info.Name,
				"symbol":            info.Symbol,
				"decimals":          info.Decimals,
				"total_supply":      utils.Uint256ToString(info.TotalSupply),
				"owner":             info.Owner,
				"paused":            info.Paused,
				"transfer_limit":    info.TransferLimit,
				"rate_limit_window": info.RateLimitWindow,
				"version":           info.Version,
			}, nil
		})
	},
}

var queryRiskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Current risk parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(func(svc *service.TokenService) (interface{}, error) {
			params, err := svc.RiskParameters()
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"max_tx_value":           params.MaxTxValue.Dec(),
				"daily_limit":            params.DailyLimit.Dec(),
				"min_holding_period":     params.MinHoldingPeriod,
				"max_accounts_per_block": params.MaxAccountsPerBlock,
				"cooling_period":         params.CoolingPeriod,
			}, nil
		})
	},
}

var queryNonceCmd = &cobra.Command{
	Use:   "nonce [address]",
	Short: "Next nonce an account must sign with",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(func(svc *service.TokenService) (interface{}, error) {
			nonce, err := svc.Nonce(args[0])
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"address": args[0], "nonce": nonce}, nil
		})
	},
}

var queryRecordCmd = &cobra.Command{
	Use:   "record [sender] [nonce]",
	Short: "Transaction record of a sender at a nonce",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		nonce, err := parseUint(args[1])
		if err != nil {
			return err
		}
		return runQuery(func(svc *service.TokenService) (interface{}, error) {
			rec, err := svc.TransactionRecord(args[0], nonce)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"sender":    rec.Sender,
				"recipient": rec.Recipient,
				"nonce":     rec.Nonce,
				"timestamp": rec.Timestamp,
				"height":    rec.Height,
				"amount":    rec.Amount.Dec(),
			}, nil
		})
	},
}

var queryVolumeCmd = &cobra.Command{
	Use:   "volume [address]",
	Short: "Outbound volume in the rate window ending at --time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(func(svc *service.TokenService) (interface{}, error) {
			volume, err := svc.DailyVolume(args[0], currentEnv().Time)
			if err != nil {
				return nil, err
			}
			return amountOf(svc, args[0], volume)
		})
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(
		queryBalanceCmd,
		queryBalanceAtCmd,
		queryAllowanceCmd,
		querySchedulesCmd,
		queryClaimableCmd,
		queryInfoCmd,
		queryRiskCmd,
		queryNonceCmd,
		queryRecordCmd,
		queryVolumeCmd,
	)
}
