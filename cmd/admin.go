package cmd

import (
	"github.com/mezonai/tokencore/security/auth"
	"github.com/mezonai/tokencore/service"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
	"github.com/spf13/cobra"
)

type RiskFlags struct {
	MaxTxValue          string
	DailyLimit          string
	MinHoldingPeriod    uint64
	MaxAccountsPerBlock uint32
	CoolingPeriod       uint64
}

var (
	adminCaller string
	riskFlags   RiskFlags
	signerFlags struct {
		Address   string
		Scheme    string
		PublicKey string
	}
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Owner-only ledger administration",
}

func runAdmin(op func(svc *service.TokenService, env types.Env) (*types.Response, error)) error {
	svc, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	env, err := operationEnv(svc)
	if err != nil {
		return err
	}
	resp, err := op(svc, env)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Halt transfers, approvals and vesting",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdmin(func(svc *service.TokenService, env types.Env) (*types.Response, error) {
			return svc.Pause(adminCaller, env)
		})
	},
}

var unpauseCmd = &cobra.Command{
	Use:   "unpause",
	Short: "Resume normal operation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdmin(func(svc *service.TokenService, env types.Env) (*types.Response, error) {
			return svc.Unpause(adminCaller, env)
		})
	},
}

var updateRiskCmd = &cobra.Command{
	Use:   "update-risk",
	Short: "Replace the risk parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		maxTx, err := utils.ParseAmount(riskFlags.MaxTxValue)
		if err != nil {
			return err
		}
		daily, err := utils.ParseAmount(riskFlags.DailyLimit)
		if err != nil {
			return err
		}
		params := types.RiskParameters{
			MaxTxValue:          maxTx,
			DailyLimit:          daily,
			MinHoldingPeriod:    riskFlags.MinHoldingPeriod,
			MaxAccountsPerBlock: riskFlags.MaxAccountsPerBlock,
			CoolingPeriod:       riskFlags.CoolingPeriod,
		}
		return runAdmin(func(svc *service.TokenService, env types.Env) (*types.Response, error) {
			return svc.UpdateRiskParameters(adminCaller, params, env)
		})
	},
}

var registerSignerCmd = &cobra.Command{
	Use:   "register-signer",
	Short: "Register the public key an address signs with",
	RunE: func(cmd *cobra.Command, args []string) error {
		scheme := types.SignatureScheme(signerFlags.Scheme)
		pub, err := auth.DecodePublicKey(scheme, signerFlags.PublicKey)
		if err != nil {
			return err
		}
		key := types.SignerKey{Address: signerFlags.Address, Scheme: scheme, PublicKey: pub}
		return runAdmin(func(svc *service.TokenService, env types.Env) (*types.Response, error) {
			return svc.RegisterSigner(adminCaller, key, env)
		})
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(pauseCmd, unpauseCmd, updateRiskCmd, registerSignerCmd)

	adminCmd.PersistentFlags().StringVar(&adminCaller, "caller", "", "address of the calling account")
	_ = adminCmd.MarkPersistentFlagRequired("caller")

	updateRiskCmd.Flags().StringVar(&riskFlags.MaxTxValue, "max-tx-value", "", "largest single transfer")
	updateRiskCmd.Flags().StringVar(&riskFlags.DailyLimit, "daily-limit", "", "largest outbound volume per rate window")
	updateRiskCmd.Flags().Uint64Var(&riskFlags.MinHoldingPeriod, "min-holding-period", 0, "seconds received funds stay held")
	updateRiskCmd.Flags().Uint32Var(&riskFlags.MaxAccountsPerBlock, "max-accounts-per-block", 0, "distinct senders allowed per height")
	updateRiskCmd.Flags().Uint64Var(&riskFlags.CoolingPeriod, "cooling-period", 0, "seconds between transfers of one account")

	registerSignerCmd.Flags().StringVar(&signerFlags.Address, "address", "", "address the key belongs to")
	registerSignerCmd.Flags().StringVar(&signerFlags.Scheme, "scheme", string(types.SchemeEd25519), "ed25519 or secp256k1")
	registerSignerCmd.Flags().StringVar(&signerFlags.PublicKey, "public-key", "", "base58 public key")
}
