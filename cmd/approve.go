package cmd

import (
	"github.com/mezonai/tokencore/security/auth"
	"github.com/mezonai/tokencore/service"
	"github.com/mezonai/tokencore/utils"
	"github.com/spf13/cobra"
)

type ApproveConfig struct {
	KeyFile   string
	From      string
	Spender   string
	Amount    string
	Nonce     uint64
	Signature string
}

var approveConfig ApproveConfig

var approveCmd = &cobra.Command{
	Use:   "approve [flags]",
	Short: "Set the allowance of a spender",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := utils.ParseAmount(approveConfig.Amount)
		if err != nil {
			return err
		}
		s, err := optionalSigner(approveConfig.KeyFile)
		if err != nil {
			return err
		}
		owner, err := identity(approveConfig.From, s)
		if err != nil {
			return err
		}

		svc, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		env, err := operationEnv(svc)
		if err != nil {
			return err
		}

		nonce := approveConfig.Nonce
		if !cmd.Flags().Changed("nonce") {
			if nonce, err = svc.Nonce(owner); err != nil {
				return err
			}
		}
		sig, err := resolveSignature(approveConfig.Signature, s,
			auth.ApproveMessage(owner, approveConfig.Spender, amount, nonce))
		if err != nil {
			return err
		}

		resp, err := svc.Approve(service.ApproveRequest{
			Owner:     owner,
			Spender:   approveConfig.Spender,
			Amount:    amount,
			Nonce:     &nonce,
			Signature: sig,
		}, env)
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

func init() {
	rootCmd.AddCommand(approveCmd)

	approveCmd.Flags().StringVarP(&approveConfig.KeyFile, "key", "k", "", "owner key file")
	approveCmd.Flags().StringVarP(&approveConfig.From, "from", "f", "", "owner address (defaults to the key file address)")
	approveCmd.Flags().StringVar(&approveConfig.Spender, "spender", "", "address allowed to spend")
	approveCmd.Flags().StringVarP(&approveConfig.Amount, "amount", "a", "", "allowance in base units")
	approveCmd.Flags().Uint64VarP(&approveConfig.Nonce, "nonce", "n", 0, "owner nonce (default: current nonce)")
	approveCmd.Flags().StringVarP(&approveConfig.Signature, "signature", "s", "", "base58 signature over the approve message")
	_ = approveCmd.MarkFlagRequired("spender")
	_ = approveCmd.MarkFlagRequired("amount")
}
