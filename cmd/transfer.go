package cmd

import (
	"github.com/mezonai/tokencore/security/auth"
	"github.com/mezonai/tokencore/service"
	"github.com/mezonai/tokencore/utils"
	"github.com/spf13/cobra"
)

type TransferConfig struct {
	KeyFile   string
	From      string
	To        string
	Amount    string
	Nonce     uint64
	Signature string
}

var transferConfig TransferConfig

var transferCmd = &cobra.Command{
	Use:   "transfer [flags]",
	Short: "Transfer tokens to another account",
	Long: `Sends tokens from the signing account to the recipient. The transfer is
signed with the key file given by --key, or carries a pre-computed base58
signature given by --signature together with --from.

Examples:
  # Transfer 1000 base units signing with a key file
  transfer --to bob --amount 1_000 --key keys/alice.yml --time 1700000000

  # Submit a signature produced by "keys sign-transfer"
  transfer --from alice --to bob --amount 500 --nonce 3 --signature 3xQf...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := utils.ParseAmount(transferConfig.Amount)
		if err != nil {
			return err
		}
		s, err := optionalSigner(transferConfig.KeyFile)
		if err != nil {
			return err
		}
		sender, err := identity(transferConfig.From, s)
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

		nonce := transferConfig.Nonce
		if !cmd.Flags().Changed("nonce") {
			if nonce, err = svc.Nonce(sender); err != nil {
				return err
			}
		}
		sig, err := resolveSignature(transferConfig.Signature, s,
			auth.TransferMessage(sender, transferConfig.To, amount, nonce))
		if err != nil {
			return err
		}

		resp, err := svc.Transfer(service.TransferRequest{
			Sender:    sender,
			Recipient: transferConfig.To,
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
	rootCmd.AddCommand(transferCmd)

	transferCmd.Flags().StringVarP(&transferConfig.KeyFile, "key", "k", "", "sender key file")
	transferCmd.Flags().StringVarP(&transferConfig.From, "from", "f", "", "sender address (defaults to the key file address)")
	transferCmd.Flags().StringVarP(&transferConfig.To, "to", "t", "", "address of recipient")
	transferCmd.Flags().StringVarP(&transferConfig.Amount, "amount", "a", "", "amount in base units")
	transferCmd.Flags().Uint64VarP(&transferConfig.Nonce, "nonce", "n", 0, "sender nonce (default: current nonce)")
	transferCmd.Flags().StringVarP(&transferConfig.Signature, "signature", "s", "", "base58 signature over the transfer message")
	_ = transferCmd.MarkFlagRequired("to")
	_ = transferCmd.MarkFlagRequired("amount")
}
