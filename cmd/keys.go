package cmd

import (
	"fmt"

	"github.com/mezonai/tokencore/config"
	"github.com/mezonai/tokencore/logx"
	"github.com/mezonai/tokencore/security/auth"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
)

type KeysConfig struct {
	Scheme  string
	Address string
	Out     string
	KeyFile string

	To          string
	Beneficiary string
	Spender     string
	Amount      string
	Nonce       uint64
	Start       uint64
	End         uint64
}

var keysConfig KeysConfig

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate signer keys and sign messages offline",
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a key pair and write it to a key file",
	Long: `Generates a key pair for --scheme and writes it, base58 encoded, to --out.
Register the printed public key with "admin register-signer" or list it in
the genesis signers.

Example:
  keys generate --scheme secp256k1 --address alice --out keys/alice.yml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scheme := types.SignatureScheme(keysConfig.Scheme)
		pub, priv, err := auth.GenerateKey(scheme)
		if err != nil {
			return err
		}
		kf := &config.KeyFile{
			Address:    keysConfig.Address,
			Scheme:     string(scheme),
			PublicKey:  base58.Encode(pub),
			PrivateKey: base58.Encode(priv),
		}
		if err := config.WriteKeyFile(keysConfig.Out, kf); err != nil {
			return err
		}
		logx.Info("KEYS", "wrote key file", keysConfig.Out)
		return printJSON(map[string]string{
			"address":    kf.Address,
			"scheme":     kf.Scheme,
			"public_key": kf.PublicKey,
		})
	},
}

func signAndPrint(message []byte) error {
	s, err := loadSigner(keysConfig.KeyFile)
	if err != nil {
		return err
	}
	sig, err := s.sign(message)
	if err != nil {
		return err
	}
	fmt.Println(base58.Encode(sig))
	return nil
}

func signerAddress() (string, error) {
	kf, _, err := config.LoadKeyFile(keysConfig.KeyFile)
	if err != nil {
		return "", err
	}
	return kf.Address, nil
}

var signTransferCmd = &cobra.Command{
	Use:   "sign-transfer",
	Short: "Sign a transfer message",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := utils.ParseAmount(keysConfig.Amount)
		if err != nil {
			return err
		}
		sender, err := signerAddress()
		if err != nil {
			return err
		}
		return signAndPrint(auth.TransferMessage(sender, keysConfig.To, amount, keysConfig.Nonce))
	},
}

var signVestingCmd = &cobra.Command{
	Use:   "sign-vesting",
	Short: "Sign a vesting schedule message",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := utils.ParseAmount(keysConfig.Amount)
		if err != nil {
			return err
		}
		caller, err := signerAddress()
		if err != nil {
			return err
		}
		return signAndPrint(auth.VestingMessage(caller, keysConfig.Beneficiary, amount, keysConfig.Start, keysConfig.End))
	},
}

var signApproveCmd = &cobra.Command{
	Use:   "sign-approve",
	Short: "Sign an approve message",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := utils.ParseAmount(keysConfig.Amount)
		if err != nil {
			return err
		}
		owner, err := signerAddress()
		if err != nil {
			return err
		}
		return signAndPrint(auth.ApproveMessage(owner, keysConfig.Spender, amount, keysConfig.Nonce))
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysGenerateCmd, signTransferCmd, signVestingCmd, signApproveCmd)

	keysGenerateCmd.Flags().StringVar(&keysConfig.Scheme, "scheme", string(types.SchemeEd25519), "ed25519 or secp256k1")
	keysGenerateCmd.Flags().StringVar(&keysConfig.Address, "address", "", "address the key signs for")
	keysGenerateCmd.Flags().StringVarP(&keysConfig.Out, "out", "o", "", "key file to write")
	_ = keysGenerateCmd.MarkFlagRequired("address")
	_ = keysGenerateCmd.MarkFlagRequired("out")

	for _, c := range []*cobra.Command{signTransferCmd, signVestingCmd, signApproveCmd} {
		c.Flags().StringVarP(&keysConfig.KeyFile, "key", "k", "", "signer key file")
		c.Flags().StringVarP(&keysConfig.Amount, "amount", "a", "", "amount in base units")
		_ = c.MarkFlagRequired("key")
		_ = c.MarkFlagRequired("amount")
	}
	signTransferCmd.Flags().StringVarP(&keysConfig.To, "to", "t", "", "address of recipient")
	signTransferCmd.Flags().Uint64VarP(&keysConfig.Nonce, "nonce", "n", 0, "sender nonce")
	signVestingCmd.Flags().StringVarP(&keysConfig.Beneficiary, "beneficiary", "b", "", "address receiving the grant")
	signVestingCmd.Flags().Uint64Var(&keysConfig.Start, "start", 0, "vesting start (unix seconds)")
	signVestingCmd.Flags().Uint64Var(&keysConfig.End, "end", 0, "vesting end (unix seconds)")
	signApproveCmd.Flags().StringVar(&keysConfig.Spender, "spender", "", "address allowed to spend")
	signApproveCmd.Flags().Uint64VarP(&keysConfig.Nonce, "nonce", "n", 0, "owner nonce")
}
