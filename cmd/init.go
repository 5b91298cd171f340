package cmd

import (
	"github.com/mezonai/tokencore/config"
	"github.com/mezonai/tokencore/logx"
	"github.com/spf13/cobra"
)

var genesisPath string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Instantiate the ledger from a genesis file",
	Long: `Writes the token configuration, risk parameters, signer keys and initial
balances described by the genesis file into the configured store.

Example:
  init --genesis config/genesis.yml --config config/node.ini`,
	RunE: func(cmd *cobra.Command, args []string) error {
		genesis, err := config.LoadGenesisConfig(genesisPath)
		if err != nil {
			return err
		}
		req, err := genesis.InstantiateRequest()
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

		resp, err := svc.Instantiate(req, env)
		if err != nil {
			return err
		}
		logx.Info("INIT", "ledger instantiated for", genesis.Token.Symbol)
		return printJSON(resp)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&genesisPath, "genesis", "g", config.DefaultGenesisPath, "genesis file (yaml)")
}
