package cmd

import (
	"github.com/mezonai/tokencore/security/auth"
	"github.com/mezonai/tokencore/service"
	"github.com/mezonai/tokencore/utils"
	"github.com/spf13/cobra"
)

type VestingConfig struct {
	KeyFile     string
	From        string
	Beneficiary string
	Amount      string
	Start       uint64
	Cliff       uint64
	End         uint64
	Signature   string
}

var vestingConfig VestingConfig

var vestingCmd = &cobra.Command{
	Use:   "vesting",
	Short: "Create and claim vesting grants",
}

var vestingCreateCmd = &cobra.Command{
	Use:   "create [flags]",
	Short: "Escrow tokens into a vesting schedule (owner only)",
	Long: `Creates a vesting schedule for the beneficiary. The amount is debited from
the owner account and released linearly between --start and --end, with
nothing claimable before --cliff.

Example:
  vesting create --key keys/owner.yml --beneficiary bob --amount 1000 --start 0 --cliff 100 --end 1000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := utils.ParseAmount(vestingConfig.Amount)
		if err != nil {
			return err
		}
		s, err := optionalSigner(vestingConfig.KeyFile)
		if err != nil {
			return err
		}
		caller, err := identity(vestingConfig.From, s)
		if err != nil {
			return err
		}
		sig, err := resolveSignature(vestingConfig.Signature, s,
			auth.VestingMessage(caller, vestingConfig.Beneficiary, amount, vestingConfig.Start, vestingConfig.End))
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

		resp, err := svc.CreateVestingSchedule(service.VestingRequest{
			Caller:      caller,
			Beneficiary: vestingConfig.Beneficiary,
			Amount:      amount,
			Start:       vestingConfig.Start,
			Cliff:       vestingConfig.Cliff,
			End:         vestingConfig.End,
			Signature:   sig,
		}, env)
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var vestingClaimCmd = &cobra.Command{
	Use:   "claim [beneficiary]",
	Short: "Claim every vested amount of a beneficiary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		env, err := operationEnv(svc)
		if err != nil {
			return err
		}

		resp, err := svc.ClaimVesting(args[0], env)
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

func init() {
	rootCmd.AddCommand(vestingCmd)
	vestingCmd.AddCommand(vestingCreateCmd, vestingClaimCmd)

	vestingCreateCmd.Flags().StringVarP(&vestingConfig.KeyFile, "key", "k", "", "owner key file")
	vestingCreateCmd.Flags().StringVarP(&vestingConfig.From, "from", "f", "", "owner address (defaults to the key file address)")
	vestingCreateCmd.Flags().StringVarP(&vestingConfig.Beneficiary, "beneficiary", "b", "", "address receiving the grant")
	vestingCreateCmd.Flags().StringVarP(&vestingConfig.Amount, "amount", "a", "", "grant amount in base units")
	vestingCreateCmd.Flags().Uint64Var(&vestingConfig.Start, "start", 0, "vesting start (unix seconds)")
	vestingCreateCmd.Flags().Uint64Var(&vestingConfig.Cliff, "cliff", 0, "vesting cliff (unix seconds)")
	vestingCreateCmd.Flags().Uint64Var(&vestingConfig.End, "end", 0, "vesting end (unix seconds)")
	vestingCreateCmd.Flags().StringVarP(&vestingConfig.Signature, "signature", "s", "", "base58 signature over the vesting message")
	_ = vestingCreateCmd.MarkFlagRequired("beneficiary")
	_ = vestingCreateCmd.MarkFlagRequired("amount")
	_ = vestingCreateCmd.MarkFlagRequired("end")
}
