package service

import (
	"strconv"

	"github.com/mezonai/tokencore/security/validation"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/vesting"
)

// CreateVestingSchedule escrows req.Amount from the owner into a new grant
// for req.Beneficiary.
func (s *TokenService) CreateVestingSchedule(req VestingRequest, env types.Env) (*types.Response, error) {
	return s.execute(ActionCreateVesting, env, true, func(op *opContext, resp *types.Response) error {
		if err := requireActive(op.cfg); err != nil {
			return err
		}
		if err := requireOwner(op.cfg, req.Caller); err != nil {
			return err
		}
		if err := validation.ValidateAddress(validation.BeneficiaryField, req.Beneficiary); err != nil {
			return err
		}

		schedule, err := op.vesting.CreateSchedule(vesting.CreateRequest{
			Caller:      req.Caller,
			Beneficiary: req.Beneficiary,
			Amount:      req.Amount,
			Start:       req.Start,
			Cliff:       req.Cliff,
			End:         req.End,
			Signature:   req.Signature,
		}, env)
		if err != nil {
			return err
		}

		resp.AddAttribute("from", req.Caller).
			AddAttribute("beneficiary", schedule.Beneficiary).
			AddAttribute("amount", schedule.TotalAmount.Dec()).
			AddAttribute("start", strconv.FormatUint(schedule.StartTime, 10)).
			AddAttribute("cliff", strconv.FormatUint(schedule.CliffTime, 10)).
			AddAttribute("end", strconv.FormatUint(schedule.EndTime, 10))
		return nil
	})
}

// ClaimVesting pays out everything vested for beneficiary as of env.Time
func (s *TokenService) ClaimVesting(beneficiary string, env types.Env) (*types.Response, error) {
	return s.execute(ActionClaimVesting, env, true, func(op *opContext, resp *types.Response) error {
		if err := requireActive(op.cfg); err != nil {
			return err
		}
		if err := validation.ValidateAddress(validation.BeneficiaryField, beneficiary); err != nil {
			return err
		}

		amount, err := op.vesting.Claim(beneficiary, env)
		if err != nil {
			return err
		}
		if err := op.risk.RecordReceipt(beneficiary, env, amount); err != nil {
			return err
		}

		resp.AddAttribute("beneficiary", beneficiary).
			AddAttribute("amount", amount.Dec())
		return nil
	})
}
