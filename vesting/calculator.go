package vesting

import (
	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

var hundred = uint256.NewInt(100)

// Claimable returns the amount of s that can be claimed at now:
//
//	now < cliff         0
//	now >= end          total - claimed
//	otherwise           total * (now - start) / (end - start) - claimed
//
// The ratio is applied in one truncating step.
func Claimable(s *types.VestingSchedule, now uint64) (*uint256.Int, error) {
	return claimable(s, now, func(total *uint256.Int, elapsed, duration uint64) (*uint256.Int, error) {
		return utils.MulDiv(total, uint256.NewInt(elapsed), uint256.NewInt(duration))
	})
}

// LegacyClaimable reproduces the two-step calculation of the pre-existing
// deployment: a whole percentage is computed first, then applied to total.
func LegacyClaimable(s *types.VestingSchedule, now uint64) (*uint256.Int, error) {
	return claimable(s, now, func(total *uint256.Int, elapsed, duration uint64) (*uint256.Int, error) {
		pct, err := utils.MulDiv(uint256.NewInt(elapsed), hundred, uint256.NewInt(duration))
		if err != nil {
			return nil, err
		}
		return utils.MulDiv(total, pct, hundred)
	})
}

type vestedFunc func(total *uint256.Int, elapsed, duration uint64) (*uint256.Int, error)

func claimable(s *types.VestingSchedule, now uint64, vested vestedFunc) (*uint256.Int, error) {
	if now < s.CliffTime {
		return uint256.NewInt(0), nil
	}
	if now >= s.EndTime {
		return utils.CheckedSub(s.TotalAmount, s.ClaimedAmount)
	}
	amount, err := vested(s.TotalAmount, utils.Elapsed(s.StartTime, now), s.EndTime-s.StartTime)
	if err != nil {
		return nil, err
	}
	return utils.SaturatingSub(amount, s.ClaimedAmount), nil
}
