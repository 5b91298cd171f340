package risk

import (
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// ValidateParams requires every limit to be positive and amounts to stay
// within MaxAmount.
func ValidateParams(params *types.RiskParameters) error {
	switch {
	case params == nil:
		return errors.ErrInvalidRiskParameters
	case params.MaxTxValue == nil || params.MaxTxValue.IsZero():
		return errors.Newf(errors.ErrCodeInvalidRiskParameters, "max_tx_value must be greater than zero")
	case params.DailyLimit == nil || params.DailyLimit.IsZero():
		return errors.Newf(errors.ErrCodeInvalidRiskParameters, "daily_limit must be greater than zero")
	case params.MaxTxValue.Gt(utils.MaxAmount) || params.DailyLimit.Gt(utils.MaxAmount):
		return errors.Newf(errors.ErrCodeInvalidRiskParameters, "limits must not exceed %s", utils.MaxAmount.Dec())
	case params.MinHoldingPeriod == 0:
		return errors.Newf(errors.ErrCodeInvalidRiskParameters, "min_holding_period must be greater than zero")
	case params.MaxAccountsPerBlock == 0:
		return errors.Newf(errors.ErrCodeInvalidRiskParameters, "max_accounts_per_block must be greater than zero")
	case params.CoolingPeriod == 0:
		return errors.Newf(errors.ErrCodeInvalidRiskParameters, "cooling_period must be greater than zero")
	}
	return nil
}
