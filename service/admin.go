package service

import (
	"strconv"

	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/monitoring"
	"github.com/mezonai/tokencore/security/auth"
	"github.com/mezonai/tokencore/security/risk"
	"github.com/mezonai/tokencore/security/validation"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// Instantiate writes the config and risk singletons, registers the genesis
// signers and credits the genesis balances at height 0. Genesis funds carry
// no receipt, so they are never held.
func (s *TokenService) Instantiate(req InstantiateRequest, env types.Env) (*types.Response, error) {
	return s.execute(ActionInstantiate, env, false, func(op *opContext, resp *types.Response) error {
		existing, err := op.stores.Config.GetConfig()
		if err != nil {
			return err
		}
		if existing != nil {
			return errors.ErrAlreadyInitialized
		}

		cfg := req.Token
		if err := validateTokenConfig(&cfg); err != nil {
			return err
		}
		params := req.Risk
		if err := risk.ValidateParams(&params); err != nil {
			return err
		}

		for i := range req.Signers {
			if err := registerSigner(op, &req.Signers[i]); err != nil {
				return err
			}
		}

		supply := uint256.NewInt(0)
		for _, b := range req.Balances {
			if err := validation.ValidateAddress(validation.AddressField, b.Address); err != nil {
				return err
			}
			if err := validation.ValidateAmount(validation.AmountField, b.Amount); err != nil {
				return err
			}
			if supply, err = utils.CheckedAdd(supply, b.Amount); err != nil {
				return err
			}
			if err := op.session.Credit(b.Address, b.Amount, 0); err != nil {
				return err
			}
		}
		if supply.Gt(utils.MaxAmount) {
			return errors.Newf(errors.ErrCodeOverflow, "total supply exceeds %s", utils.MaxAmount.Dec())
		}

		if cfg.TotalSupply != nil && !cfg.TotalSupply.IsZero() && !cfg.TotalSupply.Eq(supply) {
			return errors.Newf(errors.ErrCodeInvalidRequest,
				"total supply %s does not match genesis balances %s", cfg.TotalSupply.Dec(), supply.Dec())
		}
		cfg.TotalSupply = supply
		cfg.Paused = false
		cfg.Version = Version

		if err := op.stores.Config.PutConfig(&cfg); err != nil {
			return err
		}
		if err := op.stores.Config.PutRiskParams(&params); err != nil {
			return err
		}

		resp.AddAttribute("name", cfg.Name).
			AddAttribute("symbol", cfg.Symbol).
			AddAttribute("owner", cfg.Owner).
			AddAttribute("total_supply", supply.Dec())
		return nil
	})
}

// UpdateRiskParameters replaces the risk limits. Owner only.
func (s *TokenService) UpdateRiskParameters(caller string, params types.RiskParameters, env types.Env) (*types.Response, error) {
	return s.execute(ActionUpdateRisk, env, true, func(op *opContext, resp *types.Response) error {
		if err := requireOwner(op.cfg, caller); err != nil {
			return err
		}
		if err := risk.ValidateParams(&params); err != nil {
			return err
		}
		if err := op.stores.Config.PutRiskParams(&params); err != nil {
			return err
		}

		resp.AddAttribute("max_tx_value", params.MaxTxValue.Dec()).
			AddAttribute("daily_limit", params.DailyLimit.Dec()).
			AddAttribute("min_holding_period", strconv.FormatUint(params.MinHoldingPeriod, 10)).
			AddAttribute("max_accounts_per_block", strconv.FormatUint(uint64(params.MaxAccountsPerBlock), 10)).
			AddAttribute("cooling_period", strconv.FormatUint(params.CoolingPeriod, 10))
		return nil
	})
}

func (s *TokenService) Pause(caller string, env types.Env) (*types.Response, error) {
	return s.setPaused(ActionPause, caller, true, env)
}

func (s *TokenService) Unpause(caller string, env types.Env) (*types.Response, error) {
	return s.setPaused(ActionUnpause, caller, false, env)
}

func (s *TokenService) setPaused(action, caller string, paused bool, env types.Env) (*types.Response, error) {
	resp, err := s.execute(action, env, true, func(op *opContext, resp *types.Response) error {
		if err := requireOwner(op.cfg, caller); err != nil {
			return err
		}
		op.cfg.Paused = paused
		if err := op.stores.Config.PutConfig(op.cfg); err != nil {
			return err
		}
		resp.AddAttribute("paused", strconv.FormatBool(paused))
		return nil
	})
	if err == nil {
		monitoring.SetPaused(paused)
	}
	return resp, err
}

// RegisterSigner adds a public key to the signer registry. Owner only;
// an address keeps its first registered key.
func (s *TokenService) RegisterSigner(caller string, key types.SignerKey, env types.Env) (*types.Response, error) {
	return s.execute(ActionRegisterSigner, env, true, func(op *opContext, resp *types.Response) error {
		if err := requireOwner(op.cfg, caller); err != nil {
			return err
		}
		if err := registerSigner(op, &key); err != nil {
			return err
		}
		resp.AddAttribute("address", key.Address).
			AddAttribute("scheme", string(key.Scheme))
		return nil
	})
}

func registerSigner(op *opContext, key *types.SignerKey) error {
	if err := validation.ValidateAddress(validation.AddressField, key.Address); err != nil {
		return err
	}
	if !key.Scheme.Valid() {
		return errors.Newf(errors.ErrCodeInvalidRequest, "unsupported signature scheme %q", key.Scheme)
	}
	if err := auth.ParsePublicKey(key.Scheme, key.PublicKey); err != nil {
		return errors.Newf(errors.ErrCodeInvalidRequest, "invalid public key for %s: %v", key.Address, err)
	}
	exists, err := op.stores.Signers.Exists(key.Address)
	if err != nil {
		return err
	}
	if exists {
		return errors.Newf(errors.ErrCodeSignerAlreadyRegistered, "%s: %s", errors.ErrMsgSignerAlreadyRegistered, key.Address)
	}
	return op.stores.Signers.Put(key)
}

func validateTokenConfig(cfg *types.TokenConfig) error {
	if err := validation.ValidateShortText(validation.NameField, cfg.Name); err != nil {
		return err
	}
	if err := validation.ValidateShortText(validation.SymbolField, cfg.Symbol); err != nil {
		return err
	}
	if err := validation.ValidateAddress(validation.OwnerField, cfg.Owner); err != nil {
		return err
	}
	if cfg.RateLimitWindow == 0 {
		return errors.Newf(errors.ErrCodeInvalidRequest, "rate_limit_window must be greater than zero")
	}
	return nil
}
