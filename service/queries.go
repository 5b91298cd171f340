package service

import (
	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/security/risk"
	"github.com/mezonai/tokencore/store"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/vesting"
)

func (s *TokenService) Balance(addr string) (*uint256.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Balance(addr)
}

// BalanceAt returns the balance of addr as of height
func (s *TokenService) BalanceAt(addr string, height uint64) (*uint256.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.GetBalance(addr, height)
}

func (s *TokenService) Allowance(owner, spender string) (*types.Allowance, error) {
	var allowance *types.Allowance
	err := s.query(func(stores *store.Stores) error {
		var err error
		allowance, err = stores.Allowances.Get(owner, spender)
		return err
	})
	return allowance, err
}

func (s *TokenService) VestingSchedules(addr string) ([]*types.VestingSchedule, error) {
	var schedules []*types.VestingSchedule
	err := s.query(func(stores *store.Stores) error {
		var err error
		schedules, err = stores.Vesting.List(addr)
		return err
	})
	return schedules, err
}

// ClaimableVesting returns what a claim by addr at now would pay out
func (s *TokenService) ClaimableVesting(addr string, now uint64) (*uint256.Int, error) {
	var total *uint256.Int
	err := s.query(func(stores *store.Stores) error {
		var err error
		total, err = vesting.NewEngine(stores.Vesting, nil, nil, s.opts.Vesting).TotalClaimable(addr, now)
		return err
	})
	return total, err
}

func (s *TokenService) TokenInfo() (*types.TokenConfig, error) {
	var cfg *types.TokenConfig
	err := s.query(func(stores *store.Stores) error {
		var err error
		if cfg, err = stores.Config.GetConfig(); err != nil {
			return err
		}
		if cfg == nil {
			return errors.ErrNotInitialized
		}
		return nil
	})
	return cfg, err
}

func (s *TokenService) RiskParameters() (*types.RiskParameters, error) {
	var params *types.RiskParameters
	err := s.query(func(stores *store.Stores) error {
		var err error
		if params, err = stores.Config.GetRiskParams(); err != nil {
			return err
		}
		if params == nil {
			return errors.ErrNotInitialized
		}
		return nil
	})
	return params, err
}

// Nonce returns the next nonce addr must sign with
// Head returns the highest height a committed operation executed at.
// ok is false on an empty store.
func (s *TokenService) Head() (height uint64, ok bool, err error) {
	err = s.query(func(stores *store.Stores) error {
		height, ok, err = stores.Config.GetHead()
		return err
	})
	return height, ok, err
}

func (s *TokenService) Nonce(addr string) (uint64, error) {
	var nonce uint64
	err := s.query(func(stores *store.Stores) error {
		state, err := stores.Nonces.Get(addr)
		if err != nil {
			return err
		}
		nonce = state.Nonce
		return nil
	})
	return nonce, err
}

func (s *TokenService) TransactionRecord(sender string, nonce uint64) (*types.TransactionRecord, error) {
	var record *types.TransactionRecord
	err := s.query(func(stores *store.Stores) error {
		var err error
		if record, err = stores.TxRecords.Get(sender, nonce); err != nil {
			return err
		}
		if record == nil {
			return errors.Newf(errors.ErrCodeInvalidRequest, "no transaction %d for %s", nonce, sender)
		}
		return nil
	})
	return record, err
}

// DailyVolume returns what sender transferred in the rate window ending at now
func (s *TokenService) DailyVolume(sender string, now uint64) (*uint256.Int, error) {
	var volume *uint256.Int
	err := s.query(func(stores *store.Stores) error {
		cfg, err := stores.Config.GetConfig()
		if err != nil {
			return err
		}
		if cfg == nil {
			return errors.ErrNotInitialized
		}
		volume, err = risk.NewEngine(stores, s.ledger).DailyVolume(sender, now, cfg.RateLimitWindow)
		return err
	})
	return volume, err
}
