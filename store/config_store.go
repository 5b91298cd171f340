package store

import (
	"fmt"

	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/jsonx"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// ConfigStore persists the token configuration and risk parameter singletons.
type ConfigStore interface {
	GetConfig() (*types.TokenConfig, error)
	PutConfig(cfg *types.TokenConfig) error
	GetRiskParams() (*types.RiskParameters, error)
	PutRiskParams(params *types.RiskParameters) error
	GetHead() (height uint64, ok bool, err error)
	PutHead(height uint64) error
}

type configRecord struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Decimals        uint8  `json:"decimals"`
	TotalSupply     string `json:"total_supply"`
	Owner           string `json:"owner"`
	Paused          bool   `json:"paused"`
	TransferLimit   uint64 `json:"transfer_limit"`
	RateLimitWindow uint64 `json:"rate_limit_window"`
	Version         string `json:"version"`
}

type riskParamsRecord struct {
	MaxTxValue          string `json:"max_tx_value"`
	DailyLimit          string `json:"daily_limit"`
	MinHoldingPeriod    uint64 `json:"min_holding_period"`
	MaxAccountsPerBlock uint32 `json:"max_accounts_per_block"`
	CoolingPeriod       uint64 `json:"cooling_period"`
}

type headRecord struct {
	Height uint64 `json:"height"`
}

type GenericConfigStore struct {
	provider db.DatabaseProvider
}

func NewGenericConfigStore(provider db.DatabaseProvider) *GenericConfigStore {
	return &GenericConfigStore{provider: provider}
}

// GetConfig returns the stored config, nil when the ledger is not instantiated
func (s *GenericConfigStore) GetConfig() (*types.TokenConfig, error) {
	data, err := s.provider.Get([]byte(KeyConfig))
	if err != nil {
		return nil, fmt.Errorf("could not get config from db: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var rec configRecord
	if err := jsonx.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &types.TokenConfig{
		Name:            rec.Name,
		Symbol:          rec.Symbol,
		Decimals:        rec.Decimals,
		TotalSupply:     utils.Uint256FromString(rec.TotalSupply),
		Owner:           rec.Owner,
		Paused:          rec.Paused,
		TransferLimit:   rec.TransferLimit,
		RateLimitWindow: rec.RateLimitWindow,
		Version:         rec.Version,
	}, nil
}

func (s *GenericConfigStore) PutConfig(cfg *types.TokenConfig) error {
	data, err := jsonx.Marshal(configRecord{
		Name:            cfg.Name,
		Symbol:          cfg.Symbol,
		Decimals:        cfg.Decimals,
		TotalSupply:     utils.Uint256ToString(cfg.TotalSupply),
		Owner:           cfg.Owner,
		Paused:          cfg.Paused,
		TransferLimit:   cfg.TransferLimit,
		RateLimitWindow: cfg.RateLimitWindow,
		Version:         cfg.Version,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := s.provider.Put([]byte(KeyConfig), data); err != nil {
		return fmt.Errorf("failed to write config to db: %w", err)
	}
	return nil
}

// GetRiskParams returns the stored risk parameters, nil when absent
func (s *GenericConfigStore) GetRiskParams() (*types.RiskParameters, error) {
	data, err := s.provider.Get([]byte(KeyRiskParams))
	if err != nil {
		return nil, fmt.Errorf("could not get risk parameters from db: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var rec riskParamsRecord
	if err := jsonx.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal risk parameters: %w", err)
	}
	return &types.RiskParameters{
		MaxTxValue:          utils.Uint256FromString(rec.MaxTxValue),
		DailyLimit:          utils.Uint256FromString(rec.DailyLimit),
		MinHoldingPeriod:    rec.MinHoldingPeriod,
		MaxAccountsPerBlock: rec.MaxAccountsPerBlock,
		CoolingPeriod:       rec.CoolingPeriod,
	}, nil
}

func (s *GenericConfigStore) PutRiskParams(params *types.RiskParameters) error {
	data, err := jsonx.Marshal(riskParamsRecord{
		MaxTxValue:          utils.Uint256ToString(params.MaxTxValue),
		DailyLimit:          utils.Uint256ToString(params.DailyLimit),
		MinHoldingPeriod:    params.MinHoldingPeriod,
		MaxAccountsPerBlock: params.MaxAccountsPerBlock,
		CoolingPeriod:       params.CoolingPeriod,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal risk parameters: %w", err)
	}
	if err := s.provider.Put([]byte(KeyRiskParams), data); err != nil {
		return fmt.Errorf("failed to write risk parameters to db: %w", err)
	}
	return nil
}

// GetHead returns the highest height any committed operation executed at.
// ok is false before the first commit.
func (s *GenericConfigStore) GetHead() (uint64, bool, error) {
	data, err := s.provider.Get([]byte(KeyHead))
	if err != nil {
		return 0, false, fmt.Errorf("could not get head from db: %w", err)
	}
	if data == nil {
		return 0, false, nil
	}

	var rec headRecord
	if err := jsonx.Unmarshal(data, &rec); err != nil {
		return 0, false, fmt.Errorf("failed to unmarshal head: %w", err)
	}
	return rec.Height, true, nil
}

func (s *GenericConfigStore) PutHead(height uint64) error {
	data, err := jsonx.Marshal(headRecord{Height: height})
	if err != nil {
		return fmt.Errorf("failed to marshal head: %w", err)
	}
	if err := s.provider.Put([]byte(KeyHead), data); err != nil {
		return fmt.Errorf("failed to write head to db: %w", err)
	}
	return nil
}
