package config

import (
	"github.com/mezonai/tokencore/store"
)

// TokenSection is the token block of genesis.yml
type TokenSection struct {
	Name            string `yaml:"name"`
	Symbol          string `yaml:"symbol"`
	Decimals        uint8  `yaml:"decimals"`
	Owner           string `yaml:"owner"`
	TotalSupply     string `yaml:"total_supply"`
	TransferLimit   uint64 `yaml:"transfer_limit"`
	RateLimitWindow uint64 `yaml:"rate_limit_window"`
}

// RiskSection holds the initial risk parameters. Amounts are decimal strings.
type RiskSection struct {
	MaxTxValue          string `yaml:"max_tx_value"`
	DailyLimit          string `yaml:"daily_limit"`
	MinHoldingPeriod    uint64 `yaml:"min_holding_period"`
	MaxAccountsPerBlock uint32 `yaml:"max_accounts_per_block"`
	CoolingPeriod       uint64 `yaml:"cooling_period"`
}

type Balance struct {
	Address string `yaml:"address"`
	Amount  string `yaml:"amount"`
}

// Signer registers a base58 encoded public key for an address
type Signer struct {
	Address   string `yaml:"address"`
	Scheme    string `yaml:"scheme"`
	PublicKey string `yaml:"public_key"`
}

// GenesisConfig holds the configuration from genesis.yml
type GenesisConfig struct {
	Token    TokenSection `yaml:"token"`
	Risk     RiskSection  `yaml:"risk"`
	Balances []Balance    `yaml:"balances"`
	Signers  []Signer     `yaml:"signers"`
}

// ConfigFile is the top-level structure for genesis.yml
type ConfigFile struct {
	Config GenesisConfig `yaml:"config"`
}

type VestingConfig struct {
	LegacyPercentRounding bool `ini:"legacy_percent_rounding"`
}

type MetricsConfig struct {
	Addr string `ini:"addr"`
}

// NodeConfig is the node.ini configuration
type NodeConfig struct {
	Store   store.StoreConfig
	Vesting VestingConfig
	Metrics MetricsConfig
}

// KeyFile is a signer key pair on disk. Keys are base58 encoded.
type KeyFile struct {
	Address    string `yaml:"address"`
	Scheme     string `yaml:"scheme"`
	PublicKey  string `yaml:"public_key"`
	PrivateKey string `yaml:"private_key"`
}
