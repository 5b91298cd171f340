package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mezonai/tokencore/logx"
	"github.com/mezonai/tokencore/security/auth"
	"github.com/mezonai/tokencore/service"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
	"github.com/mezonai/tokencore/vesting"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// LoadGenesisConfig reads and parses the genesis.yml file
func LoadGenesisConfig(path string) (*GenesisConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open genesis file: %w", err)
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfgFile); err != nil {
		return nil, fmt.Errorf("failed to decode genesis file %s: %w", path, err)
	}
	logx.Info("CONFIG", fmt.Sprintf("loaded genesis: token=%s balances=%d signers=%d",
		cfgFile.Config.Token.Symbol, len(cfgFile.Config.Balances), len(cfgFile.Config.Signers)))
	return &cfgFile.Config, nil
}

// InstantiateRequest converts the genesis file into the setup request,
// decoding amounts and public keys.
func (g *GenesisConfig) InstantiateRequest() (service.InstantiateRequest, error) {
	var req service.InstantiateRequest

	req.Token = types.TokenConfig{
		Name:            g.Token.Name,
		Symbol:          g.Token.Symbol,
		Decimals:        g.Token.Decimals,
		Owner:           g.Token.Owner,
		TransferLimit:   g.Token.TransferLimit,
		RateLimitWindow: g.Token.RateLimitWindow,
	}
	if g.Token.TotalSupply != "" {
		supply, err := utils.ParseAmount(g.Token.TotalSupply)
		if err != nil {
			return req, fmt.Errorf("token.total_supply: %w", err)
		}
		req.Token.TotalSupply = supply
	}

	maxTx, err := utils.ParseAmount(g.Risk.MaxTxValue)
	if err != nil {
		return req, fmt.Errorf("risk.max_tx_value: %w", err)
	}
	daily, err := utils.ParseAmount(g.Risk.DailyLimit)
	if err != nil {
		return req, fmt.Errorf("risk.daily_limit: %w", err)
	}
	req.Risk = types.RiskParameters{
		MaxTxValue:          maxTx,
		DailyLimit:          daily,
		MinHoldingPeriod:    g.Risk.MinHoldingPeriod,
		MaxAccountsPerBlock: g.Risk.MaxAccountsPerBlock,
		CoolingPeriod:       g.Risk.CoolingPeriod,
	}

	for i, b := range g.Balances {
		amount, err := utils.ParseAmount(b.Amount)
		if err != nil {
			return req, fmt.Errorf("balances[%d]: %w", i, err)
		}
		req.Balances = append(req.Balances, service.GenesisBalance{Address: b.Address, Amount: amount})
	}

	for i, s := range g.Signers {
		scheme := types.SignatureScheme(s.Scheme)
		pub, err := auth.DecodePublicKey(scheme, s.PublicKey)
		if err != nil {
			return req, fmt.Errorf("signers[%d] %s: %w", i, s.Address, err)
		}
		req.Signers = append(req.Signers, types.SignerKey{Address: s.Address, Scheme: scheme, PublicKey: pub})
	}
	return req, nil
}

// LoadNodeConfig reads the store, vesting and metrics sections of node.ini.
// A missing file yields the defaults.
func LoadNodeConfig(path string) (*NodeConfig, error) {
	nodeCfg := &NodeConfig{}
	nodeCfg.Store.Type = DefaultStoreType
	nodeCfg.Store.Directory = DefaultDataDir

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logx.Warn("CONFIG", "node config", path, "not found, using defaults")
		return nodeCfg, nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load node config %s: %w", path, err)
	}
	if err := cfg.Section(SectionStore).MapTo(&nodeCfg.Store); err != nil {
		return nil, fmt.Errorf("invalid [%s] section: %w", SectionStore, err)
	}
	if err := cfg.Section(SectionVesting).MapTo(&nodeCfg.Vesting); err != nil {
		return nil, fmt.Errorf("invalid [%s] section: %w", SectionVesting, err)
	}
	if err := cfg.Section(SectionMetrics).MapTo(&nodeCfg.Metrics); err != nil {
		return nil, fmt.Errorf("invalid [%s] section: %w", SectionMetrics, err)
	}
	if err := nodeCfg.Store.Validate(); err != nil {
		return nil, err
	}
	return nodeCfg, nil
}

// ServiceOptions maps node settings onto the service options
func (n *NodeConfig) ServiceOptions() service.Options {
	return service.Options{
		Vesting: vesting.Options{LegacyPercentRounding: n.Vesting.LegacyPercentRounding},
	}
}

// LoadKeyFile reads a signer key file and decodes its private key
func LoadKeyFile(path string) (*KeyFile, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read key file: %w", err)
	}
	var kf KeyFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, nil, fmt.Errorf("failed to decode key file %s: %w", path, err)
	}
	priv, err := auth.DecodePrivateKey(types.SignatureScheme(kf.Scheme), kf.PrivateKey)
	if err != nil {
		return nil, nil, err
	}
	return &kf, priv, nil
}

// WriteKeyFile stores kf at path, readable by the owner only
func WriteKeyFile(path string, kf *KeyFile) error {
	data, err := yaml.Marshal(kf)
	if err != nil {
		return fmt.Errorf("failed to encode key file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create key directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}
