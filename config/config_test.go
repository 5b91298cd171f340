package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mezonai/tokencore/security/auth"
	"github.com/mezonai/tokencore/store"
	"github.com/mezonai/tokencore/types"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadGenesisConfig(t *testing.T) {
	pub, _, err := auth.GenerateKey(types.SchemeEd25519)
	require.NoError(t, err)

	path := writeFile(t, "genesis.yml", `config:
  token:
    name: Test Token
    symbol: TST
    decimals: 6
    owner: owner
    rate_limit_window: 86400
  risk:
    max_tx_value: "1_000"
    daily_limit: "5000"
    min_holding_period: 60
    max_accounts_per_block: 10
    cooling_period: 10
  balances:
    - address: owner
      amount: "100000"
  signers:
    - address: owner
      scheme: ed25519
      public_key: `+base58.Encode(pub)+`
`)

	genesis, err := LoadGenesisConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "TST", genesis.Token.Symbol)

	req, err := genesis.InstantiateRequest()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), req.Risk.MaxTxValue.Uint64())
	assert.Equal(t, uint64(5000), req.Risk.DailyLimit.Uint64())
	assert.Nil(t, req.Token.TotalSupply)
	require.Len(t, req.Balances, 1)
	assert.Equal(t, uint64(100000), req.Balances[0].Amount.Uint64())
	require.Len(t, req.Signers, 1)
	assert.Equal(t, []byte(pub), req.Signers[0].PublicKey)
}

func TestGenesisConfig_InvalidValues(t *testing.T) {
	valid := func() *GenesisConfig {
		return &GenesisConfig{
			Token:    TokenSection{Name: "T", Symbol: "T", Owner: "o", RateLimitWindow: 1},
			Risk:     RiskSection{MaxTxValue: "1", DailyLimit: "1"},
			Balances: []Balance{{Address: "o", Amount: "1"}},
		}
	}

	tests := []struct {
		name   string
		mutate func(g *GenesisConfig)
	}{
		{"bad max tx", func(g *GenesisConfig) { g.Risk.MaxTxValue = "lots" }},
		{"empty daily limit", func(g *GenesisConfig) { g.Risk.DailyLimit = "" }},
		{"bad supply", func(g *GenesisConfig) { g.Token.TotalSupply = "-1" }},
		{"bad balance", func(g *GenesisConfig) { g.Balances[0].Amount = "1.5" }},
		{"bad signer key", func(g *GenesisConfig) {
			g.Signers = []Signer{{Address: "o", Scheme: "ed25519", PublicKey: "abc"}}
		}},
		{"unknown scheme", func(g *GenesisConfig) {
			g.Signers = []Signer{{Address: "o", Scheme: "rsa", PublicKey: "abc"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid()
			tt.mutate(g)
			if _, err := g.InstantiateRequest(); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}

	_, err := valid().InstantiateRequest()
	assert.NoError(t, err)
}

func TestLoadGenesisConfig_UnknownField(t *testing.T) {
	path := writeFile(t, "genesis.yml", "config:\n  token:\n    nmae: typo\n")
	_, err := LoadGenesisConfig(path)
	assert.Error(t, err)
}

func TestLoadNodeConfig(t *testing.T) {
	path := writeFile(t, "node.ini", `[store]
type = redis
address = localhost:6379
redis_db = 2

[vesting]
legacy_percent_rounding = true

[metrics]
addr = :9100
`)

	cfg, err := LoadNodeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, store.RedisStoreType, cfg.Store.Type)
	assert.Equal(t, "localhost:6379", cfg.Store.Address)
	assert.Equal(t, 2, cfg.Store.RedisDB)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.True(t, cfg.ServiceOptions().Vesting.LegacyPercentRounding)
}

func TestLoadNodeConfig_Defaults(t *testing.T) {
	cfg, err := LoadNodeConfig(filepath.Join(t.TempDir(), "missing.ini"))
	require.NoError(t, err)
	assert.Equal(t, DefaultStoreType, cfg.Store.Type)
	assert.Equal(t, DefaultDataDir, cfg.Store.Directory)
	assert.False(t, cfg.Vesting.LegacyPercentRounding)

	path := writeFile(t, "node.ini", "[store]\ntype = cassandra\n")
	_, err = LoadNodeConfig(path)
	assert.Error(t, err)
}

func TestKeyFile(t *testing.T) {
	pub, priv, err := auth.GenerateKey(types.SchemeSecp256k1)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keys", "alice.yml")
	require.NoError(t, WriteKeyFile(path, &KeyFile{
		Address:    "alice",
		Scheme:     string(types.SchemeSecp256k1),
		PublicKey:  base58.Encode(pub),
		PrivateKey: base58.Encode(priv),
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	kf, loaded, err := LoadKeyFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", kf.Address)
	assert.Equal(t, priv, loaded)
}
