package risk

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/store"
	"github.com/mezonai/tokencore/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticBalances map[string]uint64

func (b staticBalances) GetBalance(addr string, _ uint64) (*uint256.Int, error) {
	return uint256.NewInt(b[addr]), nil
}

type harness struct {
	engine   *Engine
	stores   *store.Stores
	balances staticBalances
	nonce    map[string]uint64
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	p, err := db.NewMemLevelDBProvider()
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	stores := store.NewStores(p)
	balances := staticBalances{"alice": 1_000_000}
	return &harness{
		engine:   NewEngine(stores, balances),
		stores:   stores,
		balances: balances,
		nonce:    make(map[string]uint64),
	}
}

// transfer validates and, on success, records a transfer the way the
// service pipeline does.
func (h *harness) transfer(sender string, amount uint64, env types.Env, policy Policy) error {
	amt := uint256.NewInt(amount)
	if err := h.engine.Validate(sender, amt, env, policy); err != nil {
		return err
	}
	n := h.nonce[sender]
	h.nonce[sender] = n + 1
	return h.engine.RecordTransfer(&types.TransactionRecord{
		Sender: sender, Recipient: "bob", Nonce: n, Timestamp: env.Time, Height: env.Height, Amount: amt,
	})
}

func testPolicy() Policy {
	return Policy{
		Params: &types.RiskParameters{
			MaxTxValue:          uint256.NewInt(1000),
			DailyLimit:          uint256.NewInt(5000),
			MinHoldingPeriod:    3600,
			MaxAccountsPerBlock: 100,
			CoolingPeriod:       10,
		},
		RateLimitWindow: 86400,
	}
}

func TestValidate_TransactionValueTooHigh(t *testing.T) {
	h := newHarness(t)
	err := h.transfer("alice", 1500, types.Env{Height: 1, Time: 100_000}, testPolicy())
	assert.ErrorIs(t, err, errors.ErrTransactionValueTooHigh)
}

func TestValidate_DailyLimitExceeded(t *testing.T) {
	h := newHarness(t)
	policy := testPolicy()
	policy.Params.MaxTxValue = uint256.NewInt(10_000)

	now := uint64(100_000)
	require.NoError(t, h.transfer("alice", 2000, types.Env{Height: 1, Time: now}, policy))
	require.NoError(t, h.transfer("alice", 2000, types.Env{Height: 2, Time: now + 60}, policy))
	err := h.transfer("alice", 2000, types.Env{Height: 3, Time: now + 120}, policy)
	assert.ErrorIs(t, err, errors.ErrDailyLimitExceeded)

	volume, err := h.engine.DailyVolume("alice", now+120, policy.RateLimitWindow)
	require.NoError(t, err)
	assert.Equal(t, uint64(4000), volume.Uint64())

	// the first transfer leaves the window exactly one window later
	volume, err = h.engine.DailyVolume("alice", now+policy.RateLimitWindow, policy.RateLimitWindow)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), volume.Uint64())
	require.NoError(t, h.transfer("alice", 2000, types.Env{Height: 4, Time: now + policy.RateLimitWindow}, policy))
}

func TestValidate_NonceOverflow(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.stores.Nonces.Put("alice", &store.AccountState{Nonce: math.MaxUint64}))
	err := h.engine.Validate("alice", uint256.NewInt(1), types.Env{Height: 1, Time: 100_000}, testPolicy())
	assert.ErrorIs(t, err, errors.ErrNonceOverflow)
}

func TestValidate_CoolingPeriod(t *testing.T) {
	h := newHarness(t)
	policy := testPolicy()
	now := uint64(100_000)

	require.NoError(t, h.transfer("alice", 10, types.Env{Height: 1, Time: now}, policy))
	err := h.transfer("alice", 10, types.Env{Height: 2, Time: now + 9}, policy)
	assert.ErrorIs(t, err, errors.ErrCoolingPeriod)
	require.NoError(t, h.transfer("alice", 10, types.Env{Height: 3, Time: now + 10}, policy))
}

func TestValidate_HoldingPeriod(t *testing.T) {
	h := newHarness(t)
	policy := testPolicy()
	h.balances["carol"] = 500
	now := uint64(100_000)

	// 400 of carol's 500 arrived just now and must age first
	require.NoError(t, h.engine.RecordReceipt("carol", types.Env{Height: 1, Time: now}, uint256.NewInt(400)))

	movable, err := h.engine.Movable("carol", types.Env{Height: 1, Time: now}, policy.Params.MinHoldingPeriod)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), movable.Uint64())

	err = h.engine.Validate("carol", uint256.NewInt(101), types.Env{Height: 2, Time: now + 1}, policy)
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)
	require.NoError(t, h.engine.Validate("carol", uint256.NewInt(100), types.Env{Height: 2, Time: now + 1}, policy))

	aged := now + policy.Params.MinHoldingPeriod
	require.NoError(t, h.engine.Validate("carol", uint256.NewInt(500), types.Env{Height: 3, Time: aged}, policy))
}

func TestValidate_HeldExceedsBalanceFloorsAtZero(t *testing.T) {
	h := newHarness(t)
	h.balances["dave"] = 50
	require.NoError(t, h.engine.RecordReceipt("dave", types.Env{Height: 1, Time: 10}, uint256.NewInt(80)))

	movable, err := h.engine.Movable("dave", types.Env{Height: 1, Time: 10}, 100)
	require.NoError(t, err)
	assert.True(t, movable.IsZero())
}

func TestValidate_TransferCountLimit(t *testing.T) {
	h := newHarness(t)
	policy := testPolicy()
	policy.TransferLimit = 2
	now := uint64(100_000)

	require.NoError(t, h.transfer("alice", 1, types.Env{Height: 1, Time: now}, policy))
	require.NoError(t, h.transfer("alice", 1, types.Env{Height: 2, Time: now + 10}, policy))
	err := h.transfer("alice", 1, types.Env{Height: 3, Time: now + 20}, policy)
	assert.ErrorIs(t, err, errors.ErrRateLimitExceeded)
}

func TestValidate_MaxAccountsPerBlock(t *testing.T) {
	h := newHarness(t)
	policy := testPolicy()
	policy.Params.MaxAccountsPerBlock = 2
	for _, a := range []string{"a1", "a2", "a3"} {
		h.balances[a] = 100
	}
	env := types.Env{Height: 9, Time: 100_000}

	require.NoError(t, h.transfer("a1", 1, env, policy))
	require.NoError(t, h.transfer("a2", 1, env, policy))
	err := h.transfer("a3", 1, env, policy)
	assert.ErrorIs(t, err, errors.ErrRateLimitExceeded)

	// a different height has room again
	require.NoError(t, h.transfer("a3", 1, types.Env{Height: 10, Time: 100_000}, policy))
}

func TestValidate_CheckOrder(t *testing.T) {
	h := newHarness(t)
	policy := testPolicy()
	require.NoError(t, h.stores.Nonces.Put("alice", &store.AccountState{Nonce: math.MaxUint64}))

	// value ceiling is checked before the nonce
	err := h.engine.Validate("alice", uint256.NewInt(1001), types.Env{Height: 1, Time: 1}, policy)
	assert.ErrorIs(t, err, errors.ErrTransactionValueTooHigh)

	// an empty account fails on funds only after the sequencing checks pass
	err = h.engine.Validate("nobody", uint256.NewInt(1), types.Env{Height: 1, Time: 1}, policy)
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)
}

func TestValidateParams(t *testing.T) {
	valid := func() *types.RiskParameters { return testPolicy().Params.Clone() }

	tests := []struct {
		name    string
		mutate  func(p *types.RiskParameters)
		wantErr bool
	}{
		{"valid", func(p *types.RiskParameters) {}, false},
		{"zero max tx", func(p *types.RiskParameters) { p.MaxTxValue = uint256.NewInt(0) }, true},
		{"zero daily", func(p *types.RiskParameters) { p.DailyLimit = uint256.NewInt(0) }, true},
		{"zero holding", func(p *types.RiskParameters) { p.MinHoldingPeriod = 0 }, true},
		{"zero accounts", func(p *types.RiskParameters) { p.MaxAccountsPerBlock = 0 }, true},
		{"zero cooling", func(p *types.RiskParameters) { p.CoolingPeriod = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			err := ValidateParams(p)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidRiskParameters)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
