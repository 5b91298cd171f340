package store

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) (*Stores, db.IterableProvider) {
	t.Helper()
	p, err := db.NewMemLevelDBProvider()
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return NewStores(p), p
}

func TestConfigStore_RoundTrip(t *testing.T) {
	s, _ := newTestStores(t)

	cfg, err := s.Config.GetConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg, "config must be absent before instantiation")

	want := &types.TokenConfig{
		Name:            "Mezon Token",
		Symbol:          "MZN",
		Decimals:        6,
		TotalSupply:     uint256.NewInt(1_000_000),
		Owner:           "owner",
		TransferLimit:   10,
		RateLimitWindow: 86400,
		Version:         "1",
	}
	require.NoError(t, s.Config.PutConfig(want))
	got, err := s.Config.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	params := &types.RiskParameters{
		MaxTxValue:          uint256.NewInt(1000),
		DailyLimit:          uint256.NewInt(5000),
		MinHoldingPeriod:    60,
		MaxAccountsPerBlock: 100,
		CoolingPeriod:       10,
	}
	require.NoError(t, s.Config.PutRiskParams(params))
	gotParams, err := s.Config.GetRiskParams()
	require.NoError(t, err)
	assert.Equal(t, params, gotParams)
}

func TestConfigStore_Head(t *testing.T) {
	s, _ := newTestStores(t)

	_, ok, err := s.Config.GetHead()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Config.PutHead(42))
	head, ok, err := s.Config.GetHead()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), head)
}

func TestBalanceStore_OrderedAndAppendOnly(t *testing.T) {
	s, _ := newTestStores(t)

	snaps := []*types.BalanceSnapshot{
		{Account: "alice", Height: 16, Seq: 0, Balance: uint256.NewInt(30)},
		{Account: "alice", Height: 2, Seq: 1, Balance: uint256.NewInt(20)},
		{Account: "alice", Height: 2, Seq: 0, Balance: uint256.NewInt(10)},
		{Account: "alice2", Height: 1, Seq: 0, Balance: uint256.NewInt(99)},
	}
	for _, sn := range snaps {
		require.NoError(t, s.Balances.Append(sn))
	}

	list, err := s.Balances.List("alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, uint64(2), list[0].Height)
	assert.Equal(t, uint32(0), list[0].Seq)
	assert.Equal(t, uint32(1), list[1].Seq)
	assert.Equal(t, uint64(16), list[2].Height)
	assert.Equal(t, "30", list[2].Balance.Dec())

	err = s.Balances.Append(&types.BalanceSnapshot{Account: "alice", Height: 2, Seq: 0, Balance: uint256.NewInt(1)})
	assert.Error(t, err, "snapshots are never overwritten")

	one, err := s.Balances.Get("alice", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, "20", one.Balance.Dec())

	missing, err := s.Balances.Get("bob", 0, 0)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTxRecordStore_WindowVolume(t *testing.T) {
	s, _ := newTestStores(t)

	for i, ts := range []uint64{100, 200, 300, 400} {
		require.NoError(t, s.TxRecords.Append(&types.TransactionRecord{
			Sender:    "alice",
			Recipient: "bob",
			Nonce:     uint64(i),
			Timestamp: ts,
			Height:    uint64(i + 1),
			Amount:    uint256.NewInt(uint64(1000 * (i + 1))),
			Signature: []byte{0x01, 0x02},
		}))
	}
	require.NoError(t, s.TxRecords.Append(&types.TransactionRecord{
		Sender: "alice2", Nonce: 0, Timestamp: 250, Amount: uint256.NewInt(7),
	}))

	tests := []struct {
		name      string
		from, to  uint64
		wantSum   uint64
		wantCount uint64
	}{
		{"all", 0, 1000, 10000, 4},
		{"inclusive bounds", 200, 300, 5000, 2},
		{"single", 400, 400, 4000, 1},
		{"empty", 401, 1000, 0, 0},
		{"inverted", 300, 200, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, count, err := s.TxRecords.WindowVolume("alice", tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSum, sum.Uint64())
			assert.Equal(t, tt.wantCount, count)
		})
	}

	rec, err := s.TxRecords.Get("alice", 1)
	require.NoError(t, err)
	assert.Equal(t, "bob", rec.Recipient)
	assert.Equal(t, uint64(200), rec.Timestamp)
	assert.Equal(t, []byte{0x01, 0x02}, rec.Signature)

	err = s.TxRecords.Append(&types.TransactionRecord{Sender: "alice", Nonce: 1, Amount: uint256.NewInt(1)})
	assert.Error(t, err, "duplicate (sender, nonce) must be rejected")
}

func TestTxRecordStore_WindowVolumeOverflow(t *testing.T) {
	s, _ := newTestStores(t)
	for i := uint64(0); i < 2; i++ {
		require.NoError(t, s.TxRecords.Append(&types.TransactionRecord{
			Sender: "whale", Nonce: i, Timestamp: 10, Amount: utils.MaxAmount,
		}))
	}
	_, _, err := s.TxRecords.WindowVolume("whale", 0, 10)
	assert.ErrorIs(t, err, errors.ErrOverflow)
}

func TestReceiptStore_Accumulates(t *testing.T) {
	s, _ := newTestStores(t)
	require.NoError(t, s.Receipts.Add("bob", 100, 1, uint256.NewInt(5)))
	require.NoError(t, s.Receipts.Add("bob", 100, 1, uint256.NewInt(7)))
	require.NoError(t, s.Receipts.Add("bob", 150, 2, uint256.NewInt(3)))

	sum, err := s.Receipts.ReceivedBetween("bob", 100, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), sum.Uint64())

	sum, err = s.Receipts.ReceivedBetween("bob", 0, ^uint64(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(15), sum.Uint64())

	sum, err = s.Receipts.ReceivedBetween("bob", 101, 149)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestNonceStore(t *testing.T) {
	s, _ := newTestStores(t)
	st, err := s.Nonces.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), st.Nonce)
	assert.Nil(t, st.LastTransfer)

	ts := uint64(42)
	require.NoError(t, s.Nonces.Put("alice", &AccountState{Nonce: 3, LastTransfer: &ts}))
	st, err = s.Nonces.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), st.Nonce)
	require.NotNil(t, st.LastTransfer)
	assert.Equal(t, ts, *st.LastTransfer)
}

func TestActivityStore_CountSenders(t *testing.T) {
	s, _ := newTestStores(t)
	for _, a := range []string{"a", "b", "c"} {
		require.NoError(t, s.Activity.MarkSender(7, a))
	}
	require.NoError(t, s.Activity.MarkSender(8, "d"))

	n, err := s.Activity.CountSenders(7, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	n, err = s.Activity.CountSenders(7, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	ok, err := s.Activity.IsSender(8, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVestingAllowanceSignerStores(t *testing.T) {
	s, _ := newTestStores(t)

	empty, err := s.Vesting.List("bob")
	require.NoError(t, err)
	assert.Empty(t, empty)

	claimedAt := uint64(550)
	schedules := []*types.VestingSchedule{
		{Beneficiary: "bob", StartTime: 0, CliffTime: 100, EndTime: 1000, TotalAmount: uint256.NewInt(1000), ClaimedAmount: uint256.NewInt(550), LastClaimTime: &claimedAt},
		{Beneficiary: "bob", StartTime: 10, CliffTime: 10, EndTime: 20, TotalAmount: uint256.NewInt(5), ClaimedAmount: uint256.NewInt(0)},
	}
	require.NoError(t, s.Vesting.Put("bob", schedules))
	got, err := s.Vesting.List("bob")
	require.NoError(t, err)
	assert.Equal(t, schedules, got)

	allowance, err := s.Allowances.Get("alice", "bob")
	require.NoError(t, err)
	assert.True(t, allowance.Amount.IsZero())
	require.NoError(t, s.Allowances.Put(&types.Allowance{Owner: "alice", Spender: "bob", Amount: uint256.NewInt(9)}))
	allowance, err = s.Allowances.Get("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), allowance.Amount.Uint64())

	key := &types.SignerKey{Address: "alice", Scheme: types.SchemeEd25519, PublicKey: []byte{1, 2, 3, 4}}
	require.NoError(t, s.Signers.Put(key))
	gotKey, err := s.Signers.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, key, gotKey)
	ok, err := s.Signers.Exists("bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StoreConfig
		wantErr bool
	}{
		{"memory", StoreConfig{Type: MemoryStoreType}, false},
		{"leveldb needs dir", StoreConfig{Type: LevelDBStoreType}, true},
		{"bolt", StoreConfig{Type: BoltStoreType, Directory: "/tmp/x"}, false},
		{"redis needs address", StoreConfig{Type: RedisStoreType}, true},
		{"postgres", StoreConfig{Type: PostgresStoreType, DSN: "postgres://x"}, false},
		{"unknown", StoreConfig{Type: "rocksdb", Directory: "/tmp"}, true},
		{"empty", StoreConfig{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateProvider_Bolt(t *testing.T) {
	p, err := CreateProvider(&StoreConfig{Type: BoltStoreType, Directory: t.TempDir()})
	require.NoError(t, err)
	defer p.Close()
	require.NoError(t, p.Put([]byte(KeyConfig), []byte("{}")))
}
