package ledger

import (
	"math"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	provider *db.LevelDBProvider
	ledger   *Ledger
	tm       *db.DBTxManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p, err := db.NewMemLevelDBProvider()
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return &fixture{provider: p, ledger: NewLedger(p), tm: db.NewDBTxManager(p)}
}

func (f *fixture) apply(fn func(s *Session) error) error {
	var sess *Session
	err := f.tm.WithOverlay(func(view *db.Overlay) error {
		sess = f.ledger.NewSession(view)
		return fn(sess)
	})
	if err == nil {
		sess.Commit()
	}
	return err
}

func balanceAt(t *testing.T, l *Ledger, addr string, height uint64) uint64 {
	t.Helper()
	b, err := l.GetBalance(addr, height)
	require.NoError(t, err)
	return b.Uint64()
}

func TestLedger_PointInTime(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.apply(func(s *Session) error { return s.Credit("alice", uint256.NewInt(100), 5) }))
	require.NoError(t, f.apply(func(s *Session) error { return s.Debit("alice", uint256.NewInt(30), 10) }))
	require.NoError(t, f.apply(func(s *Session) error { return s.Credit("alice", uint256.NewInt(5), 10) }))

	tests := []struct {
		height uint64
		want   uint64
	}{
		{0, 0},
		{4, 0},
		{5, 100},
		{9, 100},
		{10, 75},
		{math.MaxUint64, 75},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, balanceAt(t, f.ledger, "alice", tt.height), "height %d", tt.height)
	}

	history, err := f.ledger.History("alice")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, uint32(1), history[2].Seq, "second write at height 10 gets seq 1")
}

func TestLedger_ReloadFromStore(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.apply(func(s *Session) error {
		if err := s.Credit("bob", uint256.NewInt(40), 1); err != nil {
			return err
		}
		return s.Debit("bob", uint256.NewInt(15), 2)
	}))

	fresh := NewLedger(f.provider)
	assert.Equal(t, uint64(40), balanceAt(t, fresh, "bob", 1))
	assert.Equal(t, uint64(25), balanceAt(t, fresh, "bob", 2))
}

func TestLedger_InsufficientFunds(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.apply(func(s *Session) error { return s.Credit("alice", uint256.NewInt(10), 1) }))

	err := f.apply(func(s *Session) error { return s.Debit("alice", uint256.NewInt(11), 2) })
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)
	assert.Equal(t, uint64(10), balanceAt(t, f.ledger, "alice", 2))

	err = f.apply(func(s *Session) error { return s.Debit("nobody", uint256.NewInt(1), 2) })
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)
}

func TestLedger_CreditOverflow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.apply(func(s *Session) error { return s.Credit("whale", utils.MaxAmount, 1) }))

	err := f.apply(func(s *Session) error { return s.Credit("whale", uint256.NewInt(1), 1) })
	assert.ErrorIs(t, err, errors.ErrOverflow)
}

func TestLedger_HeightBelowLatestRejected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.apply(func(s *Session) error { return s.Credit("alice", uint256.NewInt(10), 7) }))

	err := f.apply(func(s *Session) error { return s.Credit("alice", uint256.NewInt(1), 6) })
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestLedger_FailedSessionLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.apply(func(s *Session) error { return s.Credit("alice", uint256.NewInt(10), 1) }))

	err := f.apply(func(s *Session) error {
		require.NoError(t, s.Credit("bob", uint256.NewInt(10), 2))
		require.NoError(t, s.Debit("alice", uint256.NewInt(10), 2))
		got, err := s.GetBalance("bob", 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), got.Uint64(), "session sees its own writes")
		return errors.ErrInvalidSignature
	})
	assert.ErrorIs(t, err, errors.ErrInvalidSignature)

	assert.Equal(t, uint64(0), balanceAt(t, f.ledger, "bob", 2))
	assert.Equal(t, uint64(10), balanceAt(t, f.ledger, "alice", 2))
	history, err := NewLedger(f.provider).History("bob")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestLedger_CreditDebitRoundTrip(t *testing.T) {
	f := newFixture(t)
	fz := fuzz.New().NilChance(0)

	height := uint64(1)
	for i := 0; i < 200; i++ {
		var seed, x uint64
		fz.Fuzz(&seed)
		fz.Fuzz(&x)
		seed %= 1_000_000
		x %= 1_000_000

		addr := "acct"
		before := balanceAt(t, f.ledger, addr, height)
		require.NoError(t, f.apply(func(s *Session) error { return s.Credit(addr, uint256.NewInt(seed), height) }))
		before += seed

		require.NoError(t, f.apply(func(s *Session) error { return s.Credit(addr, uint256.NewInt(x), height) }))
		require.NoError(t, f.apply(func(s *Session) error { return s.Debit(addr, uint256.NewInt(x), height) }))
		assert.Equal(t, before, balanceAt(t, f.ledger, addr, height))
		height++
	}
}

func TestLedger_NeverNegative(t *testing.T) {
	f := newFixture(t)
	fz := fuzz.New().NilChance(0)
	require.NoError(t, f.apply(func(s *Session) error { return s.Credit("a", uint256.NewInt(1000), 0) }))

	expected := uint64(1000)
	for h := uint64(1); h <= 300; h++ {
		var amount uint64
		var debit bool
		fz.Fuzz(&amount)
		fz.Fuzz(&debit)
		amount %= 1500

		err := f.apply(func(s *Session) error {
			if debit {
				return s.Debit("a", uint256.NewInt(amount), h)
			}
			return s.Credit("a", uint256.NewInt(amount), h)
		})
		switch {
		case debit && amount > expected:
			assert.ErrorIs(t, err, errors.ErrInsufficientFunds)
		case debit:
			require.NoError(t, err)
			expected -= amount
		default:
			require.NoError(t, err)
			expected += amount
		}
		assert.Equal(t, expected, balanceAt(t, f.ledger, "a", h))
	}
}

func TestComputeDeltaHash_OrderIndependent(t *testing.T) {
	f := newFixture(t)
	var sess *Session
	require.NoError(t, f.tm.WithOverlay(func(view *db.Overlay) error {
		sess = f.ledger.NewSession(view)
		if err := sess.Credit("b", uint256.NewInt(1), 1); err != nil {
			return err
		}
		return sess.Credit("a", uint256.NewInt(2), 1)
	}))
	touched := sess.Touched()
	require.Len(t, touched, 2)
	assert.Equal(t, "b", touched[0].Account)

	reversed := []types.BalanceSnapshot{touched[1], touched[0]}
	assert.Equal(t, ComputeDeltaHash(touched), ComputeDeltaHash(reversed))
	assert.NotEqual(t, [32]byte{}, ComputeDeltaHash(touched))
	assert.Equal(t, [32]byte{}, ComputeDeltaHash(nil))
}
