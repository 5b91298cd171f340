package ledger

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/logx"
	"github.com/mezonai/tokencore/store"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// Ledger is the versioned balance ledger. Snapshots live in an append-only
// arena; the index maps each account to the arena positions of its
// snapshots, ordered by (height, seq). Accounts are loaded from the
// committed store on first access.
type Ledger struct {
	mu       sync.RWMutex
	balances store.BalanceStore
	arena    []types.BalanceSnapshot
	index    map[string][]int
}

func NewLedger(provider db.IterableProvider) *Ledger {
	return &Ledger{
		balances: store.NewGenericBalanceStore(provider),
		index:    make(map[string][]int),
	}
}

// GetBalance returns the committed balance of addr as of height
func (l *Ledger) GetBalance(addr string, height uint64) (*uint256.Int, error) {
	positions, err := l.positions(addr)
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if snap := l.search(positions, height); snap != nil {
		return new(uint256.Int).Set(snap.Balance), nil
	}
	return uint256.NewInt(0), nil
}

// Balance returns the latest committed balance of addr
func (l *Ledger) Balance(addr string) (*uint256.Int, error) {
	return l.GetBalance(addr, math.MaxUint64)
}

// History returns a copy of every committed snapshot of addr
func (l *Ledger) History(addr string) ([]types.BalanceSnapshot, error) {
	positions, err := l.positions(addr)
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.BalanceSnapshot, 0, len(positions))
	for _, p := range positions {
		snap := l.arena[p]
		snap.Balance = new(uint256.Int).Set(snap.Balance)
		out = append(out, snap)
	}
	return out, nil
}

// NewSession starts an operation-scoped session writing into view
func (l *Ledger) NewSession(view *db.Overlay) *Session {
	return &Session{
		ledger:   l,
		balances: store.NewGenericBalanceStore(view),
		pending:  make(map[string][]types.BalanceSnapshot),
	}
}

// positions returns the index entry of addr, loading it when needed
func (l *Ledger) positions(addr string) ([]int, error) {
	l.mu.RLock()
	positions, ok := l.index[addr]
	l.mu.RUnlock()
	if ok {
		return positions, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if positions, ok := l.index[addr]; ok {
		return positions, nil
	}

	snapshots, err := l.balances.List(addr)
	if err != nil {
		return nil, fmt.Errorf("could not load balance history of %s: %w", addr, err)
	}
	positions = make([]int, 0, len(snapshots))
	for _, snap := range snapshots {
		l.arena = append(l.arena, *snap)
		positions = append(positions, len(l.arena)-1)
	}
	l.index[addr] = positions
	return positions, nil
}

// search returns the latest snapshot with Height <= height. Caller holds mu.
func (l *Ledger) search(positions []int, height uint64) *types.BalanceSnapshot {
	i := sort.Search(len(positions), func(i int) bool {
		return l.arena[positions[i]].Height > height
	})
	if i == 0 {
		return nil
	}
	return &l.arena[positions[i-1]]
}

// latest returns the newest committed snapshot of addr, nil when none
func (l *Ledger) latest(addr string) (*types.BalanceSnapshot, error) {
	positions, err := l.positions(addr)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	snap := l.arena[positions[len(positions)-1]]
	return &snap, nil
}

// merge appends committed session snapshots to the arena and index
func (l *Ledger) merge(pending map[string][]types.BalanceSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for addr, snaps := range pending {
		positions, ok := l.index[addr]
		if !ok {
			// not loaded yet; the next access reads it from the store
			continue
		}
		for _, snap := range snaps {
			l.arena = append(l.arena, snap)
			positions = append(positions, len(l.arena)-1)
		}
		l.index[addr] = positions
	}
}

// Session applies debits and credits for a single operation. Snapshots are
// written to the operation's overlay and become visible to the Ledger only
// after Commit, which the caller invokes once the overlay is persisted.
type Session struct {
	ledger   *Ledger
	balances store.BalanceStore
	pending  map[string][]types.BalanceSnapshot
	order    []string
}

// GetBalance returns the balance of addr as of height, including writes
// made earlier in this session
func (s *Session) GetBalance(addr string, height uint64) (*uint256.Int, error) {
	pending := s.pending[addr]
	i := sort.Search(len(pending), func(i int) bool {
		return pending[i].Height > height
	})
	if i > 0 {
		return new(uint256.Int).Set(pending[i-1].Balance), nil
	}
	return s.ledger.GetBalance(addr, height)
}

// Debit removes amount from addr at height
func (s *Session) Debit(addr string, amount *uint256.Int, height uint64) error {
	head, err := s.head(addr, height)
	if err != nil {
		return err
	}
	balance := zeroIfNil(head)
	if amount.Gt(balance) {
		return errors.Newf(errors.ErrCodeInsufficientFunds,
			"%s: balance %s, requested %s", errors.ErrMsgInsufficientFunds, balance.Dec(), amount.Dec())
	}
	next, err := utils.CheckedSub(balance, amount)
	if err != nil {
		return err
	}
	return s.append(addr, head, height, next)
}

// Credit adds amount to addr at height
func (s *Session) Credit(addr string, amount *uint256.Int, height uint64) error {
	head, err := s.head(addr, height)
	if err != nil {
		return err
	}
	next, err := utils.CheckedAdd(zeroIfNil(head), amount)
	if err != nil {
		return err
	}
	return s.append(addr, head, height, next)
}

// Commit publishes the session's snapshots to the shared index
func (s *Session) Commit() {
	s.ledger.merge(s.pending)
	logx.Debug("LEDGER", "merged", len(s.pending), "accounts into balance index")
	s.pending = make(map[string][]types.BalanceSnapshot)
	s.order = nil
}

// Touched returns the snapshots written by this session, in write order
func (s *Session) Touched() []types.BalanceSnapshot {
	var out []types.BalanceSnapshot
	seen := make(map[string]int, len(s.order))
	for _, addr := range s.order {
		snaps := s.pending[addr]
		out = append(out, snaps[seen[addr]])
		seen[addr]++
	}
	return out
}

// head returns the newest snapshot of addr visible to the session, nil
// when the account has no history. Writes below its height are rejected.
func (s *Session) head(addr string, height uint64) (*types.BalanceSnapshot, error) {
	var head *types.BalanceSnapshot
	if pending := s.pending[addr]; len(pending) > 0 {
		head = &pending[len(pending)-1]
	} else {
		latest, err := s.ledger.latest(addr)
		if err != nil {
			return nil, err
		}
		head = latest
	}

	if head != nil && height < head.Height {
		return nil, errors.Newf(errors.ErrCodeInvalidRequest,
			"height %d is below latest recorded height %d for %s", height, head.Height, addr)
	}
	return head, nil
}

func (s *Session) append(addr string, head *types.BalanceSnapshot, height uint64, balance *uint256.Int) error {
	var seq uint32
	if head != nil && head.Height == height {
		if head.Seq == math.MaxUint32 {
			return errors.Newf(errors.ErrCodeOverflow, "too many balance writes for %s at height %d", addr, height)
		}
		seq = head.Seq + 1
	}

	snap := types.BalanceSnapshot{Account: addr, Height: height, Seq: seq, Balance: balance}
	if err := s.balances.Append(&snap); err != nil {
		return err
	}
	s.pending[addr] = append(s.pending[addr], snap)
	s.order = append(s.order, addr)
	return nil
}

func zeroIfNil(snap *types.BalanceSnapshot) *uint256.Int {
	if snap == nil {
		return uint256.NewInt(0)
	}
	return snap.Balance
}
