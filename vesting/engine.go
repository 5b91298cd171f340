package vesting

import (
	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/interfaces"
	"github.com/mezonai/tokencore/logx"
	"github.com/mezonai/tokencore/security/auth"
	"github.com/mezonai/tokencore/store"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// Verifier checks that signer produced signature over message
type Verifier interface {
	Verify(signer string, message, signature []byte) error
}

type Options struct {
	// LegacyPercentRounding switches claim math to the two-step percentage
	// calculation.
	LegacyPercentRounding bool
}

// Engine manages vesting grants. Grants are escrowed from the granting
// account and paid out through the balance ledger.
type Engine struct {
	schedules store.VestingStore
	ledger    interfaces.BalanceLedger
	verifier  Verifier
	opts      Options
}

func NewEngine(schedules store.VestingStore, ledger interfaces.BalanceLedger, verifier Verifier, opts Options) *Engine {
	return &Engine{
		schedules: schedules,
		ledger:    ledger,
		verifier:  verifier,
		opts:      opts,
	}
}

// CreateRequest describes a new grant signed by its caller
type CreateRequest struct {
	Caller      string
	Beneficiary string
	Amount      *uint256.Int
	Start       uint64
	Cliff       uint64
	End         uint64
	Signature   []byte
}

// ValidateSchedule checks the time bounds and amount of a grant
func ValidateSchedule(amount *uint256.Int, start, cliff, end uint64) error {
	if start >= end {
		return errors.Newf(errors.ErrCodeInvalidVestingSchedule, "start %d must be before end %d", start, end)
	}
	if cliff < start || cliff > end {
		return errors.Newf(errors.ErrCodeInvalidVestingSchedule, "cliff %d must lie within [%d, %d]", cliff, start, end)
	}
	if amount == nil || amount.IsZero() || amount.Gt(utils.MaxAmount) {
		return errors.Newf(errors.ErrCodeInvalidVestingSchedule, "amount must be between 1 and %s", utils.MaxAmount.Dec())
	}
	return nil
}

// CreateSchedule appends a grant to the beneficiary and escrows its amount
// from the caller. Caller authorization is the responsibility of the
// calling operation.
func (e *Engine) CreateSchedule(req CreateRequest, env types.Env) (*types.VestingSchedule, error) {
	if err := ValidateSchedule(req.Amount, req.Start, req.Cliff, req.End); err != nil {
		return nil, err
	}

	msg := auth.VestingMessage(req.Caller, req.Beneficiary, req.Amount, req.Start, req.End)
	if err := e.verifier.Verify(req.Caller, msg, req.Signature); err != nil {
		return nil, err
	}

	schedules, err := e.schedules.List(req.Beneficiary)
	if err != nil {
		return nil, err
	}
	schedule := &types.VestingSchedule{
		Beneficiary:   req.Beneficiary,
		StartTime:     req.Start,
		CliffTime:     req.Cliff,
		EndTime:       req.End,
		TotalAmount:   utils.CloneAmount(req.Amount),
		ClaimedAmount: uint256.NewInt(0),
	}
	schedules = append(schedules, schedule)
	if err := e.schedules.Put(req.Beneficiary, schedules); err != nil {
		return nil, err
	}

	if err := e.ledger.Debit(req.Caller, req.Amount, env.Height); err != nil {
		return nil, err
	}

	logx.Info("VESTING", "created schedule for", utils.ShortenLog(req.Beneficiary), "amount", req.Amount.Dec())
	return schedule, nil
}

// Claimable returns the claimable amount of s at now under the configured math
func (e *Engine) Claimable(s *types.VestingSchedule, now uint64) (*uint256.Int, error) {
	if e.opts.LegacyPercentRounding {
		return LegacyClaimable(s, now)
	}
	return Claimable(s, now)
}

// TotalClaimable sums the claimable amounts of every schedule of addr
func (e *Engine) TotalClaimable(addr string, now uint64) (*uint256.Int, error) {
	schedules, err := e.schedules.List(addr)
	if err != nil {
		return nil, err
	}
	total := uint256.NewInt(0)
	for _, s := range schedules {
		amount, err := e.Claimable(s, now)
		if err != nil {
			return nil, err
		}
		if total, err = utils.CheckedAdd(total, amount); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// Claim pays out every vested portion of beneficiary's grants. Schedule
// updates and the ledger credit are written together; the caller commits
// or discards them as one unit.
func (e *Engine) Claim(beneficiary string, env types.Env) (*uint256.Int, error) {
	schedules, err := e.schedules.List(beneficiary)
	if err != nil {
		return nil, err
	}

	now := env.Time
	total := uint256.NewInt(0)
	portions := make([]*uint256.Int, len(schedules))
	for i, s := range schedules {
		if now < s.CliffTime {
			continue
		}
		amount, err := e.Claimable(s, now)
		if err != nil {
			return nil, err
		}
		portions[i] = amount
		if total, err = utils.CheckedAdd(total, amount); err != nil {
			return nil, err
		}
	}
	if total.IsZero() {
		return nil, errors.ErrNoVestingToClaim
	}

	for i, s := range schedules {
		if portions[i] == nil {
			continue
		}
		claimed, err := utils.CheckedAdd(s.ClaimedAmount, portions[i])
		if err != nil {
			return nil, err
		}
		if claimed.Gt(s.TotalAmount) {
			return nil, errors.Newf(errors.ErrCodeOverflow, "claimed amount would exceed grant total")
		}
		s.ClaimedAmount = claimed
		claimedAt := now
		s.LastClaimTime = &claimedAt
	}
	if err := e.schedules.Put(beneficiary, schedules); err != nil {
		return nil, err
	}

	if err := e.ledger.Credit(beneficiary, total, env.Height); err != nil {
		return nil, err
	}

	logx.Info("VESTING", "claimed", total.Dec(), "for", utils.ShortenLog(beneficiary))
	return total, nil
}
