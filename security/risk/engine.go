package risk

import (
	"fmt"
	"math"

	"github.com/holiman/uint256"
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/interfaces"
	"github.com/mezonai/tokencore/logx"
	"github.com/mezonai/tokencore/store"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// Policy is the full set of limits a transfer is checked against
type Policy struct {
	Params          *types.RiskParameters
	RateLimitWindow uint64 // seconds
	TransferLimit   uint64 // transfers per window, 0 disables
}

func PolicyFromConfig(cfg *types.TokenConfig, params *types.RiskParameters) Policy {
	return Policy{
		Params:          params,
		RateLimitWindow: cfg.RateLimitWindow,
		TransferLimit:   cfg.TransferLimit,
	}
}

// Engine validates proposed transfers against the transaction log, the
// receipt history and the balance ledger, and records executed transfers.
type Engine struct {
	records  store.TxRecordStore
	receipts store.ReceiptStore
	nonces   store.NonceStore
	activity store.ActivityStore
	balances interfaces.BalanceReader
}

func NewEngine(stores *store.Stores, balances interfaces.BalanceReader) *Engine {
	return &Engine{
		records:  stores.TxRecords,
		receipts: stores.Receipts,
		nonces:   stores.Nonces,
		activity: stores.Activity,
		balances: balances,
	}
}

// Validate runs the transfer checks in their fixed order and returns the
// first failure.
func (e *Engine) Validate(sender string, amount *uint256.Int, env types.Env, policy Policy) error {
	params := policy.Params
	now := env.Time

	if amount.Gt(params.MaxTxValue) {
		return errors.Newf(errors.ErrCodeTransactionValueTooHigh,
			"%s: %s > %s", errors.ErrMsgTransactionValueTooHigh, amount.Dec(), params.MaxTxValue.Dec())
	}

	volume, count, err := e.window(sender, now, policy.RateLimitWindow)
	if err != nil {
		return err
	}
	projected, err := utils.CheckedAdd(volume, amount)
	if err != nil {
		return err
	}
	if projected.Gt(params.DailyLimit) {
		return errors.Newf(errors.ErrCodeDailyLimitExceeded,
			"%s: %s + %s > %s", errors.ErrMsgDailyLimitExceeded, volume.Dec(), amount.Dec(), params.DailyLimit.Dec())
	}

	state, err := e.nonces.Get(sender)
	if err != nil {
		return err
	}
	if state.Nonce == math.MaxUint64 {
		return errors.ErrNonceOverflow
	}

	if state.LastTransfer != nil && utils.Elapsed(*state.LastTransfer, now) < params.CoolingPeriod {
		return errors.Newf(errors.ErrCodeCoolingPeriod,
			"%s: last transfer at %d, cooling period %ds", errors.ErrMsgCoolingPeriod, *state.LastTransfer, params.CoolingPeriod)
	}

	movable, err := e.Movable(sender, env, params.MinHoldingPeriod)
	if err != nil {
		return err
	}
	if amount.Gt(movable) {
		return errors.Newf(errors.ErrCodeInsufficientFunds,
			"%s: movable %s, requested %s", errors.ErrMsgInsufficientFunds, movable.Dec(), amount.Dec())
	}

	if policy.TransferLimit > 0 && count >= policy.TransferLimit {
		return errors.Newf(errors.ErrCodeRateLimitExceeded,
			"%s: %d transfers in the last %ds", errors.ErrMsgRateLimitExceeded, count, policy.RateLimitWindow)
	}

	if err := e.checkBlockSenders(sender, env.Height, params.MaxAccountsPerBlock); err != nil {
		return err
	}

	logx.Debug("RISK", "transfer accepted for", utils.ShortenLog(sender), "amount", amount.Dec())
	return nil
}

// DailyVolume returns the amount sender transferred in (now - window, now]
func (e *Engine) DailyVolume(sender string, now, window uint64) (*uint256.Int, error) {
	volume, _, err := e.window(sender, now, window)
	return volume, err
}

// HeldAmount returns the funds addr received in (now - minHolding, now]
func (e *Engine) HeldAmount(addr string, now, minHolding uint64) (*uint256.Int, error) {
	if minHolding == 0 {
		return uint256.NewInt(0), nil
	}
	held, err := e.receipts.ReceivedBetween(addr, utils.WindowStart(now, minHolding), now)
	if err != nil {
		return nil, fmt.Errorf("could not compute held amount: %w", err)
	}
	return held, nil
}

// Movable returns the balance of addr minus held funds, floored at zero
func (e *Engine) Movable(addr string, env types.Env, minHolding uint64) (*uint256.Int, error) {
	balance, err := e.balances.GetBalance(addr, env.Height)
	if err != nil {
		return nil, err
	}
	held, err := e.HeldAmount(addr, env.Time, minHolding)
	if err != nil {
		return nil, err
	}
	return utils.SaturatingSub(balance, held), nil
}

// RecordTransfer appends the executed transfer to the log, advances the
// sender's nonce and marks the sender active at the record's height.
func (e *Engine) RecordTransfer(record *types.TransactionRecord) error {
	if err := e.records.Append(record); err != nil {
		return err
	}
	ts := record.Timestamp
	if err := e.nonces.Put(record.Sender, &store.AccountState{Nonce: record.Nonce + 1, LastTransfer: &ts}); err != nil {
		return err
	}
	return e.activity.MarkSender(record.Height, record.Sender)
}

// RecordReceipt registers an inbound credit for the holding period
func (e *Engine) RecordReceipt(addr string, env types.Env, amount *uint256.Int) error {
	return e.receipts.Add(addr, env.Time, env.Height, amount)
}

func (e *Engine) window(sender string, now, window uint64) (*uint256.Int, uint64, error) {
	volume, count, err := e.records.WindowVolume(sender, utils.WindowStart(now, window), now)
	if err != nil {
		return nil, 0, err
	}
	return volume, count, nil
}

func (e *Engine) checkBlockSenders(sender string, height uint64, maxAccounts uint32) error {
	if maxAccounts == 0 {
		return nil
	}
	active, err := e.activity.IsSender(height, sender)
	if err != nil {
		return err
	}
	if active {
		return nil
	}
	senders, err := e.activity.CountSenders(height, uint64(maxAccounts))
	if err != nil {
		return err
	}
	if senders >= uint64(maxAccounts) {
		return errors.Newf(errors.ErrCodeRateLimitExceeded,
			"%s: %d accounts already transferred at height %d", errors.ErrMsgRateLimitExceeded, senders, height)
	}
	return nil
}
