package service

import (
	"strconv"

	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/security/auth"
	"github.com/mezonai/tokencore/security/risk"
	"github.com/mezonai/tokencore/security/validation"
	"github.com/mezonai/tokencore/store"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/utils"
)

// Transfer moves funds between two accounts after the risk checks, the
// nonce check and signature verification all pass.
func (s *TokenService) Transfer(req TransferRequest, env types.Env) (*types.Response, error) {
	return s.execute(ActionTransfer, env, true, func(op *opContext, resp *types.Response) error {
		if err := requireActive(op.cfg); err != nil {
			return err
		}
		if err := validateTransfer(req); err != nil {
			return err
		}

		policy := risk.PolicyFromConfig(op.cfg, op.params)
		if err := op.risk.Validate(req.Sender, req.Amount, env, policy); err != nil {
			return err
		}

		state, err := op.stores.Nonces.Get(req.Sender)
		if err != nil {
			return err
		}
		if err := checkNonce(op.stores, req.Sender, req.Nonce, state); err != nil {
			return err
		}

		msg := auth.TransferMessage(req.Sender, req.Recipient, req.Amount, state.Nonce)
		if err := op.auth.Verify(req.Sender, msg, req.Signature); err != nil {
			return err
		}

		if err := op.session.Debit(req.Sender, req.Amount, env.Height); err != nil {
			return err
		}
		if err := op.session.Credit(req.Recipient, req.Amount, env.Height); err != nil {
			return err
		}

		record := &types.TransactionRecord{
			Sender:    req.Sender,
			Recipient: req.Recipient,
			Nonce:     state.Nonce,
			Timestamp: env.Time,
			Height:    env.Height,
			Amount:    utils.CloneAmount(req.Amount),
			Signature: req.Signature,
		}
		if err := op.risk.RecordTransfer(record); err != nil {
			return err
		}
		if err := op.risk.RecordReceipt(req.Recipient, env, req.Amount); err != nil {
			return err
		}

		resp.AddAttribute("from", req.Sender).
			AddAttribute("to", req.Recipient).
			AddAttribute("amount", req.Amount.Dec()).
			AddAttribute("nonce", strconv.FormatUint(state.Nonce, 10))
		return nil
	})
}

// Approve sets the amount spender may move on behalf of owner. It consumes
// the owner's nonce but does not count as a transfer.
func (s *TokenService) Approve(req ApproveRequest, env types.Env) (*types.Response, error) {
	return s.execute(ActionApprove, env, true, func(op *opContext, resp *types.Response) error {
		if err := requireActive(op.cfg); err != nil {
			return err
		}
		if err := validation.ValidateAddress(validation.OwnerField, req.Owner); err != nil {
			return err
		}
		if err := validation.ValidateAddress(validation.SpenderField, req.Spender); err != nil {
			return err
		}
		if req.Amount == nil {
			return errors.Newf(errors.ErrCodeInvalidRequest, "%s is required", validation.AmountField)
		}
		if req.Amount.Gt(utils.MaxAmount) {
			return errors.ErrOverflow
		}

		state, err := op.stores.Nonces.Get(req.Owner)
		if err != nil {
			return err
		}
		if state.Nonce == ^uint64(0) {
			return errors.ErrNonceOverflow
		}
		if err := checkNonce(op.stores, req.Owner, req.Nonce, state); err != nil {
			return err
		}

		msg := auth.ApproveMessage(req.Owner, req.Spender, req.Amount, state.Nonce)
		if err := op.auth.Verify(req.Owner, msg, req.Signature); err != nil {
			return err
		}

		allowance := &types.Allowance{Owner: req.Owner, Spender: req.Spender, Amount: utils.CloneAmount(req.Amount)}
		if err := op.stores.Allowances.Put(allowance); err != nil {
			return err
		}
		next := &store.AccountState{Nonce: state.Nonce + 1, LastTransfer: state.LastTransfer}
		if err := op.stores.Nonces.Put(req.Owner, next); err != nil {
			return err
		}

		resp.AddAttribute("owner", req.Owner).
			AddAttribute("spender", req.Spender).
			AddAttribute("amount", req.Amount.Dec()).
			AddAttribute("nonce", strconv.FormatUint(state.Nonce, 10))
		return nil
	})
}

func validateTransfer(req TransferRequest) error {
	if err := validation.ValidateAddress(validation.SenderField, req.Sender); err != nil {
		return err
	}
	if err := validation.ValidateAddress(validation.RecipientField, req.Recipient); err != nil {
		return err
	}
	if req.Sender == req.Recipient {
		return errors.Newf(errors.ErrCodeInvalidRequest, "sender and recipient must differ")
	}
	return validation.ValidateAmount(validation.AmountField, req.Amount)
}

// checkNonce rejects a supplied nonce that does not match the account state,
// and a current nonce that already has a record behind it.
func checkNonce(stores *store.Stores, addr string, supplied *uint64, state *store.AccountState) error {
	if supplied != nil && *supplied != state.Nonce {
		return errors.Newf(errors.ErrCodeInvalidNonce,
			"%s: expected %d, got %d", errors.ErrMsgInvalidNonce, state.Nonce, *supplied)
	}
	exists, err := stores.TxRecords.Exists(addr, state.Nonce)
	if err != nil {
		return err
	}
	if exists {
		return errors.ErrDuplicateTransaction
	}
	return nil
}
