package service

import (
	"encoding/hex"
	"sync"
	"time"

	"github.com/mezonai/tokencore/db"
	"github.com/mezonai/tokencore/errors"
	"github.com/mezonai/tokencore/ledger"
	"github.com/mezonai/tokencore/logx"
	"github.com/mezonai/tokencore/monitoring"
	"github.com/mezonai/tokencore/security/auth"
	"github.com/mezonai/tokencore/security/risk"
	"github.com/mezonai/tokencore/store"
	"github.com/mezonai/tokencore/types"
	"github.com/mezonai/tokencore/vesting"
)

const (
	ActionInstantiate    = "instantiate"
	ActionTransfer       = "transfer"
	ActionApprove        = "approve"
	ActionCreateVesting  = "create_vesting_schedule"
	ActionClaimVesting   = "claim_vesting"
	ActionUpdateRisk     = "update_risk_parameters"
	ActionPause          = "pause"
	ActionUnpause        = "unpause"
	ActionRegisterSigner = "register_signer"
)

type Options struct {
	Vesting vesting.Options
}

// TokenService executes ledger operations one at a time. Each mutation runs
// against its own overlay and either commits every write or none.
type TokenService struct {
	mu       sync.RWMutex
	provider db.IterableProvider
	tm       *db.DBTxManager
	ledger   *ledger.Ledger
	opts     Options
}

func NewTokenService(provider db.IterableProvider, opts Options) *TokenService {
	return &TokenService{
		provider: provider,
		tm:       db.NewDBTxManager(provider),
		ledger:   ledger.NewLedger(provider),
		opts:     opts,
	}
}

// Ledger exposes the committed balance ledger for read access
func (s *TokenService) Ledger() *ledger.Ledger {
	return s.ledger
}

// opContext is everything an operation needs, all bound to one overlay
type opContext struct {
	env     types.Env
	stores  *store.Stores
	session *ledger.Session
	cfg     *types.TokenConfig
	params  *types.RiskParameters
	risk    *risk.Engine
	auth    *auth.Module
	vesting *vesting.Engine
}

func (s *TokenService) newOpContext(view *db.Overlay, env types.Env) *opContext {
	stores := store.NewStores(view)
	session := s.ledger.NewSession(view)
	authModule := auth.NewModule(stores.Signers)
	return &opContext{
		env:     env,
		stores:  stores,
		session: session,
		risk:    risk.NewEngine(stores, session),
		auth:    authModule,
		vesting: vesting.NewEngine(stores.Vesting, session, authModule, s.opts.Vesting),
	}
}

// loadState reads config and risk parameters, failing when the ledger has
// not been instantiated
func (op *opContext) loadState() error {
	cfg, err := op.stores.Config.GetConfig()
	if err != nil {
		return err
	}
	if cfg == nil {
		return errors.ErrNotInitialized
	}
	params, err := op.stores.Config.GetRiskParams()
	if err != nil {
		return err
	}
	if params == nil {
		return errors.ErrNotInitialized
	}
	op.cfg = cfg
	op.params = params
	return nil
}

// requireOwner is the single owner-capability check. Every owner-only
// operation calls it before any mutation.
func requireOwner(cfg *types.TokenConfig, caller string) error {
	if !auth.ConstantTimeCompare([]byte(caller), []byte(cfg.Owner)) {
		return errors.Newf(errors.ErrCodeUnauthorized, "%s: %s is not the owner", errors.ErrMsgUnauthorized, caller)
	}
	return nil
}

func requireActive(cfg *types.TokenConfig) error {
	if cfg.Paused {
		return errors.ErrPaused
	}
	return nil
}

// advanceHead raises the stored head to the operation height
func (op *opContext) advanceHead() error {
	head, ok, err := op.stores.Config.GetHead()
	if err != nil {
		return err
	}
	if ok && head >= op.env.Height {
		return nil
	}
	return op.stores.Config.PutHead(op.env.Height)
}

type operation func(op *opContext, resp *types.Response) error

// execute runs fn under the writer lock inside a fresh overlay. On success
// the overlay is committed, the ledger index merged and a digest of the
// written balances attached to the response.
func (s *TokenService) execute(action string, env types.Env, initialized bool, fn operation) (*types.Response, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := types.NewResponse().AddAttribute("action", action)
	var session *ledger.Session
	err := s.tm.WithOverlay(func(view *db.Overlay) error {
		op := s.newOpContext(view, env)
		session = op.session
		if initialized {
			if err := op.loadState(); err != nil {
				return err
			}
		}
		if err := fn(op, resp); err != nil {
			return err
		}
		if err := op.advanceHead(); err != nil {
			return err
		}
		if touched := session.Touched(); len(touched) > 0 {
			digest := ledger.ComputeDeltaHash(touched)
			resp.AddAttribute("state_hash", hex.EncodeToString(digest[:]))
		}
		return nil
	})

	if err != nil {
		code := errors.CodeOf(err)
		monitoring.RecordOperation(action, string(code), false, time.Since(start))
		if errors.ClassOf(err) == errors.ClassInternal {
			logx.Error("SERVICE", action, "failed:", err)
		} else {
			logx.Warn("SERVICE", action, "rejected:", code)
		}
		return nil, err
	}

	session.Commit()
	monitoring.RecordOperation(action, "", true, time.Since(start))
	logx.Info("SERVICE", action, "committed at height", env.Height)
	return resp, nil
}

// query runs fn against committed state under the reader lock
func (s *TokenService) query(fn func(stores *store.Stores) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(store.NewStores(s.provider))
}
