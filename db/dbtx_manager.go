package db

import (
	"fmt"

	"github.com/mezonai/tokencore/logx"
)

// DBTxManager runs operations against an overlay of the shared provider so
// that every write of one operation lands together or not at all.
type DBTxManager struct {
	provider IterableProvider
}

// NewDBTxManager creates a new transaction manager with the given provider
func NewDBTxManager(provider IterableProvider) *DBTxManager {
	return &DBTxManager{provider: provider}
}

// Provider returns the underlying provider
func (tm *DBTxManager) Provider() IterableProvider {
	return tm.provider
}

// WithOverlay executes fn against a fresh overlay. If fn returns nil the
// overlay is committed in one batch; otherwise it is discarded and fn's
// error is returned as is.
func (tm *DBTxManager) WithOverlay(fn func(view *Overlay) error) error {
	view := NewOverlay(tm.provider)
	defer view.Discard()

	if err := fn(view); err != nil {
		logx.Debug("TX_MANAGER", "discarding", view.Len(), "buffered writes:", err)
		return err
	}

	if err := view.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	return nil
}
