package exception

import (
	"runtime/debug"

	"github.com/mezonai/tokencore/logx"
	"github.com/mezonai/tokencore/monitoring"
)

// SafeGo runs fn in a goroutine, recovering and logging any panic
func SafeGo(name string, fn func()) {
	go func() {
		defer Recover(name)
		fn()
	}()
}

// Recover logs and counts a panic. It must be deferred directly.
func Recover(name string) {
	if r := recover(); r != nil {
		monitoring.IncreasePanicCount()
		logx.Error("EXCEPTION", "Panic in:", name, r, string(debug.Stack()))
	}
}
