// Package goroutine provides panic recovery for background work.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// Recover logs a panic with its stack instead of crashing the process.
// It must be deferred directly.
func Recover(log logger.Interface, name string) {
	if r := recover(); r != nil {
		log.Errorw("goroutine panicked",
			"goroutine", name,
			"panic", fmt.Sprintf("%v", r),
			"stack", string(debug.Stack()),
		)
	}
}

// SafeGo launches fn in a goroutine guarded by Recover.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer Recover(log, name)
		fn()
	}()
}
