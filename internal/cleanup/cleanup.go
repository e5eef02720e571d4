// Package cleanup collects teardown hooks that must run after the command
// finishes, such as closing a JSONL log file opened early in startup.
package cleanup

import (
	"errors"
	"sync"
)

var (
	mu    sync.Mutex
	hooks []func() error
)

// Register adds a hook. Hooks run in LIFO order.
func Register(hook func() error) {
	if hook == nil {
		return
	}
	mu.Lock()
	hooks = append(hooks, hook)
	mu.Unlock()
}

// RunAll executes and clears all registered hooks, joining any failures.
func RunAll() error {
	mu.Lock()
	local := hooks
	hooks = nil
	mu.Unlock()

	var errs []error
	for i := len(local) - 1; i >= 0; i-- {
		if err := local[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
