package selection

import (
	"fmt"
	"log/slog"
	"sync"
)

// Controller owns the selection state of a session.
//
// All mutations go through Dispatch or Restore, which are serialized. Restore
// works on a copy and only swaps it in on success, so a failed restore leaves
// the state untouched and no command can observe a half-applied document.
type Controller struct {
	mu     sync.Mutex
	state  *State
	logger *slog.Logger
}

// NewController creates a controller owning state. A nil logger discards
// log output.
func NewController(state *State, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{state: state, logger: logger}
}

// Dispatch applies a command to the state.
func (c *Controller) Dispatch(cmd Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := fmt.Sprintf("%T", cmd)
	if err := cmd.Apply(c.state); err != nil {
		c.logger.Debug("command rejected", slog.String("command", name), slog.Any("error", err))
		return err
	}
	c.logger.Debug("command applied", slog.String("command", name), slog.Any("args", cmd))
	return nil
}

// Restore runs fn on a copy of the state and replaces the state with the
// copy when fn succeeds. fn must not call back into the controller.
func (c *Controller) Restore(fn func(*State) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	*c.state = *next
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() *State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}
