package policy

import (
	"sync"
	"sync/atomic"
)

type processCounter struct {
	active int64
}

func (c *processCounter) add(delta int64) int64 {
	return atomic.AddInt64(&c.active, delta)
}

func (c *processCounter) load() int64 {
	return atomic.LoadInt64(&c.active)
}

// ProcessGuard holds one slot of the active process budget until Release is
// called. Callers should defer Release right after acquiring the guard.
type ProcessGuard struct {
	counter *processCounter
	once    sync.Once
}

// Release returns the slot. Only the first call has an effect.
func (g *ProcessGuard) Release() {
	g.once.Do(func() {
		g.counter.add(-1)
	})
}

// AcquireProcessGuard unconditionally takes a process slot. Check
// CanStartProcess first to stay within the budget.
func (e *Engine) AcquireProcessGuard() *ProcessGuard {
	e.processes.add(1)
	return &ProcessGuard{counter: &e.processes}
}

// ActiveProcesses returns the number of held process slots.
func (e *Engine) ActiveProcesses() int {
	return int(e.processes.load())
}
