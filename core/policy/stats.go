package policy

import (
	"sort"
	"sync"
	"time"
)

// CommandStats aggregates executions of a single command.
type CommandStats struct {
	Count         int
	LastExecution time.Time
	TotalTime     time.Duration
}

// NamedStats is a CommandStats with the command it belongs to.
type NamedStats struct {
	Name string
	CommandStats
}

type statsTable struct {
	mu    sync.Mutex
	stats map[string]*CommandStats
	now   func() time.Time
}

func newStatsTable(now func() time.Time) *statsTable {
	return &statsTable{
		stats: make(map[string]*CommandStats),
		now:   now,
	}
}

// RecordExecution adds one execution of name taking d to the statistics.
func (e *Engine) RecordExecution(name string, d time.Duration) {
	t := e.stats
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.stats[name]
	if !ok {
		s = &CommandStats{}
		t.stats[name] = s
	}
	s.Count++
	s.LastExecution = t.now()
	s.TotalTime += d
}

// Stats returns a copy of the statistics for name.
func (e *Engine) Stats(name string) (CommandStats, bool) {
	t := e.stats
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.stats[name]
	if !ok {
		return CommandStats{}, false
	}
	return *s, true
}

// AllStats returns a copy of every command's statistics sorted by name.
func (e *Engine) AllStats() []NamedStats {
	t := e.stats
	t.mu.Lock()
	out := make([]NamedStats, 0, len(t.stats))
	for name, s := range t.stats {
		out = append(out, NamedStats{Name: name, CommandStats: *s})
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
