package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Lightweight per-tick timers for gesture handling and redraw work.

// Stat is the time spent under one name since the last Reset.
type Stat struct {
	Name  string
	Total time.Duration
	Calls int
}

var (
	mu     sync.Mutex
	totals = make(map[string]*Stat)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s, ok := totals[name]
		if !ok {
			s = &Stat{Name: name}
			totals[name] = s
		}
		s.Total += d
		s.Calls++
		mu.Unlock()
	}
}

// Reset clears the totals. Call at the start of each tick.
func Reset() {
	mu.Lock()
	clear(totals)
	mu.Unlock()
}

// Snapshot returns the current totals, longest first.
func Snapshot() []Stat {
	mu.Lock()
	out := make([]Stat, 0, len(totals))
	for _, s := range totals {
		out = append(out, *s)
	}
	mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Total returns the time recorded under name.
func Total(name string) (time.Duration, int) {
	mu.Lock()
	defer mu.Unlock()
	if s, ok := totals[name]; ok {
		return s.Total, s.Calls
	}
	return 0, 0
}

// TopN formats the n longest totals.
// Example: "interaction.Handle:0.4ms(3), scheduler.Tick:0.1ms(1)"
func TopN(n int) string {
	stats := Snapshot()
	n = min(n, len(stats))
	parts := make([]string, 0, n)
	for _, s := range stats[:n] {
		ms := float64(s.Total.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms(%d)", s.Name, ms, s.Calls))
	}
	return strings.Join(parts, ", ")
}
