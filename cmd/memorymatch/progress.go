package main

import (
	"fmt"
	"io"
	"sync"
)

const progressDots = 40

// progressMonitor prints a fixed-width row of dots as games finish. A nil
// monitor is valid and prints nothing.
type progressMonitor struct {
	mu          sync.Mutex
	out         io.Writer
	dotsPrinted int
}

func newProgressMonitor(out io.Writer) *progressMonitor {
	_, _ = fmt.Fprint(out, "Simulating: ")
	return &progressMonitor{out: out}
}

func (m *progressMonitor) update(done, total int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	target := min(done, total) * progressDots / max(total, 1)
	for m.dotsPrinted < target {
		_, _ = fmt.Fprint(m.out, ".")
		m.dotsPrinted++
	}
}

func (m *progressMonitor) finish() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, _ = fmt.Fprintln(m.out, " done")
}
