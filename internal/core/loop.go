package core

import "sync"

// Loop is a start/stop handle for a periodic callback source such as the
// display-frame loop or the ping interval.
//
// Each Start bumps a generation number. Ticks carry the generation they were
// scheduled under and Accept rejects ticks from an older generation, so a
// tick already in flight when Stop is called is discarded rather than acted
// on. Start and Stop are idempotent.
type Loop struct {
	mu      sync.Mutex
	running bool
	gen     uint64
}

// Start marks the loop running and returns its generation. If the loop is
// already running the current generation is returned unchanged and started
// is false, so the caller does not schedule a second chain of ticks.
func (l *Loop) Start() (gen uint64, started bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return l.gen, false
	}
	l.running = true
	l.gen++
	return l.gen, true
}

// Stop marks the loop stopped. Repeated calls are safe.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = false
}

// Running reports whether the loop is started.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Generation returns the current generation number.
func (l *Loop) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// Accept reports whether a tick scheduled under gen should be processed.
func (l *Loop) Accept(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running && gen == l.gen
}
