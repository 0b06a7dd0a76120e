package scheduler

import (
	"sync"
	"time"
)

type manualEntry struct {
	id        int
	interval  time.Duration
	next      time.Duration
	callback  func()
	cancelled bool
}

// Manual is a Scheduler driven by a logical clock. Nothing fires until
// Advance or Step is called, and callbacks run on the caller's goroutine.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  int
	entries []*manualEntry
}

// NewManual creates a Manual scheduler at logical time zero.
func NewManual() *Manual {
	return &Manual{}
}

// ScheduleRepeating registers callback to fire every interval of logical time.
func (manual *Manual) ScheduleRepeating(interval time.Duration, callback func()) Cancel {
	if interval <= 0 {
		interval = time.Second
	}

	manual.mu.Lock()
	manual.nextID++
	entry := &manualEntry{
		id:       manual.nextID,
		interval: interval,
		next:     manual.now + interval,
		callback: callback,
	}
	manual.entries = append(manual.entries, entry)
	manual.mu.Unlock()

	return func() {
		manual.mu.Lock()
		defer manual.mu.Unlock()
		entry.cancelled = true
		manual.pruneLocked()
	}
}

// Advance moves the clock forward by delta, firing every callback that
// becomes due in chronological order.
func (manual *Manual) Advance(delta time.Duration) int {
	manual.mu.Lock()
	target := manual.now + delta
	manual.mu.Unlock()

	fired := 0
	for manual.fireNext(target) {
		fired++
	}

	manual.mu.Lock()
	if manual.now < target {
		manual.now = target
	}
	manual.mu.Unlock()
	return fired
}

// Step fires the next n due callbacks regardless of how far the clock has to
// move. It returns how many fired, which is less than n once nothing is active.
func (manual *Manual) Step(n int) int {
	fired := 0
	for fired < n && manual.fireNext(-1) {
		fired++
	}
	return fired
}

// Active reports how many schedules have not been cancelled.
func (manual *Manual) Active() int {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return len(manual.entries)
}

// Now returns the logical time elapsed since creation.
func (manual *Manual) Now() time.Duration {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.now
}

// fireNext runs the earliest due entry. A negative limit means unbounded.
func (manual *Manual) fireNext(limit time.Duration) bool {
	manual.mu.Lock()
	var due *manualEntry
	for _, entry := range manual.entries {
		if limit >= 0 && entry.next > limit {
			continue
		}
		if due == nil || entry.next < due.next {
			due = entry
		}
	}
	if due == nil {
		manual.mu.Unlock()
		return false
	}
	manual.now = due.next
	due.next += due.interval
	callback := due.callback
	manual.mu.Unlock()

	callback()
	return true
}

func (manual *Manual) pruneLocked() {
	kept := manual.entries[:0]
	for _, entry := range manual.entries {
		if !entry.cancelled {
			kept = append(kept, entry)
		}
	}
	for index := len(kept); index < len(manual.entries); index++ {
		manual.entries[index] = nil
	}
	manual.entries = kept
}
