package scheduler

import (
	"sync"
	"time"
)

// Cancel deactivates a repeating schedule. Calling it more than once is safe.
type Cancel func()

// Scheduler runs a callback repeatedly until cancelled.
type Scheduler interface {
	ScheduleRepeating(interval time.Duration, callback func()) Cancel
}

// Dispatcher hands a callback to the goroutine that owns the caller's state.
type Dispatcher func(func())

// Ticker schedules callbacks with a time.Ticker on a dedicated goroutine.
type Ticker struct {
	dispatch Dispatcher
}

// NewTicker creates a Ticker. A nil dispatch runs callbacks on the ticker goroutine.
func NewTicker(dispatch Dispatcher) *Ticker {
	return &Ticker{dispatch: dispatch}
}

// ScheduleRepeating starts a ticker that fires callback every interval.
func (scheduler *Ticker) ScheduleRepeating(interval time.Duration, callback func()) Cancel {
	if interval <= 0 {
		interval = time.Second
	}
	stopCh := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				if scheduler.dispatch != nil {
					scheduler.dispatch(callback)
					continue
				}
				callback()
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stopCh)
		})
	}
}
