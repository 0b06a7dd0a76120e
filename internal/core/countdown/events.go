package countdown

import "time"

// State represents the current run state of the countdown.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateExpired State = "expired"
)

func (state State) String() string {
	return string(state)
}

// EventType defines the type of countdown event.
type EventType string

const (
	EventDurationChange EventType = "duration_change"
	EventStateChange    EventType = "state_change"
	EventTick           EventType = "tick"
	EventExpired        EventType = "expired"
)

// Snapshot is a copy of the engine state at one point in time.
type Snapshot struct {
	Duration    int
	HasDuration bool
	Remaining   int
	State       State
}

// Display returns the remaining time as MM:SS.
func (snapshot Snapshot) Display() string {
	return FormatRemaining(snapshot.Remaining)
}

// CanStart reports whether Start would change the state.
func (snapshot Snapshot) CanStart() bool {
	return snapshot.Remaining > 0 && snapshot.State != StateRunning
}

// CanPause reports whether Pause would change the state.
func (snapshot Snapshot) CanPause() bool {
	return snapshot.Remaining > 0 && snapshot.State != StatePaused
}

// CanResume reports whether Resume would change the state.
func (snapshot Snapshot) CanResume() bool {
	return snapshot.Remaining > 0 && snapshot.State == StatePaused
}

// CanReset reports whether Reset is available. Reset is accepted in every state.
func (snapshot Snapshot) CanReset() bool {
	return true
}

// Event represents a countdown update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	At       time.Time
}
