package countdown

import (
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"countdown/internal/core/model"
	"countdown/internal/core/scheduler"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for transition tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(engine *Engine) {
		if logger != nil {
			engine.logger = logger
		}
	}
}

// Engine is the countdown state machine. At most one tick source is active
// at any time, and only while the state is StateRunning.
type Engine struct {
	mu          sync.Mutex
	scheduler   scheduler.Scheduler
	config      model.EngineConfig
	logger      *slog.Logger
	duration    int
	hasDuration bool
	remaining   int
	state       State
	cancelTick  scheduler.Cancel
	generation  uint64
	events      []chan Event
	closed      bool
}

// New creates an idle Engine with no duration.
func New(source scheduler.Scheduler, config model.EngineConfig, options ...Option) *Engine {
	engine := &Engine{
		scheduler: source,
		config:    config.WithDefaults(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:     StateIdle,
	}
	for _, option := range options {
		option(engine)
	}
	return engine
}

// Subscribe registers a new observer channel. Events are dropped for
// observers whose buffer is full.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	return ch
}

// SetDuration configures the countdown and returns to idle. Invalid values
// (negative, NaN, infinite) clear the duration and leave everything else as is.
func (engine *Engine) SetDuration(value float64) {
	seconds, ok := wholeSeconds(value)

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}

	if !ok {
		engine.duration = 0
		engine.hasDuration = false
		engine.traceLocked("set_duration", slog.Bool("valid", false))
		engine.emitLocked(EventDurationChange)
		return
	}

	engine.stopTickLocked()
	engine.duration = seconds
	engine.hasDuration = true
	engine.remaining = seconds
	engine.state = StateIdle
	engine.traceLocked("set_duration", slog.Bool("valid", true))
	engine.emitLocked(EventDurationChange)
}

// SetDurationText applies raw form input.
func (engine *Engine) SetDurationText(raw string) {
	seconds, ok := ParseDurationInput(raw)
	if !ok {
		engine.SetDuration(math.NaN())
		return
	}
	engine.SetDuration(float64(seconds))
}

// Start begins counting down. It does nothing when already running or when
// there is no time left.
func (engine *Engine) Start() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.remaining <= 0 || engine.state == StateRunning {
		return
	}
	engine.runLocked("start")
}

// Pause freezes the countdown from any state while time remains.
func (engine *Engine) Pause() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.remaining <= 0 || engine.state == StatePaused {
		return
	}
	engine.stopTickLocked()
	engine.state = StatePaused
	engine.traceLocked("pause")
	engine.emitLocked(EventStateChange)
}

// Resume continues a paused countdown. It never starts an idle one.
func (engine *Engine) Resume() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.state != StatePaused || engine.remaining <= 0 {
		return
	}
	engine.runLocked("resume")
}

// Reset stops the countdown and restores the configured duration, or zero
// when none is set.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}
	engine.stopTickLocked()
	engine.state = StateIdle
	engine.remaining = 0
	if engine.hasDuration {
		engine.remaining = engine.duration
	}
	engine.traceLocked("reset")
	engine.emitLocked(EventStateChange)
}

// Tick advances a running countdown by one second.
func (engine *Engine) Tick() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.state != StateRunning {
		return
	}
	engine.advanceLocked()
}

// Close cancels any active tick source and closes observers. Every later
// call on the engine is a no-op.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.stopTickLocked()
	events := engine.events
	engine.events = nil
	engine.traceLocked("close")
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Snapshot returns the current state.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// Remaining returns the remaining time formatted for display.
func (engine *Engine) Remaining() string {
	return engine.Snapshot().Display()
}

// Ticking reports whether a tick source is active.
func (engine *Engine) Ticking() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.cancelTick != nil
}

func (engine *Engine) runLocked(op string) {
	engine.startTickLocked()
	engine.state = StateRunning
	engine.traceLocked(op)
	engine.emitLocked(EventStateChange)
}

func (engine *Engine) tickFrom(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	// A cancelled source may still deliver one tick that was already in flight.
	if engine.closed || generation != engine.generation || engine.state != StateRunning {
		return
	}
	engine.advanceLocked()
}

func (engine *Engine) advanceLocked() {
	engine.remaining--
	if engine.remaining > 0 {
		engine.emitLocked(EventTick)
		return
	}

	engine.remaining = 0
	engine.stopTickLocked()
	engine.state = StateExpired
	engine.traceLocked("expire")
	engine.emitLocked(EventExpired)
}

func (engine *Engine) startTickLocked() {
	engine.stopTickLocked()
	generation := engine.generation
	engine.cancelTick = engine.scheduler.ScheduleRepeating(engine.config.TickInterval, func() {
		engine.tickFrom(generation)
	})
}

func (engine *Engine) stopTickLocked() {
	engine.generation++
	if engine.cancelTick != nil {
		engine.cancelTick()
		engine.cancelTick = nil
	}
}

func (engine *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Duration:    engine.duration,
		HasDuration: engine.hasDuration,
		Remaining:   engine.remaining,
		State:       engine.state,
	}
}

func (engine *Engine) traceLocked(op string, attrs ...slog.Attr) {
	args := []any{
		slog.String("op", op),
		slog.String("state", engine.state.String()),
		slog.Int("remaining", engine.remaining),
	}
	for _, attr := range attrs {
		args = append(args, attr)
	}
	engine.logger.Debug("countdown transition", args...)
}

func (engine *Engine) emitLocked(eventType EventType) {
	event := Event{
		Type:     eventType,
		Snapshot: engine.snapshotLocked(),
		At:       time.Now(),
	}
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}
