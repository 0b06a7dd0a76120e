package countdown

import (
	"math"
	"testing"
	"time"

	"countdown/internal/core/model"
	"countdown/internal/core/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, *scheduler.Manual) {
	t.Helper()
	clock := scheduler.NewManual()
	engine := New(clock, model.EngineConfig{})
	t.Cleanup(engine.Close)
	return engine, clock
}

// requireConsistent checks the relations that must hold after every operation.
func requireConsistent(t *testing.T, engine *Engine, clock *scheduler.Manual) {
	t.Helper()
	snapshot := engine.Snapshot()
	if snapshot.HasDuration {
		require.LessOrEqual(t, snapshot.Remaining, snapshot.Duration)
	}
	require.GreaterOrEqual(t, snapshot.Remaining, 0)
	require.Equal(t, snapshot.State == StateRunning, engine.Ticking())
	require.LessOrEqual(t, clock.Active(), 1)
	require.Equal(t, engine.Ticking(), clock.Active() == 1)
	if snapshot.Remaining == 0 {
		require.Contains(t, []State{StateIdle, StateExpired}, snapshot.State)
	}
}

func TestNewEngineIsIdleWithoutDuration(t *testing.T) {
	engine, clock := newTestEngine(t)

	snapshot := engine.Snapshot()
	assert.Equal(t, StateIdle, snapshot.State)
	assert.False(t, snapshot.HasDuration)
	assert.Equal(t, 0, snapshot.Remaining)
	assert.Equal(t, "00:00", engine.Remaining())
	requireConsistent(t, engine, clock)
}

func TestSetDurationMatchesFormat(t *testing.T) {
	for _, seconds := range []int{0, 1, 59, 60, 61, 125, 3599, 3600, 6000} {
		engine, _ := newTestEngine(t)
		engine.SetDuration(float64(seconds))
		assert.Equal(t, FormatRemaining(seconds), engine.Remaining(), "seconds=%d", seconds)
	}
}

func TestSetDurationTruncatesFraction(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.SetDuration(2.9)

	snapshot := engine.Snapshot()
	assert.Equal(t, 2, snapshot.Duration)
	assert.Equal(t, 2, snapshot.Remaining)
}

func TestInvalidDurationClearsDurationOnly(t *testing.T) {
	invalid := []float64{-5, -0.5, math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, value := range invalid {
		engine, clock := newTestEngine(t)
		engine.SetDuration(30)
		engine.Start()
		clock.Step(4)

		engine.SetDuration(value)

		snapshot := engine.Snapshot()
		assert.False(t, snapshot.HasDuration, "value=%v", value)
		assert.Equal(t, 26, snapshot.Remaining, "value=%v", value)
		assert.Equal(t, StateRunning, snapshot.State, "value=%v", value)
		requireConsistent(t, engine, clock)
	}
}

func TestHugeDurationIsClamped(t *testing.T) {
	engine, clock := newTestEngine(t)

	huge := 3e9
	want := maxDurationSeconds
	if huge < float64(maxDurationSeconds) {
		want = int(huge)
	}
	engine.SetDuration(huge)
	snapshot := engine.Snapshot()
	assert.True(t, snapshot.HasDuration)
	assert.Equal(t, want, snapshot.Duration)

	engine.SetDuration(1e300)
	snapshot = engine.Snapshot()
	assert.True(t, snapshot.HasDuration)
	assert.Equal(t, maxDurationSeconds, snapshot.Duration)
	assert.Equal(t, maxDurationSeconds, snapshot.Remaining)

	engine.Start()
	clock.Step(1)
	assert.Equal(t, maxDurationSeconds-1, engine.Snapshot().Remaining)
	requireConsistent(t, engine, clock)
}

func TestInvalidDurationThenStartIsNoop(t *testing.T) {
	engine, clock := newTestEngine(t)

	engine.SetDuration(-5)
	engine.Start()

	snapshot := engine.Snapshot()
	assert.False(t, snapshot.HasDuration)
	assert.Equal(t, StateIdle, snapshot.State)
	assert.Equal(t, 0, clock.Active())
	requireConsistent(t, engine, clock)
}

func TestStartIsIdempotent(t *testing.T) {
	engine, clock := newTestEngine(t)
	engine.SetDuration(10)

	engine.Start()
	engine.Start()

	assert.Equal(t, StateRunning, engine.Snapshot().State)
	assert.Equal(t, 1, clock.Active())
	clock.Advance(3 * time.Second)
	assert.Equal(t, 7, engine.Snapshot().Remaining)
	requireConsistent(t, engine, clock)
}

func TestStartWithZeroDurationIsNoop(t *testing.T) {
	engine, clock := newTestEngine(t)
	engine.SetDuration(0)

	engine.Start()

	assert.Equal(t, StateIdle, engine.Snapshot().State)
	assert.Equal(t, 0, clock.Active())
}

func TestTickDecreasesUntilExpired(t *testing.T) {
	engine, clock := newTestEngine(t)
	engine.SetDuration(5)
	engine.Start()

	for want := 4; want > 0; want-- {
		require.Equal(t, 1, clock.Step(1))
		snapshot := engine.Snapshot()
		require.Equal(t, want, snapshot.Remaining)
		require.Equal(t, StateRunning, snapshot.State)
		requireConsistent(t, engine, clock)
	}

	require.Equal(t, 1, clock.Step(1))
	snapshot := engine.Snapshot()
	assert.Equal(t, 0, snapshot.Remaining)
	assert.Equal(t, StateExpired, snapshot.State)
	assert.Equal(t, 0, clock.Step(10))
	requireConsistent(t, engine, clock)

	engine.Tick()
	assert.Equal(t, 0, engine.Snapshot().Remaining)
}

func TestManualTickOnlyWhileRunning(t *testing.T) {
	engine, clock := newTestEngine(t)
	engine.SetDuration(10)

	engine.Tick()
	assert.Equal(t, 10, engine.Snapshot().Remaining)

	engine.Start()
	engine.Tick()
	assert.Equal(t, 9, engine.Snapshot().Remaining)

	engine.Pause()
	engine.Tick()
	assert.Equal(t, 9, engine.Snapshot().Remaining)
	requireConsistent(t, engine, clock)
}

func TestPauseResumeKeepsRemaining(t *testing.T) {
	engine, clock := newTestEngine(t)
	engine.SetDuration(20)
	engine.Start()
	clock.Step(5)

	engine.Pause()
	requireConsistent(t, engine, clock)
	clock.Advance(time.Hour)
	assert.Equal(t, 15, engine.Snapshot().Remaining)

	engine.Resume()
	snapshot := engine.Snapshot()
	assert.Equal(t, StateRunning, snapshot.State)
	assert.Equal(t, 15, snapshot.Remaining)
	requireConsistent(t, engine, clock)
}

func TestPauseFromIdleThenResume(t *testing.T) {
	engine, clock := newTestEngine(t)
	engine.SetDuration(3)

	engine.Pause()
	assert.Equal(t, StatePaused, engine.Snapshot().State)

	engine.Resume()
	assert.Equal(t, StateRunning, engine.Snapshot().State)
	requireConsistent(t, engine, clock)
}

func TestPauseAtZeroIsNoop(t *testing.T) {
	engine, clock := newTestEngine(t)
	engine.SetDuration(1)
	engine.Start()
	clock.Step(1)

	engine.Pause()

	assert.Equal(t, StateExpired, engine.Snapshot().State)
}

func TestResumeFromIdleIsNoop(t *testing.T) {
	engine, clock := newTestEngine(t)
	engine.SetDuration(30)

	engine.Resume()

	assert.Equal(t, StateIdle, engine.Snapshot().State)
	assert.Equal(t, 0, clock.Active())
}

func TestStartFromPausedRuns(t *testing.T) {
	engine, clock := newTestEngine(t)
	engine.SetDuration(30)
	engine.Start()
	engine.Pause()

	engine.Start()

	assert.Equal(t, StateRunning, engine.Snapshot().State)
	assert.Equal(t, 1, clock.Active())
}

func TestResetIsAbsorbing(t *testing.T) {
	prepare := map[string]func(*Engine, *scheduler.Manual){
		"idle":    func(*Engine, *scheduler.Manual) {},
		"running": func(engine *Engine, clock *scheduler.Manual) { engine.Start(); clock.Step(3) },
		"paused":  func(engine *Engine, clock *scheduler.Manual) { engine.Start(); clock.Step(2); engine.Pause() },
		"expired": func(engine *Engine, clock *scheduler.Manual) { engine.Start(); clock.Step(100) },
	}
	for name, setup := range prepare {
		t.Run(name, func(t *testing.T) {
			engine, clock := newTestEngine(t)
			engine.SetDuration(42)
			setup(engine, clock)

			engine.Reset()

			assert.Equal(t, FormatRemaining(42), engine.Remaining())
			assert.Equal(t, StateIdle, engine.Snapshot().State)
			requireConsistent(t, engine, clock)
		})
	}
}

func TestResetWithoutDurationIsZero(t *testing.T) {
	engine, clock := newTestEngine(t)
	engine.SetDuration(30)
	engine.Start()
	clock.Step(5)
	engine.SetDuration(-1)

	engine.Reset()

	snapshot := engine.Snapshot()
	assert.Equal(t, 0, snapshot.Remaining)
	assert.Equal(t, StateIdle, snapshot.State)
	requireConsistent(t, engine, clock)
}

func TestSetDurationWhileRunningCancelsTick(t *testing.T) {
	engine, clock := newTestEngine(t)
	engine.SetDuration(30)
	engine.Start()
	clock.Step(5)

	engine.SetDuration(10)

	snapshot := engine.Snapshot()
	assert.Equal(t, StateIdle, snapshot.State)
	assert.Equal(t, 10, snapshot.Remaining)
	assert.Equal(t, 0, clock.Active())
	requireConsistent(t, engine, clock)
}

func TestStaleTickIsIgnored(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.SetDuration(10)
	engine.Start()
	stale := engine.generation

	engine.Pause()
	engine.Resume()
	engine.tickFrom(stale)

	assert.Equal(t, 10, engine.Snapshot().Remaining)
}

func TestCountdownScenario(t *testing.T) {
	engine, clock := newTestEngine(t)

	engine.SetDuration(125)
	assert.Equal(t, "02:05", engine.Remaining())

	engine.Start()
	clock.Advance(65 * time.Second)
	assert.Equal(t, 60, engine.Snapshot().Remaining)
	assert.Equal(t, "01:00", engine.Remaining())

	engine.Pause()
	clock.Advance(10 * time.Minute)
	assert.Equal(t, "01:00", engine.Remaining())

	engine.Resume()
	clock.Advance(60 * time.Second)
	snapshot := engine.Snapshot()
	assert.Equal(t, StateExpired, snapshot.State)
	assert.Equal(t, "00:00", engine.Remaining())
	requireConsistent(t, engine, clock)
}

func TestSetDurationText(t *testing.T) {
	engine, _ := newTestEngine(t)

	engine.SetDurationText(" 90 ")
	assert.Equal(t, "01:30", engine.Remaining())
	assert.True(t, engine.Snapshot().HasDuration)

	engine.SetDurationText("abc")
	snapshot := engine.Snapshot()
	assert.False(t, snapshot.HasDuration)
	assert.Equal(t, 90, snapshot.Remaining)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	engine, clock := newTestEngine(t)
	events := engine.Subscribe(16)

	engine.SetDuration(2)
	engine.Start()
	clock.Step(2)

	var types []EventType
	for len(events) > 0 {
		event := <-events
		types = append(types, event.Type)
	}
	assert.Equal(t, []EventType{EventDurationChange, EventStateChange, EventTick, EventExpired}, types)
}

func TestSubscribeDropsWhenFull(t *testing.T) {
	engine, clock := newTestEngine(t)
	events := engine.Subscribe(1)

	engine.SetDuration(10)
	engine.Start()
	clock.Step(3)

	event := <-events
	assert.Equal(t, EventDurationChange, event.Type)
	assert.Empty(t, events)
	assert.Equal(t, 7, engine.Snapshot().Remaining)
}

func TestCloseCancelsTickAndClosesObservers(t *testing.T) {
	engine, clock := newTestEngine(t)
	events := engine.Subscribe(4)
	engine.SetDuration(10)
	engine.Start()
	<-events
	<-events

	engine.Close()
	engine.Close()

	assert.Equal(t, 0, clock.Active())
	assert.False(t, engine.Ticking())
	_, open := <-events
	assert.False(t, open)

	engine.Start()
	engine.SetDuration(5)
	assert.Equal(t, 0, clock.Active())
	assert.Equal(t, 10, engine.Snapshot().Remaining)

	late := engine.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}

func TestTickerSchedulerDrivesEngine(t *testing.T) {
	engine := New(scheduler.NewTicker(nil), model.EngineConfig{TickInterval: 2 * time.Millisecond})
	defer engine.Close()
	events := engine.Subscribe(8)

	engine.SetDuration(3)
	engine.Start()

	require.Eventually(t, func() bool {
		return engine.Snapshot().State == StateExpired
	}, 2*time.Second, time.Millisecond)
	assert.False(t, engine.Ticking())
	assert.NotEmpty(t, events)
}
