package panel

import (
	"image/color"

	"countdown/internal/core/countdown"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Config defines the countdown window.
type Config struct {
	Title   string
	Prefill string
	Width   float32
	Height  float32
}

var (
	idleColor    = color.NRGBA{R: 33, G: 37, B: 41, A: 255}
	runningColor = color.NRGBA{R: 13, G: 148, B: 136, A: 255}
	pausedColor  = color.NRGBA{R: 245, G: 158, B: 11, A: 255}
	expiredColor = color.NRGBA{R: 225, G: 29, B: 72, A: 255}
)

// Window is the countdown widget: a duration entry, the remaining time and
// the run controls. All methods must be called on the fyne UI goroutine.
type Window struct {
	window       fyne.Window
	engine       *countdown.Engine
	entry        *widget.Entry
	display      *canvas.Text
	stateLabel   *widget.Label
	setButton    *widget.Button
	startButton  *widget.Button
	pauseButton  *widget.Button
	resumeButton *widget.Button
	resetButton  *widget.Button
	onApplied    func(int)
	onClosed     func()
}

// New creates the countdown window bound to engine.
func New(app fyne.App, engine *countdown.Engine, config Config) *Window {
	title := config.Title
	if title == "" {
		title = "Countdown Timer"
	}
	window := app.NewWindow(title)

	heading := widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	entry := widget.NewEntry()
	entry.SetPlaceHolder("Set duration (seconds)")
	entry.SetText(config.Prefill)

	display := canvas.NewText("00:00 left", idleColor)
	display.Alignment = fyne.TextAlignCenter
	display.TextStyle = fyne.TextStyle{Monospace: true}
	display.TextSize = 48

	panel := &Window{
		window:     window,
		engine:     engine,
		entry:      entry,
		display:    display,
		stateLabel: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
	}

	panel.setButton = widget.NewButton("Set Duration", panel.applyDuration)
	panel.startButton = widget.NewButton("Start", panel.control(engine.Start))
	panel.pauseButton = widget.NewButton("Pause", panel.control(engine.Pause))
	panel.resumeButton = widget.NewButton("Resume", panel.control(engine.Resume))
	panel.resetButton = widget.NewButton("Reset", panel.control(engine.Reset))

	// Typing invalid text clears the configured duration; valid text waits for Set Duration.
	entry.OnChanged = func(text string) {
		if _, ok := countdown.ParseDurationInput(text); !ok {
			engine.SetDurationText(text)
			panel.Render(engine.Snapshot())
		}
	}
	entry.OnSubmitted = func(string) {
		panel.applyDuration()
	}

	controls := container.NewHBox(
		layout.NewSpacer(),
		panel.startButton,
		panel.pauseButton,
		panel.resumeButton,
		panel.resetButton,
		layout.NewSpacer(),
	)
	content := container.NewVBox(
		heading,
		entry,
		container.NewCenter(panel.setButton),
		layout.NewSpacer(),
		display,
		panel.stateLabel,
		layout.NewSpacer(),
		controls,
	)
	window.SetContent(container.NewPadded(content))

	if config.Width > 0 && config.Height > 0 {
		window.Resize(fyne.NewSize(config.Width, config.Height))
	}

	// Removing the widget tears the engine down so no tick outlives it.
	window.SetOnClosed(func() {
		engine.Close()
		if panel.onClosed != nil {
			panel.onClosed()
		}
	})

	panel.Render(engine.Snapshot())
	return panel
}

// SetOnApplied sets a handler fired with the seconds of every accepted duration.
func (panel *Window) SetOnApplied(handler func(int)) {
	panel.onApplied = handler
}

// SetOnClosed sets a handler fired after the window closes.
func (panel *Window) SetOnClosed(handler func()) {
	panel.onClosed = handler
}

// Show displays the window.
func (panel *Window) Show() {
	panel.window.Show()
	panel.window.RequestFocus()
}

// Window returns the underlying fyne window.
func (panel *Window) Window() fyne.Window {
	return panel.window
}

// Follow renders every event from events on the UI goroutine until the
// channel is closed.
func (panel *Window) Follow(events <-chan countdown.Event) {
	go func() {
		for event := range events {
			snapshot := event.Snapshot
			fyne.Do(func() {
				panel.Render(snapshot)
			})
		}
	}()
}

// Render updates the display and control availability.
func (panel *Window) Render(snapshot countdown.Snapshot) {
	panel.display.Text = snapshot.Display() + " left"
	panel.display.Color = stateColor(snapshot.State)
	panel.display.Refresh()
	panel.stateLabel.SetText(stateDescription(snapshot))

	setEnabled(panel.startButton, snapshot.CanStart())
	setEnabled(panel.pauseButton, snapshot.CanPause())
	setEnabled(panel.resumeButton, snapshot.CanResume())
	setEnabled(panel.resetButton, snapshot.CanReset())
}

func (panel *Window) applyDuration() {
	panel.engine.SetDurationText(panel.entry.Text)
	snapshot := panel.engine.Snapshot()
	if snapshot.HasDuration && panel.onApplied != nil {
		panel.onApplied(snapshot.Duration)
	}
	panel.Render(snapshot)
}

func (panel *Window) control(action func()) func() {
	return func() {
		action()
		panel.Render(panel.engine.Snapshot())
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}

func stateColor(state countdown.State) color.Color {
	switch state {
	case countdown.StateRunning:
		return runningColor
	case countdown.StatePaused:
		return pausedColor
	case countdown.StateExpired:
		return expiredColor
	default:
		return idleColor
	}
}

func stateDescription(snapshot countdown.Snapshot) string {
	switch snapshot.State {
	case countdown.StateRunning:
		return "Running"
	case countdown.StatePaused:
		return "Paused"
	case countdown.StateExpired:
		return "Time's up"
	}
	if !snapshot.HasDuration {
		return "No duration set"
	}
	return "Ready"
}
