package preferences

import (
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window          fyne.Window
	settings        Settings
	onSave          func(Settings)
	defaultDuration *widget.Entry
	remember        *widget.Check
	saveButton      *widget.Button
	cancelButton    *widget.Button
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Countdown Settings")

	defaultDuration := widget.NewEntry()
	defaultDuration.SetPlaceHolder("none")
	remember := widget.NewCheck("Remember last applied duration", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Duration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Prefill with"), defaultDuration, widget.NewLabel("sec")),
		remember,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 200))

	prefs := &Window{
		window:          window,
		onSave:          onSave,
		defaultDuration: defaultDuration,
		remember:        remember,
		saveButton:      saveButton,
		cancelButton:    cancelButton,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.defaultDuration.SetText(settings.PrefillText())
	prefs.remember.SetChecked(settings.RememberLastDuration)
}

// Settings returns the last saved settings.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if prefs.defaultDuration.Text == "" {
		settings.DefaultDuration = 0
	} else if seconds, ok := parsePositiveInt(prefs.defaultDuration.Text); ok && ValidDefaultSeconds(seconds) {
		settings.DefaultDuration = time.Duration(seconds) * time.Second
	}
	settings.RememberLastDuration = prefs.remember.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
