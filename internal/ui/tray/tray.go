package tray

import (
	"fmt"

	"countdown/internal/core/countdown"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// App is the part of desktop.App the tray needs.
type App interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnStart       func()
	OnPause       func()
	OnResume      func()
	OnReset       func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        App
	name       string
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	resumeItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	items      []*fyne.MenuItem
	iconState  countdown.State
}

// New creates a tray manager with the provided callbacks.
func New(app App, name string, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:  app,
		name: name,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Start", handler(callbacks.OnStart))
	manager.pauseItem = fyne.NewMenuItem("Pause", handler(callbacks.OnPause))
	manager.resumeItem = fyne.NewMenuItem("Resume", handler(callbacks.OnResume))
	manager.resetItem = fyne.NewMenuItem("Reset", handler(callbacks.OnReset))

	manager.items = []*fyne.MenuItem{
		manager.statusItem,
		fyne.NewMenuItem("Show timer", handler(callbacks.OnShow)),
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		manager.resumeItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", handler(callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", handler(callbacks.OnQuit)),
	}

	manager.Update(countdown.Snapshot{State: countdown.StateIdle})
	return manager
}

// Update reflects snapshot in the status line, item availability and icon.
func (manager *Manager) Update(snapshot countdown.Snapshot) {
	manager.statusItem.Label = StatusLine(snapshot)
	manager.startItem.Disabled = !snapshot.CanStart()
	manager.pauseItem.Disabled = !snapshot.CanPause()
	manager.resumeItem.Disabled = !snapshot.CanResume()
	manager.resetItem.Disabled = !snapshot.CanReset()

	if snapshot.State != manager.iconState {
		manager.app.SetSystemTrayIcon(stateIcon(snapshot.State))
		manager.iconState = snapshot.State
	}
	manager.refreshMenu()
}

// StatusLine formats the tray status label.
func StatusLine(snapshot countdown.Snapshot) string {
	return fmt.Sprintf("Status: %s left (%s)", snapshot.Display(), snapshot.State)
}

func (manager *Manager) refreshMenu() {
	manager.app.SetSystemTrayMenu(fyne.NewMenu(manager.name, manager.items...))
}

func stateIcon(state countdown.State) fyne.Resource {
	switch state {
	case countdown.StateRunning:
		return theme.MediaPlayIcon()
	case countdown.StatePaused:
		return theme.MediaPauseIcon()
	default:
		return theme.HistoryIcon()
	}
}

func handler(callback func()) func() {
	return func() {
		if callback != nil {
			callback()
		}
	}
}
