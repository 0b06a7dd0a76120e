package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"countdown/internal/core/countdown"
	"countdown/internal/core/model"
	"countdown/internal/core/scheduler"
	"countdown/internal/platform"
	"countdown/internal/storage"
	"countdown/internal/ui/panel"
	"countdown/internal/ui/preferences"
	"countdown/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

const appName = "Countdown"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	guard, err := platform.AcquireSingleInstance(context.Background(), appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info("another countdown is already open", "error", err)
			return
		}
		logger.Error("single instance", "error", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", "error", err)
	}
	var prefsWindow *preferences.Window
	saveSettings := func(updated preferences.Settings) {
		settings = updated
		if prefsWindow != nil {
			prefsWindow.UpdateSettings(settings)
		}
		if err := storage.SaveSettings(appName, settings); err != nil {
			logger.Warn("save settings", "error", err)
		}
	}

	fyneApp := app.NewWithID("com.countdown.app")
	fyneApp.SetIcon(theme.HistoryIcon())

	// Ticks are dispatched onto the UI goroutine so they serialize with button handlers.
	engine := countdown.New(
		scheduler.NewTicker(fyne.Do),
		model.EngineConfig{},
		countdown.WithLogger(logger.With("component", "countdown")),
	)
	defer engine.Close()

	timerWindow := panel.New(fyneApp, engine, panel.Config{
		Title:   "Countdown Timer",
		Prefill: settings.PrefillText(),
		Width:   settings.WindowWidth,
		Height:  settings.WindowHeight,
	})
	timerWindow.Window().SetMaster()
	timerWindow.SetOnApplied(func(seconds int) {
		if settings.RememberLastDuration {
			saveSettings(settings.WithAppliedDuration(seconds))
		}
	})
	timerWindow.SetOnClosed(func() {
		size := timerWindow.Window().Canvas().Size()
		updated := settings
		updated.WindowWidth = size.Width
		updated.WindowHeight = size.Height
		saveSettings(updated)
	})
	timerWindow.Follow(engine.Subscribe(16))

	prefsWindow = preferences.New(fyneApp, settings, saveSettings)

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, appName, tray.Callbacks{
			OnShow:        timerWindow.Show,
			OnStart:       engine.Start,
			OnPause:       engine.Pause,
			OnResume:      engine.Resume,
			OnReset:       engine.Reset,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		trayEvents := engine.Subscribe(16)
		go func() {
			for event := range trayEvents {
				snapshot := event.Snapshot
				fyne.Do(func() {
					trayManager.Update(snapshot)
				})
			}
		}()
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	timerWindow.Show()
	fyneApp.Run()
}
