package main

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"go.uber.org/zap"

	"quickcalc/internal/core/calclogic"
	"quickcalc/internal/platform"
	"quickcalc/internal/ui/keypad"
	"quickcalc/internal/ui/preferences"
	"quickcalc/internal/ui/secretwin"
	"quickcalc/internal/ui/tray"
)

func runGUI(env *environment) error {
	logger := env.logger

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info("raised the running instance", zap.Error(err))
			return nil
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	logic, err := env.newLogic(nil)
	if err != nil {
		return err
	}
	defer logic.Close()

	fyneApp := app.NewWithID("com.quickcalc.app")
	fyneApp.SetIcon(theme.GridIcon())
	desktopApp, hasTray := fyneApp.(desktop.App)

	settings := env.settings
	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		logic.UpdateConfig(settings.CalculatorConfig())
		if err := env.saveSettings(settings); err != nil {
			logger.Warn("saving settings failed", zap.Error(err))
		}
	})

	keypadWindow := keypad.New(fyneApp, keypad.Config{
		Title:         appName,
		HideOnClose:   hasTray,
		OnPreferences: prefsWindow.Show,
	}, logic)
	secretWindow := secretwin.New(fyneApp, secretwin.DefaultConfig())

	var trayManager *tray.Manager
	if hasTray {
		trayManager = tray.New(desktopApp, appName, tray.Callbacks{
			OnShowCalculator: keypadWindow.Show,
			OnPreferences:    prefsWindow.Show,
			OnClear:          logic.Clear,
			OnQuit:           fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(theme.GridIcon())
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	guard.Serve(func() {
		fyne.Do(keypadWindow.Show)
	})

	events := logic.Subscribe(32)
	go func() {
		for event := range events {
			fyne.Do(func() {
				handleEvent(event, keypadWindow, secretWindow, trayManager)
			})
		}
	}()

	keypadWindow.ShowAndRun()
	return nil
}

func handleEvent(event calclogic.Event, keypadWindow *keypad.Window, secretWindow *secretwin.Window, trayManager *tray.Manager) {
	switch event.Type {
	case calclogic.EventExpressionChanged:
		keypadWindow.SetExpression(event.Expression)
	case calclogic.EventResultChanged:
		keypadWindow.SetResult(event.Result)
		if trayManager != nil {
			trayManager.SetStatus(event.Result)
		}
	case calclogic.EventOpenSecretWindow:
		secretWindow.Show(event.Source)
	}
}
