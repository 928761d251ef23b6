package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
)

// MenuHost is the part of desktop.App the tray needs.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowCalculator func()
	OnPreferences    func()
	OnClear          func()
	OnQuit           func()
}

// Manager handles system tray state.
type Manager struct {
	host        MenuHost
	title       string
	callbacks   Callbacks
	statusItem  *fyne.MenuItem
	statusLabel string
	menu        *fyne.Menu
}

// New creates a tray manager with the provided callbacks.
func New(host MenuHost, title string, callbacks Callbacks) *Manager {
	manager := &Manager{
		host:        host,
		title:       title,
		callbacks:   callbacks,
		statusLabel: "ready",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.refreshMenu()

	return manager
}

// SetStatus updates the status label with the latest result.
func (manager *Manager) SetStatus(status string) {
	if status == "" {
		status = "ready"
	}
	manager.statusLabel = status
	manager.refreshMenu()
}

// Menu returns the menu currently installed.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

func (manager *Manager) refreshMenu() {
	manager.statusItem.Label = fmt.Sprintf("Last result: %s", manager.statusLabel)
	manager.menu = fyne.NewMenu(manager.title,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show calculator", call(manager.callbacks.OnShowCalculator)),
		fyne.NewMenuItem("Clear", call(manager.callbacks.OnClear)),
		fyne.NewMenuItem("Preferences", call(manager.callbacks.OnPreferences)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", call(manager.callbacks.OnQuit)),
	)
	if manager.host != nil {
		manager.host.SetSystemTrayMenu(manager.menu)
	}
}

func call(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
