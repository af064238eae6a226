package tray

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/systray"

	"pomobar/internal/core/session"
)

const menuTitle = "Pomobar"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart    func()
	OnPause    func()
	OnReset    func()
	OnSettings func()
	OnQuit     func()
}

// Manager renders session state into the system tray and exposes the start/pause commands.
type Manager struct {
	mu        sync.Mutex
	app       desktop.App
	callbacks Callbacks
	display   session.Display
	completed int
	disposed  bool

	// Swapped in tests; the defaults touch the running tray.
	do       func(func())
	setTitle func(string)
	setTip   func(string)
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		display:   session.Display{TimerText: "--:--", StartVisible: true},
		do:        fyne.Do,
		setTitle:  systray.SetTitle,
		setTip:    systray.SetTooltip,
	}
	return manager
}

// Render implements session.DisplaySink.
func (manager *Manager) Render(display session.Display) {
	manager.mu.Lock()
	if manager.disposed {
		manager.mu.Unlock()
		return
	}
	manager.display = display
	manager.mu.Unlock()

	manager.do(manager.refresh)
}

// Dispose implements session.DisplaySink. The tray keeps only the quit action.
func (manager *Manager) Dispose() {
	manager.mu.Lock()
	manager.disposed = true
	manager.mu.Unlock()

	manager.do(func() {
		manager.setTitle("")
		manager.setTip("")
		if manager.app != nil {
			manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle, manager.quitItem()))
		}
	})
}

// SetCompleted updates the count of work phases finished today.
func (manager *Manager) SetCompleted(count int) {
	manager.mu.Lock()
	manager.completed = count
	disposed := manager.disposed
	manager.mu.Unlock()

	if !disposed {
		manager.do(manager.refresh)
	}
}

// Menu builds the tray menu for the current state.
func (manager *Manager) Menu() *fyne.Menu {
	manager.mu.Lock()
	display := manager.display
	completed := manager.completed
	manager.mu.Unlock()

	statusItem := fyne.NewMenuItem(display.Text(), nil)
	statusItem.Disabled = true

	items := []*fyne.MenuItem{statusItem}
	if display.StartVisible {
		startItem := fyne.NewMenuItem("Start Session", invoke(manager.callbacks.OnStart))
		startItem.Icon = theme.MediaPlayIcon()
		items = append(items, startItem)
	}
	if display.PauseVisible {
		pauseItem := fyne.NewMenuItem("Pause Session", invoke(manager.callbacks.OnPause))
		pauseItem.Icon = theme.MediaPauseIcon()
		items = append(items, pauseItem)
	}

	resetItem := fyne.NewMenuItem("Reset", invoke(manager.callbacks.OnReset))
	resetItem.Icon = theme.MediaReplayIcon()

	completedItem := fyne.NewMenuItem(fmt.Sprintf("Completed today: %d", completed), nil)
	completedItem.Disabled = true

	settingsItem := fyne.NewMenuItem("Edit settings", invoke(manager.callbacks.OnSettings))

	items = append(items,
		resetItem,
		fyne.NewMenuItemSeparator(),
		completedItem,
		settingsItem,
		manager.quitItem(),
	)
	return fyne.NewMenu(menuTitle, items...)
}

func (manager *Manager) refresh() {
	manager.mu.Lock()
	text := manager.display.Text()
	running := manager.display.PauseVisible
	manager.mu.Unlock()

	manager.setTitle(text)
	manager.setTip(text)
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(manager.Menu())
	if running {
		manager.app.SetSystemTrayIcon(theme.MediaRecordIcon())
	} else {
		manager.app.SetSystemTrayIcon(theme.HistoryIcon())
	}
}

func (manager *Manager) quitItem() *fyne.MenuItem {
	item := fyne.NewMenuItem("Quit", invoke(manager.callbacks.OnQuit))
	item.IsQuit = true
	return item
}

func invoke(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
