package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pomobar/internal/core/countdown"
	"pomobar/internal/core/model"
	"pomobar/internal/core/session"
	"pomobar/internal/platform"
	settingsstore "pomobar/internal/storage"
	"pomobar/internal/ui/notify"
	"pomobar/internal/ui/tray"
)

const appName = "pomobar"

func main() {
	configPath := flag.String("config", "", "path to settings.yaml (default: user config dir)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [start|pause|reset]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	setupLogging(*debug)

	if flag.NArg() > 0 {
		os.Exit(forward(flag.Arg(0)))
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Warn().Err(err).Msg("Single instance")
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	path := *configPath
	if path == "" {
		path, err = settingsstore.SettingsPath(appName)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to resolve settings path")
		}
	}
	if err := settingsstore.EnsureSettings(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to write default settings")
	}
	config, err := settingsstore.LoadSettings(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Using default settings")
		config = model.DefaultConfig()
	}

	history, err := settingsstore.OpenHistory(settingsstore.HistoryPath(path))
	if err != nil {
		log.Warn().Err(err).Msg("Phase history disabled")
	}

	fyneApp := app.NewWithID("com.pomobar.app")
	fyneApp.SetIcon(theme.HistoryIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Error().Msg("System tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow("Pomobar")
	trayWindow.SetContent(widget.NewLabel("Pomobar is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	var controller *session.Controller
	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnStart: func() { controller.Start() },
		OnPause: func() { controller.Pause() },
		OnReset: func() {
			if err := controller.Reset(); err != nil {
				log.Error().Err(err).Msg("Reset failed")
			}
		},
		OnSettings: func() {
			if err := fyneApp.OpenURL(&url.URL{Scheme: "file", Path: path}); err != nil {
				log.Error().Err(err).Msg("Failed to open settings")
			}
		},
		OnQuit: func() {
			controller.Dispose()
			fyneApp.Quit()
		},
	})

	deps := session.Dependencies{
		Display:  trayManager,
		Notifier: notify.New(fyneApp, "Pomobar"),
	}
	if history != nil {
		defer history.Close()
		deps.Recorder = &countingRecorder{history: history, tray: trayManager}
		refreshCompleted(context.Background(), history, trayManager)
	}

	controller, err = session.New(config, deps, session.Options{
		Timer: countdown.Config{TickInterval: time.Second},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid session configuration")
	}

	watcher, err := settingsstore.NewSettingsWatcher(path, func() {
		updated, err := settingsstore.LoadSettings(path)
		if err != nil {
			log.Error().Err(err).Msg("Settings reload failed, keeping current configuration")
			return
		}
		changed, err := controller.Reload(updated)
		if err != nil {
			log.Error().Err(err).Msg("Settings rejected, keeping current configuration")
			return
		}
		if !changed {
			log.Debug().Msg("Settings unchanged")
			return
		}
		log.Info().Int("pomodori", len(updated.Intervals())).Msg("Settings reloaded")
	})
	if err == nil {
		err = watcher.Start()
	}
	if err != nil {
		log.Warn().Err(err).Msg("Settings watcher disabled")
	} else {
		defer watcher.Stop()
	}

	go guard.Serve(func(command platform.Command) {
		switch command {
		case platform.CommandStart:
			controller.Start()
		case platform.CommandPause:
			controller.Pause()
		case platform.CommandReset:
			if err := controller.Reset(); err != nil {
				log.Error().Err(err).Msg("Reset failed")
			}
		}
	})

	fyneApp.Lifecycle().SetOnStopped(controller.Dispose)
	fyneApp.Run()
}

func setupLogging(debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func forward(name string) int {
	command, err := platform.ParseCommand(name)
	if err != nil {
		log.Error().Err(err).Msg("Invalid command")
		return 2
	}
	if err := platform.Send(appName, command); err != nil {
		log.Error().Err(err).Msg("Pomobar is not running")
		return 1
	}
	return 0
}

// countingRecorder stores phases and keeps the tray's completed-today counter current.
type countingRecorder struct {
	history *settingsstore.HistoryStore
	tray    *tray.Manager
}

func (recorder *countingRecorder) Record(ctx context.Context, record model.PhaseRecord) error {
	if err := recorder.history.Record(ctx, record); err != nil {
		return err
	}
	if record.Kind == model.PhaseWork {
		refreshCompleted(ctx, recorder.history, recorder.tray)
	}
	return nil
}

func refreshCompleted(ctx context.Context, history *settingsstore.HistoryStore, trayManager *tray.Manager) {
	count, err := history.CountSince(ctx, model.PhaseWork, startOfDay(time.Now()))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count completed pomodori")
		return
	}
	trayManager.SetCompleted(count)
}

func startOfDay(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}
