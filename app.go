package main

import (
	"context"
	"errors"
	"io"
	"sync"

	"augmentstats/internal/config"
	"augmentstats/internal/data"
	"augmentstats/internal/logging"
	"augmentstats/internal/progress"
	"augmentstats/internal/tracker"

	"github.com/rs/zerolog/log"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var errNotReady = errors.New("tracker not initialized")

// App struct
type App struct {
	ctx       context.Context
	cfg       *config.Config
	tracker   *tracker.Tracker
	hub       *progress.Hub
	logCloser io.Closer

	mu         sync.Mutex
	processing context.CancelFunc
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{hub: progress.NewHub()}
}

// startup is called when the app starts
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("[App] invalid configuration")
		runtime.EventsEmit(ctx, "app:error", err.Error())
		return
	}
	a.cfg = cfg

	logFile := cfg.LogFile
	if logFile == "" {
		logFile = config.DefaultLogFile(data.DefaultDBPath())
	}
	if closer, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Pretty: true, File: logFile}); err != nil {
		log.Warn().Err(err).Msg("[App] failed to set up logging")
	} else {
		a.logCloser = closer
	}

	t, err := tracker.Open(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("[App] failed to open tracker")
		runtime.EventsEmit(ctx, "app:error", err.Error())
		return
	}
	a.tracker = t

	if cfg.ProgressAddr != "" {
		if _, err := progress.Serve(ctx, cfg.ProgressAddr, a.hub); err != nil {
			log.Warn().Err(err).Msg("[App] progress stream disabled")
		}
	}

	runtime.OnFileDrop(ctx, func(x, y int, paths []string) {
		if err := a.ProcessFiles(paths); err != nil {
			a.emitError(err)
		}
	})

	// Pull the shared icon pack in the background
	if cfg.IconManifestURL != "" {
		go func() {
			if _, _, err := t.PullIconPack(ctx); err != nil {
				log.Warn().Err(err).Msg("[App] icon pack update failed")
			}
		}()
	}
}

// shutdown is called when the app is closing
func (a *App) shutdown(ctx context.Context) {
	a.CancelProcessing()
	a.hub.Close()
	if a.tracker != nil {
		a.tracker.Close()
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}

func (a *App) ready() error {
	if a.tracker == nil {
		return errNotReady
	}
	return nil
}
