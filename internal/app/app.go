package app

import (
	"context"
	"sync"
	"time"

	"tickloop/internal/config"
	"tickloop/internal/storage"
	logx "tickloop/pkg/logx"
	"tickloop/pkg/periodic"
)

type App struct {
	cfgPath string
	cfgm    *config.Manager

	logs *logx.Service
	log  logx.Logger

	store storage.Store
	sup   *supervisor

	cancel  context.CancelFunc
	updates chan *config.Config

	mu       sync.Mutex
	tasks    map[string]*taskEntry
	watchdog *periodic.Executor
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logCfg(cfg))
	log = log.With(logx.String("comp", "app"))
	cfgm.SetLogger(log.With(logx.String("comp", "config")))

	a := &App{
		cfgPath: cfgPath,
		cfgm:    cfgm,
		logs:    logSvc,
		log:     log,
		sup:     newSupervisor(log),
		tasks:   map[string]*taskEntry{},
	}

	busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}, log.With(logx.String("comp", "storage")))
	if err != nil {
		// The demo keeps running without history rather than refusing to boot.
		log.Warn("run history disabled", logx.Err(err))
	}
	a.store = store

	return a, nil
}

func logCfg(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

// Store exposes the run-history store (nil when disabled).
func (a *App) Store() storage.Store { return a.store }

func (a *App) Start(ctx context.Context) error {
	cfg := a.cfgm.Get()

	a.applyTasks(cfg)
	a.startWatchdog(cfg)

	wctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.updates = a.cfgm.Subscribe(4)

	a.sup.Go("config-watch", func() {
		if err := a.cfgm.Watch(wctx); err != nil {
			a.log.Warn("config watcher exited", logx.Err(err))
		}
	})
	a.sup.Go("config-reload", func() { a.reloadLoop(wctx) })

	notifyReady(a.log)
	a.log.Info("tickdemo started", logx.Int("tasks", len(cfg.Tasks)))
	return nil
}

func (a *App) reloadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-a.updates:
			if !ok {
				return
			}
			a.logs.Apply(logCfg(cfg))
			a.applyTasks(cfg)
		}
	}
}

func (a *App) Stop(ctx context.Context) error {
	notifyStopping(a.log)

	if a.cancel != nil {
		a.cancel()
	}

	a.mu.Lock()
	entries := make([]*taskEntry, 0, len(a.tasks))
	for _, e := range a.tasks {
		entries = append(entries, e)
	}
	a.tasks = map[string]*taskEntry{}
	wd := a.watchdog
	a.watchdog = nil
	a.mu.Unlock()

	// Stop joins each worker, so after this loop no callback can run.
	for _, e := range entries {
		e.exec.Stop()
	}
	if wd != nil {
		wd.Stop()
	}

	wctx, cancel := waitCtx(ctx, 5*time.Second)
	defer cancel()
	if err := a.sup.Wait(wctx); err != nil {
		a.log.Warn("shutdown wait expired", logx.Err(err))
	}

	if a.updates != nil {
		a.cfgm.Unsubscribe(a.updates)
		a.updates = nil
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	a.log.Info("tickdemo stopped")
	return a.logs.Close()
}
