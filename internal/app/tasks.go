package app

import (
	"sync/atomic"

	"tickloop/internal/config"
	logx "tickloop/pkg/logx"
	"tickloop/pkg/periodic"
)

type taskEntry struct {
	cfg   config.TaskConfig
	exec  *periodic.Executor
	run   func()
	ticks atomic.Int64
}

func (a *App) newTask(tc config.TaskConfig) *taskEntry {
	e := &taskEntry{cfg: tc}
	policy, _ := config.ParsePolicy(tc.Policy) // validated on load
	tlog := a.log.With(logx.String("task", tc.Name))

	e.exec = periodic.New(
		periodic.WithName(tc.Name),
		periodic.WithLogger(a.log),
		periodic.WithCatchUp(policy),
	)
	e.run = func() {
		n := e.ticks.Add(1)
		tlog.Info("tick", logx.Int64("count", n))
	}
	return e
}

func (a *App) startTask(e *taskEntry) {
	iv := e.cfg.Interval()
	if !e.exec.Start(iv, e.run) {
		a.log.Warn("task failed to start", logx.String("task", e.cfg.Name))
		return
	}
	if e.cfg.Paused {
		e.exec.Pause()
	}
	a.log.Info("task started",
		logx.String("task", e.cfg.Name),
		logx.Duration("every", iv),
		logx.Bool("paused", e.cfg.Paused),
	)
}

// applyTasks reconciles the running executors against the configured task
// set. Interval or policy changes restart the executor (fresh Start cycle);
// a flipped paused flag maps directly onto Pause/Resume.
func (a *App) applyTasks(cfg *config.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()

	want := make(map[string]config.TaskConfig, len(cfg.Tasks))
	for _, tc := range cfg.Tasks {
		want[tc.Name] = tc
	}

	for name, e := range a.tasks {
		if _, ok := want[name]; !ok {
			e.exec.Stop()
			delete(a.tasks, name)
			a.log.Info("task removed", logx.String("task", name))
		}
	}

	for name, tc := range want {
		e, ok := a.tasks[name]
		if !ok {
			ne := a.newTask(tc)
			a.startTask(ne)
			a.tasks[name] = ne
			continue
		}

		if e.cfg.Every != tc.Every || e.cfg.Policy != tc.Policy {
			e.exec.Stop()
			ne := a.newTask(tc)
			a.startTask(ne)
			a.tasks[name] = ne
			a.log.Info("task rescheduled", logx.String("task", name), logx.String("every", tc.Every))
			continue
		}

		if e.cfg.Paused != tc.Paused {
			if tc.Paused {
				e.exec.Pause()
				a.log.Info("task paused", logx.String("task", name))
			} else {
				e.exec.Resume()
				a.log.Info("task resumed", logx.String("task", name))
			}
			e.cfg.Paused = tc.Paused
		}
	}
}
