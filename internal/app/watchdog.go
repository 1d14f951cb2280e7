package app

import (
	"github.com/coreos/go-systemd/v22/daemon"

	"tickloop/internal/config"
	logx "tickloop/pkg/logx"
	"tickloop/pkg/periodic"
)

// startWatchdog arms the systemd watchdog keepalive when the unit asks for
// one (WatchdogSec=). The keepalive itself runs on a periodic.Executor with
// the skip policy: after a stall there is no value in replaying stale pings.
func (a *App) startWatchdog(cfg *config.Config) {
	if !cfg.Watchdog.Enabled {
		return
	}
	iv, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		a.log.Warn("systemd watchdog probe failed", logx.Err(err))
		return
	}
	if iv <= 0 {
		a.log.Debug("systemd watchdog not requested by unit")
		return
	}

	wd := periodic.New(
		periodic.WithName("sd-watchdog"),
		periodic.WithLogger(a.log),
		periodic.WithCatchUp(periodic.CatchUpSkip),
	)
	// Ping at half the timeout so one missed wake doesn't kill the unit.
	wd.Start(iv/2, func() {
		if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
			a.log.Warn("watchdog ping failed", logx.Err(err))
		}
	})

	a.mu.Lock()
	a.watchdog = wd
	a.mu.Unlock()
	a.log.Info("systemd watchdog armed", logx.Duration("interval", iv/2))
}

func notifyReady(log logx.Logger) {
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Debug("sd_notify ready failed", logx.Err(err))
	} else if ok {
		log.Debug("sd_notify ready sent")
	}
}

func notifyStopping(log logx.Logger) {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
}
