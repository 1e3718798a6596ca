package app

import (
	"time"

	"lordsbot/internal/config"
	"lordsbot/internal/services/notify"
	"lordsbot/internal/services/reminder"
	"lordsbot/internal/storage"
	"lordsbot/internal/web"
	logx "lordsbot/pkg/logx"
)

// The conversion helpers translate the file-format config (string
// durations, optional sections) into each component's typed config.

func loggingConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func storageConfig(cfg *config.Config) (storage.Config, error) {
	busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return storage.Config{}, err
	}
	return storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}, nil
}

func notifyConfig(cfg *config.Config) (notify.Config, error) {
	out := notify.Config{}
	n := cfg.Notify
	if n == nil {
		return out, nil
	}
	timeout, err := config.ParseDurationField("notify.timeout", n.Timeout)
	if err != nil {
		return out, err
	}
	out.Workers = n.Workers
	out.RatePerSec = n.RatePerSec
	out.Timeout = timeout
	return out, nil
}

func reminderConfig(cfg *config.Config) (reminder.Config, error) {
	out := reminder.Config{Enabled: true}
	r := cfg.Reminder
	if r == nil {
		return out, nil
	}
	if r.Enabled != nil {
		out.Enabled = *r.Enabled
	}
	out.Schedule = r.Schedule

	var err error
	if out.Remind10.Min, err = config.ParseDurationOrDefault("reminder.remind_10_min", r.Remind10Min, 9*time.Minute); err != nil {
		return out, err
	}
	if out.Remind10.Max, err = config.ParseDurationOrDefault("reminder.remind_10_max", r.Remind10Max, 11*time.Minute); err != nil {
		return out, err
	}
	if out.Remind3.Min, err = config.ParseDurationOrDefault("reminder.remind_3_min", r.Remind3Min, 2*time.Minute); err != nil {
		return out, err
	}
	if out.Remind3.Max, err = config.ParseDurationOrDefault("reminder.remind_3_max", r.Remind3Max, 4*time.Minute); err != nil {
		return out, err
	}
	if out.ExpireAfter, err = config.ParseDurationOrDefault("reminder.expire_after", r.ExpireAfter, time.Hour); err != nil {
		return out, err
	}
	return out, nil
}

func webConfig(cfg *config.Config) web.Config {
	out := web.Config{}
	if cfg.Health != nil {
		out.Enabled = cfg.Health.Enabled
		out.Addr = cfg.Health.Addr
	}
	return out
}
