package config

type Config struct {
	Discord  DiscordConfig   `json:"discord"`
	Logging  LoggingConfig   `json:"logging"`
	Storage  StorageConfig   `json:"storage"`
	Reminder *ReminderConfig `json:"reminder,omitempty"`
	Notify   *NotifyConfig   `json:"notify,omitempty"`
	Health   *HealthConfig   `json:"health,omitempty"`
}

// DiscordConfig configures the gateway adapter.
//
// The bot token is intentionally NOT part of the config file; it is read
// from the DISCORD_TOKEN environment variable so config files can be
// committed without secrets.
type DiscordConfig struct {
	// CommandGuildID scopes slash-command registration to a single guild.
	// Empty registers commands globally (Discord may take up to an hour
	// to propagate global commands).
	CommandGuildID string `json:"command_guild_id,omitempty"`

	// Status is the presence text shown under the bot's name.
	Status string `json:"status,omitempty"`
}

type LoggingConfig struct {
	Level   string            `json:"level"`
	Console bool              `json:"console"`
	File    LoggingFileConfig `json:"file,omitempty"`
}

type LoggingFileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// StorageConfig controls the persistence layer.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./data/lordsbot" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// ReminderConfig controls the match reminder sweep.
//
// All durations are Go duration strings (e.g. "1m", "90s").
//
// Schedule accepts a Go duration ("1m"), HH:MM ("00:01"), or a cron form
// ("cron:* * * * *", "@every 1m"). Defaults (when fields are omitted/zero):
//   - schedule: "1m"
//   - remind_10: [9m, 11m]
//   - remind_3: [2m, 4m]
//   - expire_after: "1h"
type ReminderConfig struct {
	Enabled     *bool  `json:"enabled,omitempty"`
	Schedule    string `json:"schedule,omitempty"`
	Remind10Min string `json:"remind_10_min,omitempty"`
	Remind10Max string `json:"remind_10_max,omitempty"`
	Remind3Min  string `json:"remind_3_min,omitempty"`
	Remind3Max  string `json:"remind_3_max,omitempty"`
	ExpireAfter string `json:"expire_after,omitempty"`
}

// NotifyConfig controls the direct-message fan-out.
//
// If the whole section is omitted, the dispatcher defaults to 4 workers
// at 3 sends per second.
type NotifyConfig struct {
	Workers    int    `json:"workers,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
	Timeout    string `json:"timeout,omitempty"` // per-recipient send timeout
}

// HealthConfig controls the keep-alive HTTP endpoint used by uptime pollers.
type HealthConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"` // default: ":8080"
}
