package app

import (
	"testing"
	"time"

	"lordsbot/internal/config"
)

func TestReminderConfigDefaults(t *testing.T) {
	t.Parallel()

	// Omitted section: enabled with zero values (the service fills its
	// own window defaults).
	got, err := reminderConfig(&config.Config{})
	if err != nil {
		t.Fatalf("reminderConfig: %v", err)
	}
	if !got.Enabled {
		t.Fatal("reminder must default to enabled")
	}

	enabled := false
	got, err = reminderConfig(&config.Config{Reminder: &config.ReminderConfig{
		Enabled:     &enabled,
		Schedule:    "30s",
		Remind10Min: "8m",
		Remind10Max: "12m",
		ExpireAfter: "2h",
	}})
	if err != nil {
		t.Fatalf("reminderConfig: %v", err)
	}
	if got.Enabled {
		t.Fatal("explicit enabled=false ignored")
	}
	if got.Schedule != "30s" {
		t.Fatalf("Schedule = %q", got.Schedule)
	}
	if got.Remind10.Min != 8*time.Minute || got.Remind10.Max != 12*time.Minute {
		t.Fatalf("Remind10 = %+v", got.Remind10)
	}
	// Unset window fields fall back to the documented defaults.
	if got.Remind3.Min != 2*time.Minute || got.Remind3.Max != 4*time.Minute {
		t.Fatalf("Remind3 = %+v", got.Remind3)
	}
	if got.ExpireAfter != 2*time.Hour {
		t.Fatalf("ExpireAfter = %v", got.ExpireAfter)
	}

	if _, err := reminderConfig(&config.Config{Reminder: &config.ReminderConfig{ExpireAfter: "soon"}}); err == nil {
		t.Fatal("invalid duration accepted")
	}
}

func TestNotifyConfig(t *testing.T) {
	t.Parallel()

	got, err := notifyConfig(&config.Config{})
	if err != nil {
		t.Fatalf("notifyConfig: %v", err)
	}
	if got.Workers != 0 || got.Timeout != 0 {
		t.Fatalf("omitted section should yield zero config, got %+v", got)
	}

	got, err = notifyConfig(&config.Config{Notify: &config.NotifyConfig{
		Workers: 8, RatePerSec: 5, Timeout: "3s",
	}})
	if err != nil {
		t.Fatalf("notifyConfig: %v", err)
	}
	if got.Workers != 8 || got.RatePerSec != 5 || got.Timeout != 3*time.Second {
		t.Fatalf("got %+v", got)
	}
}

func TestStorageConfig(t *testing.T) {
	t.Parallel()
	got, err := storageConfig(&config.Config{Storage: config.StorageConfig{
		Driver: "sqlite", Path: "./bot.db", BusyTimeout: "5s",
	}})
	if err != nil {
		t.Fatalf("storageConfig: %v", err)
	}
	if got.Driver != "sqlite" || got.BusyTimeout != 5*time.Second {
		t.Fatalf("got %+v", got)
	}

	if _, err := storageConfig(&config.Config{Storage: config.StorageConfig{BusyTimeout: "nope"}}); err == nil {
		t.Fatal("invalid busy_timeout accepted")
	}
}
