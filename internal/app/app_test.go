package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"lordsbot/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "test-token")

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := `{"logging":{"level":"error"},"storage":{"driver":"none","path":""}}`
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	a, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

// Config reloads replace the reminder service while shutdown may be
// reading it from another goroutine; both paths must go through remMu.
func TestReloadRacingShutdown(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	cfg := a.cfgmgr.Get()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 25; n++ {
				a.applyConfig(ctx, cfg)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.Stop(ctx); err != nil {
			t.Errorf("Stop: %v", err)
		}
	}()
	wg.Wait()

	a.remMu.Lock()
	if a.reminder == nil {
		t.Fatal("reminder service lost across reloads")
	}
	a.remMu.Unlock()
}

func TestApplyConfigKeepsReminderOnBadSchedule(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	a.remMu.Lock()
	before := a.reminder
	a.remMu.Unlock()

	bad := *a.cfgmgr.Get()
	bad.Reminder = &config.ReminderConfig{Schedule: "not-a-schedule"}
	a.applyConfig(ctx, &bad)

	a.remMu.Lock()
	unchanged := a.reminder == before
	a.remMu.Unlock()
	if !unchanged {
		t.Fatal("a rejected reminder config must keep the running service")
	}
	_ = a.Stop(ctx)
}
