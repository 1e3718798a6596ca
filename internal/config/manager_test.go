package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.yaml", `
discord:
  command_guild_id: "123"
  status: "managing matches"
logging:
  level: debug
  console: true
storage:
  driver: file
  path: ./data/bot
reminder:
  schedule: 1m
  expire_after: 2h
notify:
  workers: 2
health:
  enabled: true
  addr: ":9090"
`)

	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discord.CommandGuildID != "123" {
		t.Fatalf("CommandGuildID = %q", cfg.Discord.CommandGuildID)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("Logging = %+v", cfg.Logging)
	}
	if cfg.Storage.Driver != "file" {
		t.Fatalf("Storage.Driver = %q", cfg.Storage.Driver)
	}
	if cfg.Reminder == nil || cfg.Reminder.ExpireAfter != "2h" {
		t.Fatalf("Reminder = %+v", cfg.Reminder)
	}
	if cfg.Notify == nil || cfg.Notify.Workers != 2 {
		t.Fatalf("Notify = %+v", cfg.Notify)
	}
	if cfg.Health == nil || cfg.Health.Addr != ":9090" {
		t.Fatalf("Health = %+v", cfg.Health)
	}
	if m.Get() != cfg {
		t.Fatal("Get did not return committed config")
	}
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.json",
		`{"discord":{"status":"up"},"logging":{"level":"info","console":true},"storage":{"driver":"none","path":""}}`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discord.Status != "up" {
		t.Fatalf("Status = %q", cfg.Discord.Status)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.yaml", `
logging:
  level: info
  console: true
  verbosity: extreme
storage:
  driver: none
  path: ""
`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected unknown-field rejection")
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.json", `{"logging":{"level":"info","console":true},"storage":{"driver":"none","path":""}}{"extra":1}`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected trailing-data rejection")
	}
}

func TestParseMissingFile(t *testing.T) {
	t.Parallel()
	if _, err := NewManager(filepath.Join(t.TempDir(), "nope.yaml")).Parse(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{raw: "", want: 0},
		{raw: "90s", want: 90 * time.Second},
		{raw: "2h30m", want: 2*time.Hour + 30*time.Minute},
		{raw: "-1m", wantErr: true},
		{raw: "five minutes", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDurationField("test.field", tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDurationField(%q) accepted invalid input", tt.raw)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseDurationField(%q) = %v, %v; want %v", tt.raw, got, err, tt.want)
		}
	}

	if d, err := ParseDurationOrDefault("test.field", "", time.Minute); err != nil || d != time.Minute {
		t.Errorf("ParseDurationOrDefault empty = %v, %v", d, err)
	}
	if d, err := ParseDurationOrDefault("test.field", "5s", time.Minute); err != nil || d != 5*time.Second {
		t.Errorf("ParseDurationOrDefault 5s = %v, %v", d, err)
	}
}

func TestSubscribePublish(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.yaml", `
logging:
  level: info
  console: true
storage:
  driver: none
  path: ""
`)
	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	cfg := &Config{Logging: LoggingConfig{Level: "debug", Console: true}}
	m.publish(cfg)

	select {
	case got := <-ch:
		if got.Logging.Level != "debug" {
			t.Fatalf("published Level = %q", got.Logging.Level)
		}
	case <-time.After(time.Second):
		t.Fatal("no publish received")
	}
}

func TestYAMLToJSONStringifiesKeys(t *testing.T) {
	t.Parallel()
	out, err := yamlToJSON([]byte("1: a\nnested:\n  2: b\nlist:\n  - 3: c\n"))
	if err != nil {
		t.Fatalf("yamlToJSON: %v", err)
	}
	for _, want := range []string{`"1":"a"`, `"2":"b"`, `"3":"c"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}

	if _, err := yamlToJSON([]byte("logging: [unterminated")); err == nil {
		t.Fatal("malformed yaml accepted")
	}
}
