package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	logx "lordsbot/pkg/logx"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(Config{Driver: "file", Path: filepath.Join(dir, "bot")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testMatch(start time.Time) Match {
	return Match{
		Title:        "Team vs Team",
		StartTime:    start,
		CreatorID:    "100",
		Participants: []string{"100", "200"},
		Team1:        []string{"100"},
		Team2:        []string{"200"},
		CreatedAt:    start.Add(-time.Hour),
	}
}

func TestFileStoreMatchLifecycle(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, time.July, 25, 20, 30, 0, 0, time.UTC)

	id, err := s.CreateMatch(ctx, "g1", testMatch(start))
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if len(id) != 8 {
		t.Fatalf("match id %q, want 8 chars", id)
	}

	matches, err := s.GuildMatches(ctx, "g1")
	if err != nil {
		t.Fatalf("GuildMatches: %v", err)
	}
	rec, ok := matches[id]
	if !ok {
		t.Fatalf("match %s missing from listing", id)
	}
	if !rec.StartTime.Equal(start) {
		t.Fatalf("StartTime = %v, want %v", rec.StartTime, start)
	}

	rec.Reminded10 = true
	if err := s.UpdateMatch(ctx, "g1", id, rec); err != nil {
		t.Fatalf("UpdateMatch: %v", err)
	}
	matches, _ = s.GuildMatches(ctx, "g1")
	if !matches[id].Reminded10 {
		t.Fatal("Reminded10 flag did not persist")
	}

	// Updating a removed match is a no-op, not an error.
	if err := s.RemoveMatch(ctx, "g1", id); err != nil {
		t.Fatalf("RemoveMatch: %v", err)
	}
	if err := s.UpdateMatch(ctx, "g1", id, rec); err != nil {
		t.Fatalf("UpdateMatch after removal: %v", err)
	}
	matches, _ = s.GuildMatches(ctx, "g1")
	if len(matches) != 0 {
		t.Fatalf("expected empty guild after removal, got %d", len(matches))
	}

	// Removal is idempotent.
	if err := s.RemoveMatch(ctx, "g1", id); err != nil {
		t.Fatalf("second RemoveMatch: %v", err)
	}
}

func TestFileStoreReloadsFromDisk(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "bot")
	ctx := context.Background()
	start := time.Date(2025, time.July, 25, 20, 30, 0, 0, time.UTC)

	s1, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	id, err := s1.CreateMatch(ctx, "g1", testMatch(start))
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if err := s1.SetGuildLanguage(ctx, "g1", "ar"); err != nil {
		t.Fatalf("SetGuildLanguage: %v", err)
	}
	_ = s1.Close()

	// No stray temp files after mutations.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}

	s2, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	matches, err := s2.GuildMatches(ctx, "g1")
	if err != nil {
		t.Fatalf("GuildMatches: %v", err)
	}
	if _, ok := matches[id]; !ok {
		t.Fatalf("match %s not found after reopen", id)
	}
	gs, err := s2.GuildSettings(ctx, "g1")
	if err != nil {
		t.Fatalf("GuildSettings: %v", err)
	}
	if gs.Language != "ar" {
		t.Fatalf("Language = %q after reopen, want ar", gs.Language)
	}
}

func TestFileStoreGuildSettings(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	// First access initializes defaults.
	gs, err := s.GuildSettings(ctx, "g1")
	if err != nil {
		t.Fatalf("GuildSettings: %v", err)
	}
	if gs.Language != DefaultLanguage {
		t.Fatalf("default Language = %q, want %q", gs.Language, DefaultLanguage)
	}
	if gs.Channel(ChannelModLog) != "" {
		t.Fatal("new guild must have no mod-log channel")
	}

	if err := s.SetGuildChannel(ctx, "g1", ChannelActivity, "chan-9"); err != nil {
		t.Fatalf("SetGuildChannel: %v", err)
	}
	gs, _ = s.GuildSettings(ctx, "g1")
	if gs.Channel(ChannelActivity) != "chan-9" {
		t.Fatalf("activity channel = %q, want chan-9", gs.Channel(ChannelActivity))
	}

	if err := s.SetGuildChannel(ctx, "g1", ChannelKind("bogus"), "x"); err == nil {
		t.Fatal("expected error for unknown channel kind")
	}
}

func TestFileStoreWarnings(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.AddWarning(ctx, "g1", "u1", "mod", "spam")
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}
	id2, _ := s.AddWarning(ctx, "g1", "u1", "mod", "flood")
	if id1 != 1 || id2 != 2 {
		t.Fatalf("ids = %d,%d, want 1,2", id1, id2)
	}

	// Removing an old warning must not cause id reuse.
	if err := s.RemoveWarning(ctx, "g1", "u1", id1); err != nil {
		t.Fatalf("RemoveWarning: %v", err)
	}
	id3, _ := s.AddWarning(ctx, "g1", "u1", "mod", "again")
	if id3 != 3 {
		t.Fatalf("id after removal = %d, want 3", id3)
	}

	warnings, err := s.UserWarnings(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("UserWarnings: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("warning count = %d, want 2", len(warnings))
	}
	if warnings[0].ID != 2 || warnings[1].ID != 3 {
		t.Fatalf("warning ids = %d,%d, want 2,3", warnings[0].ID, warnings[1].ID)
	}
	if warnings[1].Reason != "again" {
		t.Fatalf("Reason = %q", warnings[1].Reason)
	}

	if err := s.RemoveWarning(ctx, "g1", "u1", 99); !errors.Is(err, ErrWarningNotFound) {
		t.Fatalf("RemoveWarning(99) = %v, want ErrWarningNotFound", err)
	}

	// Warnings are scoped per user.
	other, _ := s.UserWarnings(ctx, "g1", "u2")
	if len(other) != 0 {
		t.Fatalf("u2 warnings = %d, want 0", len(other))
	}
}

func TestOpenDisabledAndUnknown(t *testing.T) {
	t.Parallel()
	s, err := Open(Config{}, logx.Nop())
	if err != nil || s != nil {
		t.Fatalf("Open(disabled) = %v, %v; want nil, nil", s, err)
	}
	s, err = Open(Config{Driver: "none"}, logx.Nop())
	if err != nil || s != nil {
		t.Fatalf("Open(none) = %v, %v; want nil, nil", s, err)
	}
	if _, err := Open(Config{Driver: "redis"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNewMatchIDRetriesOnCollision(t *testing.T) {
	t.Parallel()
	calls := 0
	id, err := newMatchID(func(string) bool {
		calls++
		return calls <= 3
	})
	if err != nil {
		t.Fatalf("newMatchID: %v", err)
	}
	if calls != 4 {
		t.Fatalf("attempts = %d, want 4", calls)
	}
	if len(id) != matchIDLen {
		t.Fatalf("id length = %d", len(id))
	}

	if _, err := newMatchID(func(string) bool { return true }); !errors.Is(err, ErrIDExhausted) {
		t.Fatalf("expected ErrIDExhausted, got %v", err)
	}
}
