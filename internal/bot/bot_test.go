package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"lordsbot/internal/storage"
	logx "lordsbot/pkg/logx"
)

func newBotWithStore(t *testing.T) (*Bot, storage.Store) {
	t.Helper()
	s, err := storage.Open(storage.Config{
		Driver: "file",
		Path:   filepath.Join(t.TempDir(), "bot"),
	}, logx.Nop())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return &Bot{store: s, log: logx.Nop()}, s
}

func TestResolveMatchNumber(t *testing.T) {
	t.Parallel()
	b, s := newBotWithStore(t)
	ctx := context.Background()

	base := time.Now().Add(time.Hour).UTC()
	idLater, err := s.CreateMatch(ctx, "g1", storage.Match{Title: "B", StartTime: base.Add(time.Hour)})
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	idSooner, err := s.CreateMatch(ctx, "g1", storage.Match{Title: "A", StartTime: base})
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	// Number 1 is the soonest match regardless of creation order.
	id, rec, err := b.resolveMatchNumber(ctx, "g1", 1)
	if err != nil {
		t.Fatalf("resolveMatchNumber(1): %v", err)
	}
	if id != idSooner || rec.Title != "A" {
		t.Fatalf("number 1 = %s (%s), want %s", id, rec.Title, idSooner)
	}

	id, _, err = b.resolveMatchNumber(ctx, "g1", 2)
	if err != nil {
		t.Fatalf("resolveMatchNumber(2): %v", err)
	}
	if id != idLater {
		t.Fatalf("number 2 = %s, want %s", id, idLater)
	}

	for _, n := range []int{0, 3, -1} {
		if _, _, err := b.resolveMatchNumber(ctx, "g1", n); err == nil {
			t.Errorf("resolveMatchNumber(%d) accepted out-of-range number", n)
		}
	}
}

func TestGuildLanguage(t *testing.T) {
	t.Parallel()
	b, s := newBotWithStore(t)
	ctx := context.Background()

	if got := b.guildLanguage(ctx, "g1"); got != storage.DefaultLanguage {
		t.Fatalf("default language = %q", got)
	}
	if err := s.SetGuildLanguage(ctx, "g1", "pt"); err != nil {
		t.Fatalf("SetGuildLanguage: %v", err)
	}
	if got := b.guildLanguage(ctx, "g1"); got != "pt" {
		t.Fatalf("language = %q, want pt", got)
	}

	// Without a store the default applies.
	nb := &Bot{log: logx.Nop()}
	if got := nb.guildLanguage(ctx, "g1"); got != storage.DefaultLanguage {
		t.Fatalf("storeless language = %q", got)
	}
}

func TestCommandDefinitionsAreWellFormed(t *testing.T) {
	t.Parallel()
	defs := commandDefinitions()
	want := map[string]bool{
		"match": true, "matches": true, "end_match": true, "cancel_match": true,
		"set_language": true, "set_channel": true,
		"kick": true, "ban": true, "mute": true,
		"warn": true, "warnings": true, "unwarn": true,
	}
	seen := map[string]bool{}
	for _, d := range defs {
		if d.Name == "" || d.Description == "" {
			t.Errorf("command %+v missing name or description", d)
		}
		if seen[d.Name] {
			t.Errorf("duplicate command %s", d.Name)
		}
		seen[d.Name] = true
		for _, opt := range d.Options {
			if opt.Name == "" || opt.Description == "" {
				t.Errorf("command %s has malformed option %+v", d.Name, opt)
			}
		}
	}
	for name := range want {
		if !seen[name] {
			t.Errorf("command %s not defined", name)
		}
	}
}

func TestOrDash(t *testing.T) {
	t.Parallel()
	if got := orDash(""); got != "-" {
		t.Fatalf("orDash(empty) = %q", got)
	}
	if got := orDash("  "); got != "-" {
		t.Fatalf("orDash(blank) = %q", got)
	}
	if got := orDash("spam"); got != "spam" {
		t.Fatalf("orDash(spam) = %q", got)
	}
}

func interactionFrom(userID string, perms int64) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: userID},
			Permissions: perms,
		},
	}}
}

func TestCanManageMatch(t *testing.T) {
	t.Parallel()
	rec := storage.Match{CreatorID: "creator"}

	tests := []struct {
		name   string
		invoke *discordgo.InteractionCreate
		want   bool
	}{
		{"creator with manage events", interactionFrom("creator", discordgo.PermissionManageEvents), true},
		{"creator without manage events", interactionFrom("creator", 0), false},
		{"other member with manage events", interactionFrom("other", discordgo.PermissionManageEvents), false},
		{"other member as administrator", interactionFrom("other", discordgo.PermissionAdministrator), true},
		{"no member payload", &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canManageMatch(tt.invoke, rec); got != tt.want {
				t.Fatalf("canManageMatch = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderMatchListCap(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	matches := map[string]storage.Match{}
	for n := 0; n < 14; n++ {
		matches[fmt.Sprintf("id%02d", n)] = storage.Match{
			Title:     "Team vs Team",
			StartTime: base.Add(time.Duration(n) * time.Hour),
		}
	}

	out := renderMatchList(matches, "en")
	if !strings.Contains(out, "**10.**") {
		t.Fatal("tenth entry missing")
	}
	if strings.Contains(out, "**11.**") {
		t.Fatal("listing not capped at ten entries")
	}
	if !strings.Contains(out, "...and 4 more") {
		t.Fatalf("overflow trailer missing:\n%s", out)
	}

	short := map[string]storage.Match{"one": {Title: "Team vs Team", StartTime: base}}
	if out := renderMatchList(short, "en"); strings.Contains(out, "more") {
		t.Fatalf("short list has an overflow trailer:\n%s", out)
	}
}
