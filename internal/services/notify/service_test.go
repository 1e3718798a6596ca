package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"lordsbot/internal/i18n"
	"lordsbot/internal/storage"
	"lordsbot/internal/transport"
	"lordsbot/pkg/dgui"
	logx "lordsbot/pkg/logx"
)

type fakeMessenger struct {
	mu       sync.Mutex
	sent     []string
	lastMsg  transport.Message
	failFor  map[string]bool
	sendSlow time.Duration
}

func (f *fakeMessenger) SendDirectMessage(ctx context.Context, userID string, msg transport.Message) error {
	if f.sendSlow > 0 {
		select {
		case <-time.After(f.sendSlow):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[userID] {
		return errors.New("dms disabled")
	}
	f.sent = append(f.sent, userID)
	f.lastMsg = msg
	return nil
}

func (f *fakeMessenger) SendChannelMessage(ctx context.Context, channelID string, msg transport.Message) error {
	return nil
}

type allowRoster struct {
	deny map[string]bool
}

func (r *allowRoster) IsMember(guildID, userID string) bool        { return !r.deny[userID] }
func (r *allowRoster) RoleMembers(guildID, roleID string) []string { return nil }
func (r *allowRoster) GuildName(guildID string) (string, bool)     { return "Guild", true }

func testBatch(recipients ...string) Batch {
	return Batch{
		GuildID:    "g1",
		MatchID:    "abcd1234",
		Match:      storage.Match{Title: "Team vs Team", StartTime: time.Now().Add(time.Hour)},
		Recipients: recipients,
		Kind:       i18n.KindReminder10,
		Language:   "en",
		GuildName:  "Guild",
	}
}

func TestDispatchDeliversToAll(t *testing.T) {
	t.Parallel()
	m := &fakeMessenger{}
	svc := New(Config{Workers: 2, RatePerSec: 1000}, m, &allowRoster{}, nil, logx.Nop())

	res := svc.Dispatch(context.Background(), testBatch("a", "b", "c"))
	if res.Sent != 3 || res.Failed != 0 {
		t.Fatalf("Result = %+v, want 3 sent", res)
	}
}

func TestDispatchIsolatesFailures(t *testing.T) {
	t.Parallel()
	m := &fakeMessenger{failFor: map[string]bool{"b": true}}
	svc := New(Config{Workers: 1, RatePerSec: 1000}, m, &allowRoster{}, nil, logx.Nop())

	res := svc.Dispatch(context.Background(), testBatch("a", "b", "c"))
	if res.Sent != 2 || res.Failed != 1 {
		t.Fatalf("Result = %+v, want 2 sent 1 failed", res)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) != 2 {
		t.Fatalf("sent = %v", m.sent)
	}
}

func TestDispatchSkipsNonMembers(t *testing.T) {
	t.Parallel()
	m := &fakeMessenger{}
	svc := New(Config{Workers: 2, RatePerSec: 1000}, m, &allowRoster{deny: map[string]bool{"left": true}}, nil, logx.Nop())

	res := svc.Dispatch(context.Background(), testBatch("a", "left"))
	if res.Sent != 1 || res.Failed != 1 {
		t.Fatalf("Result = %+v, want 1 sent 1 failed", res)
	}
}

func TestDispatchEmptyBatch(t *testing.T) {
	t.Parallel()
	m := &fakeMessenger{}
	svc := New(Config{}, m, &allowRoster{}, nil, logx.Nop())

	res := svc.Dispatch(context.Background(), testBatch())
	if res.Sent != 0 || res.Failed != 0 {
		t.Fatalf("Result = %+v, want zero", res)
	}
}

func TestDispatchAttachesTranslationButtons(t *testing.T) {
	t.Parallel()
	m := &fakeMessenger{}
	tokens := dgui.NewTokenStore()
	svc := New(Config{Workers: 1, RatePerSec: 1000}, m, &allowRoster{}, tokens, logx.Nop())

	res := svc.Dispatch(context.Background(), testBatch("a"))
	if res.Sent != 1 {
		t.Fatalf("Result = %+v", res)
	}

	m.mu.Lock()
	msg := m.lastMsg
	m.mu.Unlock()
	// One button per language other than the batch language.
	if len(msg.Buttons) != len(i18n.Languages)-1 {
		t.Fatalf("buttons = %d, want %d", len(msg.Buttons), len(i18n.Languages)-1)
	}

	lang, token, ok := dgui.ParseTranslateID(msg.Buttons[0].ID)
	if !ok {
		t.Fatalf("button id %q did not parse", msg.Buttons[0].ID)
	}
	rendered, ok := RenderToken(tokens, lang, token)
	if !ok {
		t.Fatal("token did not resolve")
	}
	if !strings.Contains(rendered.Title, i18n.LanguageName(lang)) {
		t.Fatalf("re-rendered title %q missing language tag", rendered.Title)
	}
}

func TestRenderTokenExpired(t *testing.T) {
	t.Parallel()
	if _, ok := RenderToken(dgui.NewTokenStore(), "ar", "nosuch"); ok {
		t.Fatal("unknown token must not resolve")
	}
	if _, ok := RenderToken(nil, "ar", "nosuch"); ok {
		t.Fatal("nil store must not resolve")
	}
}

func TestDispatchHonorsContextCancel(t *testing.T) {
	t.Parallel()
	m := &fakeMessenger{sendSlow: 50 * time.Millisecond}
	svc := New(Config{Workers: 1, RatePerSec: 1000}, m, &allowRoster{}, nil, logx.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context stops the feed; the call still returns.
	res := svc.Dispatch(ctx, testBatch("a", "b", "c", "d"))
	if res.Sent+res.Failed > 4 {
		t.Fatalf("impossible result %+v", res)
	}
}
