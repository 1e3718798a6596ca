package discord

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"lordsbot/internal/transport"
	logx "lordsbot/pkg/logx"
)

type Config struct {
	Token  string
	Status string // presence text shown under the bot's name
}

// Adapter owns the gateway session and translates between the
// platform-neutral transport types and discordgo. It satisfies both
// transport.Messenger and transport.Roster.
type Adapter struct {
	cfg Config
	log logx.Logger

	session *discordgo.Session

	runMu   sync.Mutex
	running bool
}

var _ transport.Messenger = (*Adapter)(nil)
var _ transport.Roster = (*Adapter)(nil)

func New(cfg Config, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("discord token is empty")
	}
	s, err := discordgo.New("Bot " + strings.TrimSpace(cfg.Token))
	if err != nil {
		return nil, err
	}
	// Member lists are needed for role expansion and membership checks,
	// so the privileged members intent must be enabled for the bot.
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages
	s.State.TrackMembers = true
	s.State.TrackRoles = true
	s.State.TrackChannels = true

	if log.IsZero() {
		log = logx.Nop()
	}
	return &Adapter{cfg: cfg, log: log, session: s}, nil
}

// Session exposes the raw session for handler and command registration.
func (a *Adapter) Session() *discordgo.Session { return a.session }

func (a *Adapter) Start(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if a.running {
		return nil
	}
	if err := a.session.Open(); err != nil {
		return err
	}
	a.running = true
	a.log.Info("gateway connected", logx.String("user", a.session.State.User.Username))

	if a.cfg.Status != "" {
		if err := a.session.UpdateGameStatus(0, a.cfg.Status); err != nil {
			a.log.Warn("failed to set presence", logx.Err(err))
		}
	}
	_ = ctx
	return nil
}

func (a *Adapter) Stop(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if !a.running {
		return nil
	}
	a.running = false

	// Close is expected to be fast. Guard it anyway so shutdown never
	// hangs on a wedged websocket.
	done := make(chan error, 1)
	go func() { done <- a.session.Close() }()

	grace := 3 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if rem := time.Until(dl); rem > 0 && rem < grace {
			grace = rem
		}
	}
	select {
	case err := <-done:
		return err
	case <-time.After(grace):
		a.log.Warn("gateway close timed out")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
