package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"lordsbot/internal/services/notify"
	"lordsbot/internal/storage"
	discordtp "lordsbot/internal/transport/discord"
	"lordsbot/pkg/dgui"
	logx "lordsbot/pkg/logx"
)

type Config struct {
	// CommandGuildID scopes slash command registration to one guild,
	// which makes commands appear instantly during development. Empty
	// registers them globally.
	CommandGuildID string
}

// Bot wires the slash command surface to storage and notifications.
type Bot struct {
	cfg Config
	log logx.Logger

	adapter *discordtp.Adapter
	store   storage.Store
	notify  *notify.Service
	tokens  *dgui.TokenStore

	registered []*discordgo.ApplicationCommand
}

func New(cfg Config, adapter *discordtp.Adapter, store storage.Store, ns *notify.Service, tokens *dgui.TokenStore, log logx.Logger) *Bot {
	if log.IsZero() {
		log = logx.Nop()
	}
	b := &Bot{
		cfg:     cfg,
		log:     log,
		adapter: adapter,
		store:   store,
		notify:  ns,
		tokens:  tokens,
	}
	b.registerHandlers()
	return b
}

func (b *Bot) registerHandlers() {
	s := b.adapter.Session()
	s.AddHandler(b.handleInteraction)
	s.AddHandler(b.handleGuildCreate)
}

// RegisterCommands pushes the slash command definitions. Must run after
// the gateway session is open (it needs the application user id).
func (b *Bot) RegisterCommands() error {
	s := b.adapter.Session()
	defs := commandDefinitions()
	registered := make([]*discordgo.ApplicationCommand, 0, len(defs))
	for _, def := range defs {
		cmd, err := s.ApplicationCommandCreate(s.State.User.ID, b.cfg.CommandGuildID, def)
		if err != nil {
			return fmt.Errorf("register command %s: %w", def.Name, err)
		}
		registered = append(registered, cmd)
	}
	b.registered = registered
	b.log.Info("slash commands registered", logx.Int("count", len(registered)))
	return nil
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, s, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, s, i)
	}
}

func (b *Bot) handleCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		respondEphemeral(s, i, "This command only works inside a server.")
		return
	}

	data := i.ApplicationCommandData()
	b.log.Debug("command received",
		logx.String("command", data.Name),
		logx.String("guild", i.GuildID),
		logx.String("user", invokerID(i)),
	)

	switch data.Name {
	case "match":
		b.handleMatch(ctx, s, i)
	case "matches":
		b.handleMatches(ctx, s, i)
	case "end_match":
		b.handleEndMatch(ctx, s, i)
	case "cancel_match":
		b.handleCancelMatch(ctx, s, i)
	case "set_language":
		b.handleSetLanguage(ctx, s, i)
	case "set_channel":
		b.handleSetChannel(ctx, s, i)
	case "kick":
		b.handleKick(ctx, s, i)
	case "ban":
		b.handleBan(ctx, s, i)
	case "mute":
		b.handleMute(ctx, s, i)
	case "warn":
		b.handleWarn(ctx, s, i)
	case "warnings":
		b.handleWarnings(ctx, s, i)
	case "unwarn":
		b.handleUnwarn(ctx, s, i)
	default:
		b.log.Warn("unknown command", logx.String("command", data.Name))
	}
}

// handleGuildCreate initializes settings the first time the bot sees a
// guild, so later reads never race a missing record.
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if b.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := b.store.GuildSettings(ctx, g.ID); err != nil {
		b.log.Warn("guild settings init failed", logx.String("guild", g.ID), logx.Err(err))
		return
	}
	b.log.Info("guild ready", logx.String("guild", g.ID), logx.String("name", g.Name))
}

// guildLanguage reads the guild's configured language, defaulting to
// English on any failure.
func (b *Bot) guildLanguage(ctx context.Context, guildID string) string {
	if b.store == nil {
		return storage.DefaultLanguage
	}
	gs, err := b.store.GuildSettings(ctx, guildID)
	if err != nil {
		return storage.DefaultLanguage
	}
	return gs.Language
}

func invokerID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
