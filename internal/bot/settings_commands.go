package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"lordsbot/internal/i18n"
	"lordsbot/internal/storage"
	"lordsbot/internal/transport"
	logx "lordsbot/pkg/logx"
)

func (b *Bot) handleSetLanguage(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLanguage(ctx, i.GuildID)
	if !hasPermission(i, discordgo.PermissionManageServer) {
		respondEphemeral(s, i, i18n.T(lang, "no_permission"))
		return
	}
	if b.store == nil {
		respondEphemeral(s, i, i18n.T(lang, "error")+": "+storage.ErrDisabled.Error())
		return
	}

	chosen := optionMap(i)["language"].StringValue()
	if !i18n.Supported(chosen) {
		respondEphemeral(s, i, i18n.T(lang, "error")+": unsupported language")
		return
	}
	if err := b.store.SetGuildLanguage(ctx, i.GuildID, chosen); err != nil {
		b.log.Error("language update failed", logx.String("guild", i.GuildID), logx.Err(err))
		respondEphemeral(s, i, i18n.T(lang, "error"))
		return
	}

	// Confirm in the newly chosen language.
	respond(s, i, fmt.Sprintf("%s %s: %s",
		i18n.LanguageFlag(chosen), i18n.T(chosen, "success"), i18n.LanguageName(chosen)))
	b.mirror(ctx, i.GuildID, storage.ChannelActivity,
		fmt.Sprintf("Language changed to %s by <@%s>.", i18n.LanguageName(chosen), invokerID(i)))
}

func (b *Bot) handleSetChannel(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLanguage(ctx, i.GuildID)
	if !hasPermission(i, discordgo.PermissionManageServer) {
		respondEphemeral(s, i, i18n.T(lang, "no_permission"))
		return
	}
	if b.store == nil {
		respondEphemeral(s, i, i18n.T(lang, "error")+": "+storage.ErrDisabled.Error())
		return
	}

	opts := optionMap(i)
	kind := storage.ChannelKind(opts["feature"].StringValue())
	channel := opts["channel"].ChannelValue(s)

	if err := b.store.SetGuildChannel(ctx, i.GuildID, kind, channel.ID); err != nil {
		b.log.Error("channel update failed",
			logx.String("guild", i.GuildID), logx.String("kind", string(kind)), logx.Err(err))
		respondEphemeral(s, i, i18n.T(lang, "error"))
		return
	}

	respond(s, i, fmt.Sprintf("%s: %s → <#%s>", i18n.T(lang, "success"), kind, channel.ID))
	b.mirror(ctx, i.GuildID, storage.ChannelActivity,
		fmt.Sprintf("Channel for %s set to <#%s> by <@%s>.", kind, channel.ID, invokerID(i)))
}

// mirror posts a plain line to one of the guild's configured channels.
// An unconfigured channel disables the mirror; a send failure is logged
// and never affects the command that triggered it.
func (b *Bot) mirror(ctx context.Context, guildID string, kind storage.ChannelKind, line string) {
	b.mirrorEmbed(ctx, guildID, kind, transport.Message{Body: line})
}

func (b *Bot) mirrorEmbed(ctx context.Context, guildID string, kind storage.ChannelKind, msg transport.Message) {
	if b.store == nil {
		return
	}
	gs, err := b.store.GuildSettings(ctx, guildID)
	if err != nil {
		return
	}
	channelID := gs.Channel(kind)
	if channelID == "" {
		return
	}
	if err := b.adapter.SendChannelMessage(ctx, channelID, msg); err != nil {
		b.log.Warn("channel mirror failed",
			logx.String("guild", guildID),
			logx.String("kind", string(kind)),
			logx.String("channel", channelID),
			logx.Err(err),
		)
	}
}
