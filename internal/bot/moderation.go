package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"lordsbot/internal/i18n"
	"lordsbot/internal/storage"
	"lordsbot/internal/transport"
	logx "lordsbot/pkg/logx"
)

// dmTarget tells the affected member what happened. Best-effort: a
// closed DM inbox must not fail the moderation action itself.
func (b *Bot) dmTarget(ctx context.Context, userID, body string) {
	if err := b.adapter.SendDirectMessage(ctx, userID, transport.Message{Body: body}); err != nil {
		b.log.Debug("moderation dm skipped", logx.String("user", userID), logx.Err(err))
	}
}

func targetAndReason(i *discordgo.InteractionCreate, s *discordgo.Session) (userID, reason string) {
	opts := optionMap(i)
	userID = opts["user"].UserValue(s).ID
	if o, ok := opts["reason"]; ok {
		reason = o.StringValue()
	}
	return userID, reason
}

func (b *Bot) handleKick(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLanguage(ctx, i.GuildID)
	if !hasPermission(i, discordgo.PermissionKickMembers) {
		respondEphemeral(s, i, i18n.T(lang, "no_permission"))
		return
	}
	userID, reason := targetAndReason(i, s)
	guildName, _ := b.adapter.GuildName(i.GuildID)

	// DM before the kick; afterwards there may be no shared guild left
	// to open the DM through.
	b.dmTarget(ctx, userID, fmt.Sprintf("You were kicked from %s. %s: %s",
		guildName, i18n.T(lang, "reason"), orDash(reason)))

	if err := s.GuildMemberDeleteWithReason(i.GuildID, userID, reason, discordgo.WithContext(ctx)); err != nil {
		b.log.Error("kick failed", logx.String("guild", i.GuildID), logx.String("user", userID), logx.Err(err))
		respondEphemeral(s, i, i18n.T(lang, "error"))
		return
	}

	respond(s, i, fmt.Sprintf("%s: kicked <@%s>", i18n.T(lang, "success"), userID))
	b.modLog(ctx, i, "Kick", userID, reason)
}

func (b *Bot) handleBan(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLanguage(ctx, i.GuildID)
	if !hasPermission(i, discordgo.PermissionBanMembers) {
		respondEphemeral(s, i, i18n.T(lang, "no_permission"))
		return
	}
	opts := optionMap(i)
	userID, reason := targetAndReason(i, s)
	deleteDays := 0
	if o, ok := opts["delete_days"]; ok {
		deleteDays = int(o.IntValue())
	}
	guildName, _ := b.adapter.GuildName(i.GuildID)

	b.dmTarget(ctx, userID, fmt.Sprintf("You were banned from %s. %s: %s",
		guildName, i18n.T(lang, "reason"), orDash(reason)))

	if err := s.GuildBanCreateWithReason(i.GuildID, userID, reason, deleteDays, discordgo.WithContext(ctx)); err != nil {
		b.log.Error("ban failed", logx.String("guild", i.GuildID), logx.String("user", userID), logx.Err(err))
		respondEphemeral(s, i, i18n.T(lang, "error"))
		return
	}

	respond(s, i, fmt.Sprintf("%s: banned <@%s>", i18n.T(lang, "success"), userID))
	b.modLog(ctx, i, "Ban", userID, reason)
}

func (b *Bot) handleMute(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLanguage(ctx, i.GuildID)
	if !hasPermission(i, discordgo.PermissionModerateMembers) {
		respondEphemeral(s, i, i18n.T(lang, "no_permission"))
		return
	}
	opts := optionMap(i)
	userID, reason := targetAndReason(i, s)
	minutes := int(opts["minutes"].IntValue())

	until := time.Now().Add(time.Duration(minutes) * time.Minute)
	if err := s.GuildMemberTimeout(i.GuildID, userID, &until, discordgo.WithContext(ctx)); err != nil {
		b.log.Error("mute failed", logx.String("guild", i.GuildID), logx.String("user", userID), logx.Err(err))
		respondEphemeral(s, i, i18n.T(lang, "error"))
		return
	}

	guildName, _ := b.adapter.GuildName(i.GuildID)
	b.dmTarget(ctx, userID, fmt.Sprintf("You were muted in %s for %d minutes. %s: %s",
		guildName, minutes, i18n.T(lang, "reason"), orDash(reason)))

	respond(s, i, fmt.Sprintf("%s: muted <@%s> for %d minutes", i18n.T(lang, "success"), userID, minutes))
	b.modLog(ctx, i, fmt.Sprintf("Mute (%d min)", minutes), userID, reason)
}

func (b *Bot) handleWarn(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLanguage(ctx, i.GuildID)
	if !hasPermission(i, discordgo.PermissionModerateMembers) {
		respondEphemeral(s, i, i18n.T(lang, "no_permission"))
		return
	}
	if b.store == nil {
		respondEphemeral(s, i, i18n.T(lang, "error")+": "+storage.ErrDisabled.Error())
		return
	}
	userID, reason := targetAndReason(i, s)

	warnID, err := b.store.AddWarning(ctx, i.GuildID, userID, invokerID(i), reason)
	if err != nil {
		b.log.Error("warning persist failed", logx.String("guild", i.GuildID), logx.String("user", userID), logx.Err(err))
		respondEphemeral(s, i, i18n.T(lang, "error"))
		return
	}

	guildName, _ := b.adapter.GuildName(i.GuildID)
	b.dmTarget(ctx, userID, fmt.Sprintf("You received warning #%d in %s. %s: %s",
		warnID, guildName, i18n.T(lang, "reason"), reason))

	respond(s, i, fmt.Sprintf("%s: warned <@%s> (#%d)", i18n.T(lang, "success"), userID, warnID))
	b.modLog(ctx, i, fmt.Sprintf("Warn #%d", warnID), userID, reason)
}

func (b *Bot) handleWarnings(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLanguage(ctx, i.GuildID)
	if !hasPermission(i, discordgo.PermissionModerateMembers) {
		respondEphemeral(s, i, i18n.T(lang, "no_permission"))
		return
	}
	if b.store == nil {
		respondEphemeral(s, i, i18n.T(lang, "error")+": "+storage.ErrDisabled.Error())
		return
	}
	userID := optionMap(i)["user"].UserValue(s).ID

	warnings, err := b.store.UserWarnings(ctx, i.GuildID, userID)
	if err != nil {
		b.log.Error("warning lookup failed", logx.String("guild", i.GuildID), logx.String("user", userID), logx.Err(err))
		respondEphemeral(s, i, i18n.T(lang, "error"))
		return
	}
	if len(warnings) == 0 {
		respondEphemeral(s, i, fmt.Sprintf("<@%s> has no warnings.", userID))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Warnings for <@%s>:\n", userID)
	for _, w := range warnings {
		fmt.Fprintf(&sb, "**#%d** by <@%s> on %s\n%s: %s\n",
			w.ID, w.ModeratorID, w.Timestamp.UTC().Format("2006-01-02 15:04"),
			i18n.T(lang, "reason"), w.Reason)
	}
	respondEphemeral(s, i, sb.String())
}

func (b *Bot) handleUnwarn(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLanguage(ctx, i.GuildID)
	if !hasPermission(i, discordgo.PermissionModerateMembers) {
		respondEphemeral(s, i, i18n.T(lang, "no_permission"))
		return
	}
	if b.store == nil {
		respondEphemeral(s, i, i18n.T(lang, "error")+": "+storage.ErrDisabled.Error())
		return
	}
	opts := optionMap(i)
	userID := opts["user"].UserValue(s).ID
	warnID := int(opts["id"].IntValue())

	if err := b.store.RemoveWarning(ctx, i.GuildID, userID, warnID); err != nil {
		respondEphemeral(s, i, i18n.T(lang, "error")+": "+err.Error())
		return
	}

	respond(s, i, fmt.Sprintf("%s: removed warning #%d from <@%s>", i18n.T(lang, "success"), warnID, userID))
	b.modLog(ctx, i, fmt.Sprintf("Unwarn #%d", warnID), userID, "")
}

// modLog mirrors a moderation action to the configured mod-log channel.
func (b *Bot) modLog(ctx context.Context, i *discordgo.InteractionCreate, action, targetID, reason string) {
	b.mirrorEmbed(ctx, i.GuildID, storage.ChannelModLog, transport.Message{
		Title: action,
		Body: fmt.Sprintf("Target: <@%s>\nModerator: <@%s>\nReason: %s",
			targetID, invokerID(i), orDash(reason)),
	})
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
