package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"lordsbot/internal/i18n"
	"lordsbot/internal/match"
	"lordsbot/internal/services/notify"
	"lordsbot/internal/storage"
	logx "lordsbot/pkg/logx"
)

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

func (b *Bot) handleMatch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLanguage(ctx, i.GuildID)
	if b.store == nil {
		respondEphemeral(s, i, i18n.T(lang, "error")+": "+storage.ErrDisabled.Error())
		return
	}

	opts := optionMap(i)
	in := match.Input{
		Team1Text: opts["team1"].StringValue(),
		Team2Text: opts["team2"].StringValue(),
		Day:       int(opts["day"].IntValue()),
		TimeText:  opts["time"].StringValue(),
		CreatorID: invokerID(i),
	}

	rec, err := match.Build(in, i.GuildID, b.adapter, time.Now().UTC())
	if err != nil {
		respondEphemeral(s, i, buildErrorReply(lang, err))
		return
	}

	matchID, err := b.store.CreateMatch(ctx, i.GuildID, rec)
	if err != nil {
		b.log.Error("match create failed", logx.String("guild", i.GuildID), logx.Err(err))
		respondEphemeral(s, i, i18n.T(lang, "error"))
		return
	}

	guildName, _ := b.adapter.GuildName(i.GuildID)
	data := i18n.Data{Match: rec, MatchID: matchID, GuildName: guildName}
	respondEmbed(s, i, i18n.Render(i18n.KindCreated, lang, data), false)

	if b.notify != nil {
		res := b.notify.Dispatch(ctx, notify.Batch{
			GuildID:    i.GuildID,
			MatchID:    matchID,
			Match:      rec,
			Recipients: rec.Participants,
			Kind:       i18n.KindCreated,
			Language:   lang,
			GuildName:  guildName,
		})
		b.log.Info("match created",
			logx.String("guild", i.GuildID),
			logx.String("match", matchID),
			logx.Time("start", rec.StartTime),
			logx.Int("notified", res.Sent),
		)
	}

	b.mirror(ctx, i.GuildID, storage.ChannelActivity,
		fmt.Sprintf("Match `%s` scheduled by <@%s> for %s.", matchID, rec.CreatorID, i18n.FormatTime(rec.StartTime, lang)))
	b.mirrorEmbed(ctx, i.GuildID, storage.ChannelMatch, i18n.Render(i18n.KindCreated, lang, data))
}

func buildErrorReply(lang string, err error) string {
	switch {
	case errors.Is(err, match.ErrInvalidDay):
		return i18n.T(lang, "error") + ": day must be between 1 and 31"
	case errors.Is(err, match.ErrInvalidTime):
		return i18n.T(lang, "error") + ": unrecognized time, try 20:30 or 8:30 PM"
	case errors.Is(err, match.ErrPastStart):
		return i18n.T(lang, "error") + ": that time is already in the past"
	case errors.Is(err, match.ErrNoParticipants):
		return i18n.T(lang, "error") + ": " + err.Error()
	}
	return i18n.T(lang, "error")
}

func (b *Bot) handleMatches(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLanguage(ctx, i.GuildID)
	if b.store == nil {
		respondEphemeral(s, i, i18n.T(lang, "error")+": "+storage.ErrDisabled.Error())
		return
	}

	matches, err := b.store.GuildMatches(ctx, i.GuildID)
	if err != nil {
		b.log.Error("match listing failed", logx.String("guild", i.GuildID), logx.Err(err))
		respondEphemeral(s, i, i18n.T(lang, "error"))
		return
	}
	if len(matches) == 0 {
		respondEphemeral(s, i, "No matches scheduled. Use /match to create one.")
		return
	}

	respond(s, i, renderMatchList(matches, lang))
}

// matchListLimit caps the /matches listing so a long schedule never
// overruns the 2000-character message limit.
const matchListLimit = 10

func renderMatchList(matches map[string]storage.Match, lang string) string {
	ids := match.SortedIDs(matches)
	shown := ids
	if len(shown) > matchListLimit {
		shown = shown[:matchListLimit]
	}

	var sb strings.Builder
	for n, id := range shown {
		rec := matches[id]
		fmt.Fprintf(&sb, "**%d.** %s\n%s: %s\n%s: %d\n\n",
			n+1, rec.Title,
			i18n.T(lang, "match_time"), i18n.FormatTime(rec.StartTime, lang),
			i18n.T(lang, "participants"), len(rec.Participants),
		)
	}
	if hidden := len(ids) - len(shown); hidden > 0 {
		fmt.Fprintf(&sb, "...and %d more", hidden)
	}
	return sb.String()
}

// resolveMatchNumber maps the 1-based /matches position to a match id.
// The ordering is recomputed here, so the number is only meaningful
// against a current listing.
func (b *Bot) resolveMatchNumber(ctx context.Context, guildID string, number int) (string, storage.Match, error) {
	matches, err := b.store.GuildMatches(ctx, guildID)
	if err != nil {
		return "", storage.Match{}, err
	}
	ids := match.SortedIDs(matches)
	if number < 1 || number > len(ids) {
		return "", storage.Match{}, fmt.Errorf("no match with number %d (have %d)", number, len(ids))
	}
	id := ids[number-1]
	return id, matches[id], nil
}

// canManageMatch gates removal commands: the invoker needs the
// manage-events permission, and removing someone else's match
// additionally requires administrator.
func canManageMatch(i *discordgo.InteractionCreate, rec storage.Match) bool {
	if !hasPermission(i, discordgo.PermissionManageEvents) {
		return false
	}
	if invokerID(i) == rec.CreatorID {
		return true
	}
	return hasPermission(i, discordgo.PermissionAdministrator)
}

func (b *Bot) handleEndMatch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLanguage(ctx, i.GuildID)
	if b.store == nil {
		respondEphemeral(s, i, i18n.T(lang, "error")+": "+storage.ErrDisabled.Error())
		return
	}

	number := int(optionMap(i)["number"].IntValue())
	id, rec, err := b.resolveMatchNumber(ctx, i.GuildID, number)
	if err != nil {
		respondEphemeral(s, i, i18n.T(lang, "error")+": "+err.Error())
		return
	}
	if !canManageMatch(i, rec) {
		respondEphemeral(s, i, i18n.T(lang, "no_permission"))
		return
	}

	if err := b.store.RemoveMatch(ctx, i.GuildID, id); err != nil {
		b.log.Error("match removal failed", logx.String("guild", i.GuildID), logx.String("match", id), logx.Err(err))
		respondEphemeral(s, i, i18n.T(lang, "error"))
		return
	}

	b.log.Info("match ended", logx.String("guild", i.GuildID), logx.String("match", id), logx.String("by", invokerID(i)))
	respond(s, i, fmt.Sprintf("%s: %s `%s`", i18n.T(lang, "success"), rec.Title, id))
	b.mirror(ctx, i.GuildID, storage.ChannelActivity,
		fmt.Sprintf("Match `%s` ended by <@%s>.", id, invokerID(i)))
}

func (b *Bot) handleCancelMatch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLanguage(ctx, i.GuildID)
	if b.store == nil {
		respondEphemeral(s, i, i18n.T(lang, "error")+": "+storage.ErrDisabled.Error())
		return
	}

	number := int(optionMap(i)["number"].IntValue())
	id, rec, err := b.resolveMatchNumber(ctx, i.GuildID, number)
	if err != nil {
		respondEphemeral(s, i, i18n.T(lang, "error")+": "+err.Error())
		return
	}
	if !canManageMatch(i, rec) {
		respondEphemeral(s, i, i18n.T(lang, "no_permission"))
		return
	}

	// Remove first so a reminder tick racing this command cannot fire
	// for a match the guild already cancelled.
	if err := b.store.RemoveMatch(ctx, i.GuildID, id); err != nil {
		b.log.Error("match cancel failed", logx.String("guild", i.GuildID), logx.String("match", id), logx.Err(err))
		respondEphemeral(s, i, i18n.T(lang, "error"))
		return
	}

	guildName, _ := b.adapter.GuildName(i.GuildID)
	data := i18n.Data{Match: rec, MatchID: id, GuildName: guildName, CancelledBy: invokerID(i)}
	respondEmbed(s, i, i18n.Render(i18n.KindCancelled, lang, data), false)

	if b.notify != nil {
		res := b.notify.Dispatch(ctx, notify.Batch{
			GuildID:     i.GuildID,
			MatchID:     id,
			Match:       rec,
			Recipients:  rec.Participants,
			Kind:        i18n.KindCancelled,
			Language:    lang,
			GuildName:   guildName,
			CancelledBy: invokerID(i),
		})
		b.log.Info("match cancelled",
			logx.String("guild", i.GuildID),
			logx.String("match", id),
			logx.Int("notified", res.Sent),
		)
	}

	b.mirror(ctx, i.GuildID, storage.ChannelActivity,
		fmt.Sprintf("Match `%s` cancelled by <@%s>.", id, invokerID(i)))
}
