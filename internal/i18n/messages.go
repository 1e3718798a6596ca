package i18n

import (
	"fmt"
	"strings"

	"lordsbot/internal/storage"
	"lordsbot/internal/transport"
)

// Kind tags a notification message. Builders are pure functions over
// (Kind, language, Data) so the same notification can be re-rendered in
// any language on demand, decoupled from the delivery transport.
type Kind string

const (
	KindCreated    Kind = "created"
	KindReminder10 Kind = "reminder_10"
	KindReminder3  Kind = "reminder_3"
	KindCancelled  Kind = "cancelled"
)

// Data carries everything a builder needs to render a notification.
type Data struct {
	Match       storage.Match `json:"match"`
	MatchID     string        `json:"match_id"`
	GuildName   string        `json:"guild_name,omitempty"`
	CancelledBy string        `json:"cancelled_by,omitempty"`
}

// Render builds the notification content for one kind in one language.
func Render(kind Kind, lang string, d Data) transport.Message {
	switch kind {
	case KindReminder10:
		return renderReminder(lang, d, 10)
	case KindReminder3:
		return renderReminder(lang, d, 3)
	case KindCancelled:
		return renderCancelled(lang, d)
	default:
		return renderCreated(lang, d)
	}
}

func renderCreated(lang string, d Data) transport.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", T(lang, "join_match"))
	writeMatchInfo(&b, lang, d)
	return transport.Message{
		Title:  "⚔️ " + T(lang, "match_created"),
		Body:   b.String(),
		Footer: matchFooter(d),
	}
}

func renderReminder(lang string, d Data, minutes int) transport.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ %d %s\n\n", minutes, T(lang, "minutes_before"))
	writeMatchInfo(&b, lang, d)
	return transport.Message{
		Title:  "🔔 " + T(lang, "match_reminder"),
		Body:   b.String(),
		Footer: matchFooter(d),
	}
}

func renderCancelled(lang string, d Data) transport.Message {
	var b strings.Builder
	writeMatchInfo(&b, lang, d)
	if d.CancelledBy != "" {
		fmt.Fprintf(&b, "\n%s: <@%s>", T(lang, "cancelled_by"), d.CancelledBy)
	}
	return transport.Message{
		Title:  "❌ " + T(lang, "match_cancelled"),
		Body:   b.String(),
		Footer: matchFooter(d),
	}
}

func writeMatchInfo(b *strings.Builder, lang string, d Data) {
	m := d.Match
	fmt.Fprintf(b, "**%s**\n", m.Title)
	if m.Description != "" {
		fmt.Fprintf(b, "%s: %s\n", T(lang, "description"), m.Description)
	}
	fmt.Fprintf(b, "🕒 %s: %s\n", T(lang, "match_time"), FormatTime(m.StartTime, lang))
	fmt.Fprintf(b, "👥 %s: %d\n", T(lang, "participants"), len(m.Participants))
	fmt.Fprintf(b, "%s: <@%s>", T(lang, "creator"), m.CreatorID)
	if d.GuildName != "" {
		fmt.Fprintf(b, "\n%s: %s", T(lang, "server"), d.GuildName)
	}
}

func matchFooter(d Data) string {
	if d.MatchID == "" {
		return ""
	}
	return "match #" + d.MatchID
}
