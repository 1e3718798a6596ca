package transport

import "context"

// Button is a platform-neutral message button. The adapter maps ID to its
// own callback routing (Discord: component custom_id).
type Button struct {
	ID    string
	Label string
	Emoji string
}

// Message is structured text produced by the message builders.
// Adapters decide how to render it (Discord: an embed plus components).
type Message struct {
	Title   string
	Body    string
	Footer  string
	Buttons []Button
}

// Messenger delivers messages. Direct messages are best-effort: a recipient
// with DMs disabled yields an error the caller is expected to tolerate.
type Messenger interface {
	SendDirectMessage(ctx context.Context, userID string, msg Message) error
	SendChannelMessage(ctx context.Context, channelID string, msg Message) error
}

// Roster answers membership questions for a guild. Lookups that fail
// (unknown user, unreachable guild) report absence, never an error.
type Roster interface {
	IsMember(guildID, userID string) bool
	RoleMembers(guildID, roleID string) []string

	// GuildName reports the display name of a guild and whether the
	// guild is currently reachable at all.
	GuildName(guildID string) (string, bool)
}
