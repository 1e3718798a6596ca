package storage

import (
	"errors"
	"time"
)

var (
	ErrDisabled = errors.New("storage disabled")

	// ErrIDExhausted is returned when match id generation keeps colliding.
	// With 8 hex chars of a UUID this should never happen in practice.
	ErrIDExhausted = errors.New("could not generate a unique match id")

	ErrWarningNotFound = errors.New("warning not found")
)

// Config configures storage.
//
// Driver values:
//   - "file": JSON collections with atomic full-file rewrite per mutation
//   - "sqlite": SQLite database file
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Match is a scheduled match owned by the store. All times are UTC.
//
// Reminded10 and Reminded3 are monotonic: once set they are never cleared
// for the life of the record, which is what guarantees at-most-once
// reminders across sweep ticks.
type Match struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	CreatorID   string    `json:"creator_id"`

	// Participants is the union of both teams, deduplicated.
	Participants []string `json:"participants"`

	Team1 []string `json:"team1,omitempty"`
	Team2 []string `json:"team2,omitempty"`

	// Raw mention text as typed by the creator, kept for display.
	Team1Mentions string `json:"team1_mentions,omitempty"`
	Team2Mentions string `json:"team2_mentions,omitempty"`

	CreatedAt  time.Time `json:"created_at"`
	Reminded10 bool      `json:"reminded_10"`
	Reminded3  bool      `json:"reminded_3"`
}

// ChannelKind names the per-guild configurable channels.
type ChannelKind string

const (
	ChannelModLog   ChannelKind = "mod_log"
	ChannelActivity ChannelKind = "activity"
	ChannelMatch    ChannelKind = "match"
)

const DefaultLanguage = "en"

// GuildSettings is the per-guild configuration record. Empty channel ids
// mean "feature disabled", never an error.
type GuildSettings struct {
	Language        string    `json:"language"`
	ModLogChannel   string    `json:"mod_log_channel,omitempty"`
	ActivityChannel string    `json:"activity_channel,omitempty"`
	MatchChannel    string    `json:"match_channel,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (g GuildSettings) Channel(kind ChannelKind) string {
	switch kind {
	case ChannelModLog:
		return g.ModLogChannel
	case ChannelActivity:
		return g.ActivityChannel
	case ChannelMatch:
		return g.MatchChannel
	}
	return ""
}

// Warning is an append-only moderation record. IDs are sequential per
// (guild, user) and records are never mutated after creation.
type Warning struct {
	ID          int       `json:"id"`
	ModeratorID string    `json:"moderator_id"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}
