package storage

import (
	"context"
	"errors"
	"strings"

	logx "lordsbot/pkg/logx"
)

// Store is the persistence API used by the command handlers and the
// reminder sweep. It is the only component allowed to mutate persisted
// state; every read hands out copies, and all mutating calls serialize
// and fully persist before returning.
type Store interface {
	// CreateMatch persists rec under a freshly generated short id and
	// returns the id. Generation retries on collision rather than
	// overwriting an existing record.
	CreateMatch(ctx context.Context, guildID string, rec Match) (string, error)
	// GuildMatches returns all matches for one guild, keyed by match id.
	GuildMatches(ctx context.Context, guildID string) (map[string]Match, error)
	// AllMatches returns every stored match grouped by guild. Used only
	// by the reminder sweep.
	AllMatches(ctx context.Context) (map[string]map[string]Match, error)
	// UpdateMatch replaces a record in full. Updating a match that no
	// longer exists is a no-op, tolerating a concurrent removal.
	UpdateMatch(ctx context.Context, guildID, matchID string, rec Match) error
	// RemoveMatch is idempotent; removing a missing match is not an error.
	RemoveMatch(ctx context.Context, guildID, matchID string) error

	// GuildSettings lazily initializes defaults on first access.
	GuildSettings(ctx context.Context, guildID string) (GuildSettings, error)
	SetGuildLanguage(ctx context.Context, guildID, language string) error
	SetGuildChannel(ctx context.Context, guildID string, kind ChannelKind, channelID string) error

	// AddWarning appends a warning and returns its per-(guild,user)
	// sequential id.
	AddWarning(ctx context.Context, guildID, userID, moderatorID, reason string) (int, error)
	UserWarnings(ctx context.Context, guildID, userID string) ([]Warning, error)
	// RemoveWarning returns ErrWarningNotFound for an unknown id.
	RemoveWarning(ctx context.Context, guildID, userID string, warningID int) error

	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if storage is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}
