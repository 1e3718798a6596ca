package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	logx "lordsbot/pkg/logx"
)

//go:embed schema.sql
var schemaFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers. One connection
	// also gives us the single-writer contract for free.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		ms := cfg.BusyTimeout.Milliseconds()
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	st := &sqliteStore{db: db, log: log}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ---- matches ----

func (s *sqliteStore) CreateMatch(ctx context.Context, guildID string, rec Match) (string, error) {
	blob, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	for i := 0; i < matchIDAttempts; i++ {
		id, err := newMatchID(func(string) bool { return false })
		if err != nil {
			return "", err
		}
		// INSERT (not upsert) so an id collision surfaces as a constraint
		// error and we retry with a fresh id.
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO matches(guild_id, match_id, record) VALUES(?,?,?)`,
			guildID, id, string(blob),
		)
		if err == nil {
			return id, nil
		}
		if !isConstraintErr(err) {
			return "", err
		}
	}
	return "", ErrIDExhausted
}

func isConstraintErr(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "constraint")
}

func (s *sqliteStore) GuildMatches(ctx context.Context, guildID string) (map[string]Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id, record FROM matches WHERE guild_id = ?`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]Match{}
	for rows.Next() {
		var id, blob string
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		var rec Match
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			s.log.Warn("skipping undecodable match record", logx.String("guild", guildID), logx.String("match", id), logx.Err(err))
			continue
		}
		out[id] = rec
	}
	return out, rows.Err()
}

func (s *sqliteStore) AllMatches(ctx context.Context) (map[string]map[string]Match, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT guild_id, match_id, record FROM matches`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]map[string]Match{}
	for rows.Next() {
		var gid, id, blob string
		if err := rows.Scan(&gid, &id, &blob); err != nil {
			return nil, err
		}
		var rec Match
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			s.log.Warn("skipping undecodable match record", logx.String("guild", gid), logx.String("match", id), logx.Err(err))
			continue
		}
		if out[gid] == nil {
			out[gid] = map[string]Match{}
		}
		out[gid][id] = rec
	}
	return out, rows.Err()
}

func (s *sqliteStore) UpdateMatch(ctx context.Context, guildID, matchID string, rec Match) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	// UPDATE of a removed row affects nothing, which is the contract.
	_, err = s.db.ExecContext(ctx,
		`UPDATE matches SET record = ? WHERE guild_id = ? AND match_id = ?`,
		string(blob), guildID, matchID,
	)
	return err
}

func (s *sqliteStore) RemoveMatch(ctx context.Context, guildID, matchID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM matches WHERE guild_id = ? AND match_id = ?`, guildID, matchID)
	return err
}

// ---- settings ----

func (s *sqliteStore) GuildSettings(ctx context.Context, guildID string) (GuildSettings, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM settings WHERE guild_id = ?`, guildID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		gs := GuildSettings{Language: DefaultLanguage, CreatedAt: time.Now().UTC()}
		if err := s.putSettings(ctx, guildID, gs, false); err != nil {
			return GuildSettings{}, err
		}
		return gs, nil
	}
	if err != nil {
		return GuildSettings{}, err
	}
	var gs GuildSettings
	if err := json.Unmarshal([]byte(blob), &gs); err != nil {
		return GuildSettings{}, err
	}
	return gs, nil
}

func (s *sqliteStore) putSettings(ctx context.Context, guildID string, gs GuildSettings, replace bool) error {
	blob, err := json.Marshal(gs)
	if err != nil {
		return err
	}
	if replace {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO settings(guild_id, record) VALUES(?,?)
			 ON CONFLICT(guild_id) DO UPDATE SET record=excluded.record`,
			guildID, string(blob),
		)
		return err
	}
	// First write only; a concurrent initializer winning the race is fine.
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings(guild_id, record) VALUES(?,?)`,
		guildID, string(blob),
	)
	return err
}

func (s *sqliteStore) SetGuildLanguage(ctx context.Context, guildID, language string) error {
	gs, err := s.GuildSettings(ctx, guildID)
	if err != nil {
		return err
	}
	gs.Language = language
	return s.putSettings(ctx, guildID, gs, true)
}

func (s *sqliteStore) SetGuildChannel(ctx context.Context, guildID string, kind ChannelKind, channelID string) error {
	gs, err := s.GuildSettings(ctx, guildID)
	if err != nil {
		return err
	}
	switch kind {
	case ChannelModLog:
		gs.ModLogChannel = channelID
	case ChannelActivity:
		gs.ActivityChannel = channelID
	case ChannelMatch:
		gs.MatchChannel = channelID
	default:
		return errors.New("unknown channel kind: " + string(kind))
	}
	return s.putSettings(ctx, guildID, gs, true)
}

// ---- warnings ----

func (s *sqliteStore) AddWarning(ctx context.Context, guildID, userID, moderatorID, reason string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(warn_id), 0) + 1 FROM warnings WHERE guild_id = ? AND user_id = ?`,
		guildID, userID).Scan(&next)
	if err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO warnings(guild_id, user_id, warn_id, moderator_id, reason, at)
		 VALUES(?,?,?,?,?,?)`,
		guildID, userID, next, moderatorID, reason, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *sqliteStore) UserWarnings(ctx context.Context, guildID, userID string) ([]Warning, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT warn_id, moderator_id, reason, at FROM warnings
		 WHERE guild_id = ? AND user_id = ? ORDER BY warn_id`,
		guildID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Warning
	for rows.Next() {
		var w Warning
		var at string
		if err := rows.Scan(&w.ID, &w.ModeratorID, &w.Reason, &at); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, at); err == nil {
			w.Timestamp = t
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *sqliteStore) RemoveWarning(ctx context.Context, guildID, userID string, warningID int) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM warnings WHERE guild_id = ? AND user_id = ? AND warn_id = ?`,
		guildID, userID, warningID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrWarningNotFound
	}
	return nil
}
