package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	logx "lordsbot/pkg/logx"
)

// fileStore persists three independent keyed collections as JSON documents:
//
//   - <prefix>.matches.json   guild id -> match id -> record
//   - <prefix>.settings.json  guild id -> settings record
//   - <prefix>.warnings.json  guild id -> user id -> ordered warning list
//
// Every mutation rewrites the owning document in full through a temp file
// and os.Rename, so a crash mid-write never leaves a torn document on disk.
// A single mutex serializes writers; reads return deep copies.
type fileStore struct {
	log logx.Logger

	mu sync.Mutex

	matchesPath  string
	settingsPath string
	warningsPath string

	matches  map[string]map[string]Match
	settings map[string]GuildSettings
	warnings map[string]map[string][]Warning
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	prefix := filepath.Join(dir, base)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	s := &fileStore{
		log:          log,
		matchesPath:  prefix + ".matches.json",
		settingsPath: prefix + ".settings.json",
		warningsPath: prefix + ".warnings.json",
		matches:      map[string]map[string]Match{},
		settings:     map[string]GuildSettings{},
		warnings:     map[string]map[string][]Warning{},
	}

	if err := loadJSON(s.matchesPath, &s.matches); err != nil {
		return nil, err
	}
	if err := loadJSON(s.settingsPath, &s.settings); err != nil {
		return nil, err
	}
	if err := loadJSON(s.warningsPath, &s.warnings); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileStore) Close() error { return nil }

// loadJSON fills out from path; a missing file is an empty collection.
func loadJSON(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(out)
}

// saveJSON writes v to path atomically (temp file + rename).
func saveJSON(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ---- matches ----

func (s *fileStore) CreateMatch(ctx context.Context, guildID string, rec Match) (string, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	guild := s.matches[guildID]
	if guild == nil {
		guild = map[string]Match{}
		s.matches[guildID] = guild
	}

	id, err := newMatchID(func(candidate string) bool {
		_, taken := guild[candidate]
		return taken
	})
	if err != nil {
		return "", err
	}

	guild[id] = copyMatch(rec)
	if err := saveJSON(s.matchesPath, s.matches); err != nil {
		delete(guild, id)
		return "", err
	}
	return id, nil
}

func (s *fileStore) GuildMatches(ctx context.Context, guildID string) (map[string]Match, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Match, len(s.matches[guildID]))
	for id, rec := range s.matches[guildID] {
		out[id] = copyMatch(rec)
	}
	return out, nil
}

func (s *fileStore) AllMatches(ctx context.Context) (map[string]map[string]Match, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]map[string]Match, len(s.matches))
	for gid, guild := range s.matches {
		cp := make(map[string]Match, len(guild))
		for id, rec := range guild {
			cp[id] = copyMatch(rec)
		}
		out[gid] = cp
	}
	return out, nil
}

func (s *fileStore) UpdateMatch(ctx context.Context, guildID, matchID string, rec Match) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	guild := s.matches[guildID]
	if guild == nil {
		return nil
	}
	prev, ok := guild[matchID]
	if !ok {
		// Concurrent removal; full replace of a missing key is a no-op.
		return nil
	}
	guild[matchID] = copyMatch(rec)
	if err := saveJSON(s.matchesPath, s.matches); err != nil {
		guild[matchID] = prev
		return err
	}
	return nil
}

func (s *fileStore) RemoveMatch(ctx context.Context, guildID, matchID string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	guild := s.matches[guildID]
	if guild == nil {
		return nil
	}
	prev, ok := guild[matchID]
	if !ok {
		return nil
	}
	delete(guild, matchID)
	if len(guild) == 0 {
		delete(s.matches, guildID)
	}
	if err := saveJSON(s.matchesPath, s.matches); err != nil {
		if s.matches[guildID] == nil {
			s.matches[guildID] = map[string]Match{}
		}
		s.matches[guildID][matchID] = prev
		return err
	}
	return nil
}

// ---- settings ----

func (s *fileStore) GuildSettings(ctx context.Context, guildID string) (GuildSettings, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settingsLocked(guildID)
}

// settingsLocked lazily initializes and persists defaults on first access.
func (s *fileStore) settingsLocked(guildID string) (GuildSettings, error) {
	if gs, ok := s.settings[guildID]; ok {
		return gs, nil
	}
	gs := GuildSettings{Language: DefaultLanguage, CreatedAt: time.Now().UTC()}
	s.settings[guildID] = gs
	if err := saveJSON(s.settingsPath, s.settings); err != nil {
		delete(s.settings, guildID)
		return GuildSettings{}, err
	}
	return gs, nil
}

func (s *fileStore) SetGuildLanguage(ctx context.Context, guildID, language string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	gs, err := s.settingsLocked(guildID)
	if err != nil {
		return err
	}
	gs.Language = language
	return s.putSettingsLocked(guildID, gs)
}

func (s *fileStore) SetGuildChannel(ctx context.Context, guildID string, kind ChannelKind, channelID string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	gs, err := s.settingsLocked(guildID)
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
	return s.putSettingsLocked(guildID, gs)
}

func (s *fileStore) putSettingsLocked(guildID string, gs GuildSettings) error {
	prev, had := s.settings[guildID]
	s.settings[guildID] = gs
	if err := saveJSON(s.settingsPath, s.settings); err != nil {
		if had {
			s.settings[guildID] = prev
		} else {
			delete(s.settings, guildID)
		}
		return err
	}
	return nil
}

// ---- warnings ----

func (s *fileStore) AddWarning(ctx context.Context, guildID, userID, moderatorID, reason string) (int, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	guild := s.warnings[guildID]
	if guild == nil {
		guild = map[string][]Warning{}
		s.warnings[guildID] = guild
	}

	// Sequential id: one past the highest existing id, so deleting an old
	// warning never causes id reuse.
	next := 1
	for _, w := range guild[userID] {
		if w.ID >= next {
			next = w.ID + 1
		}
	}
	w := Warning{ID: next, ModeratorID: moderatorID, Reason: reason, Timestamp: time.Now().UTC()}
	guild[userID] = append(guild[userID], w)

	if err := saveJSON(s.warningsPath, s.warnings); err != nil {
		guild[userID] = guild[userID][:len(guild[userID])-1]
		return 0, err
	}
	return next, nil
}

func (s *fileStore) UserWarnings(ctx context.Context, guildID, userID string) ([]Warning, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.warnings[guildID][userID]
	out := make([]Warning, len(src))
	copy(out, src)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fileStore) RemoveWarning(ctx context.Context, guildID, userID string, warningID int) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.warnings[guildID][userID]
	idx := -1
	for i, w := range list {
		if w.ID == warningID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrWarningNotFound
	}
	prev := append([]Warning(nil), list...)
	s.warnings[guildID][userID] = append(list[:idx], list[idx+1:]...)
	if err := saveJSON(s.warningsPath, s.warnings); err != nil {
		s.warnings[guildID][userID] = prev
		return err
	}
	return nil
}

func copyMatch(m Match) Match {
	cp := m
	cp.Participants = append([]string(nil), m.Participants...)
	cp.Team1 = append([]string(nil), m.Team1...)
	cp.Team2 = append([]string(nil), m.Team2...)
	return cp
}
