package match

import (
	"fmt"
	"sort"
	"time"

	"lordsbot/internal/storage"
	"lordsbot/internal/transport"
)

// Input is everything the /match command collects from the user.
type Input struct {
	Team1Text string
	Team2Text string
	Day       int
	TimeText  string
	CreatorID string
}

// Build validates the command input and assembles a match record ready
// for the store. now is the real current instant; the resolved start is
// rejected unless strictly after it. The rejection happens here rather
// than inside the parser: a day equal to today with an already-past time
// of day resolves to a past instant and the user is asked to retry, not
// silently rolled to next month.
func Build(in Input, guildID string, roster transport.Roster, now time.Time) (storage.Match, error) {
	team1 := ResolveParticipants(in.Team1Text, guildID, roster)
	if len(team1) == 0 {
		return storage.Match{}, fmt.Errorf("team 1: %w", ErrNoParticipants)
	}
	team2 := ResolveParticipants(in.Team2Text, guildID, roster)
	if len(team2) == 0 {
		return storage.Match{}, fmt.Errorf("team 2: %w", ErrNoParticipants)
	}

	start, err := ResolveDayTime(in.Day, in.TimeText, now)
	if err != nil {
		return storage.Match{}, err
	}
	if !start.After(now) {
		return storage.Match{}, fmt.Errorf("start %s: %w", start.UTC().Format(time.RFC3339), ErrPastStart)
	}

	seen := map[string]bool{}
	participants := make([]string, 0, len(team1)+len(team2))
	for _, id := range append(append([]string{}, team1...), team2...) {
		if !seen[id] {
			seen[id] = true
			participants = append(participants, id)
		}
	}

	return storage.Match{
		Title:         "Team vs Team",
		Description:   fmt.Sprintf("Team 1: %s\nTeam 2: %s", in.Team1Text, in.Team2Text),
		StartTime:     start,
		CreatorID:     in.CreatorID,
		Participants:  participants,
		Team1:         team1,
		Team2:         team2,
		Team1Mentions: in.Team1Text,
		Team2Mentions: in.Team2Text,
		CreatedAt:     now.UTC(),
	}, nil
}

// SortedIDs returns the guild's match ids in ascending start-time order.
// Command handlers use the 1-based position in this ordering as the
// user-facing match number; it is recomputed on every listing and is not
// stable across calls.
func SortedIDs(matches map[string]storage.Match) []string {
	ids := make([]string, 0, len(matches))
	for id := range matches {
		ids = append(ids, id)
	}
	// Tie-break on id so equal start times list deterministically.
	sort.Slice(ids, func(i, j int) bool {
		a, b := matches[ids[i]], matches[ids[j]]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		return ids[i] < ids[j]
	})
	return ids
}
