package reminder

import (
	"context"
	"time"

	"lordsbot/internal/i18n"
	"lordsbot/internal/services/notify"
	"lordsbot/internal/storage"
	logx "lordsbot/pkg/logx"
)

// sweepOnce evaluates every stored match against now. It works on a
// snapshot, so a slow notification fan-out never holds the store lock,
// and it never aborts: any per-guild or per-match failure is logged and
// skipped.
func (s *Service) sweepOnce(ctx context.Context, now time.Time) {
	all, err := s.store.AllMatches(ctx)
	if err != nil {
		s.log.Error("sweep aborted: cannot snapshot matches", logx.Err(err))
		return
	}

	for guildID, matches := range all {
		guildName, reachable := s.roster.GuildName(guildID)
		if !reachable {
			s.log.Debug("skipping unreachable guild", logx.String("guild", guildID))
			continue
		}

		lang := storage.DefaultLanguage
		if gs, err := s.store.GuildSettings(ctx, guildID); err == nil {
			lang = gs.Language
		} else {
			s.log.Warn("guild settings unavailable; defaulting language", logx.String("guild", guildID), logx.Err(err))
		}

		for matchID, rec := range matches {
			s.evalMatch(ctx, now, guildID, guildName, lang, matchID, rec)
		}
	}
}

// evalMatch applies the per-match transition rule. The branches are
// mutually exclusive and checked in priority order; at most one fires
// per tick. The reminder flags are monotonic: a set flag is never
// cleared, which makes each reminder at-most-once for the life of the
// record.
func (s *Service) evalMatch(ctx context.Context, now time.Time, guildID, guildName, lang, matchID string, rec storage.Match) {
	delta := rec.StartTime.Sub(now)

	switch {
	case s.cfg.Remind10.Contains(delta) && !rec.Reminded10:
		s.remind(ctx, guildID, guildName, lang, matchID, rec, i18n.KindReminder10)
		rec.Reminded10 = true
		if err := s.store.UpdateMatch(ctx, guildID, matchID, rec); err != nil {
			s.log.Error("failed persisting reminder flag", logx.String("guild", guildID), logx.String("match", matchID), logx.Err(err))
		}

	case s.cfg.Remind3.Contains(delta) && !rec.Reminded3:
		s.remind(ctx, guildID, guildName, lang, matchID, rec, i18n.KindReminder3)
		rec.Reminded3 = true
		if err := s.store.UpdateMatch(ctx, guildID, matchID, rec); err != nil {
			s.log.Error("failed persisting reminder flag", logx.String("guild", guildID), logx.String("match", matchID), logx.Err(err))
		}

	case delta < -s.cfg.ExpireAfter:
		// Long past start: retire without notifying anyone.
		if err := s.store.RemoveMatch(ctx, guildID, matchID); err != nil {
			s.log.Error("failed removing expired match", logx.String("guild", guildID), logx.String("match", matchID), logx.Err(err))
			return
		}
		s.log.Info("expired match removed", logx.String("guild", guildID), logx.String("match", matchID), logx.Duration("past_start", -delta))
	}
}

func (s *Service) remind(ctx context.Context, guildID, guildName, lang, matchID string, rec storage.Match, kind i18n.Kind) {
	if s.dispatcher == nil {
		return
	}
	res := s.dispatcher.Dispatch(ctx, notify.Batch{
		GuildID:    guildID,
		MatchID:    matchID,
		Match:      rec,
		Recipients: rec.Participants,
		Kind:       kind,
		Language:   lang,
		GuildName:  guildName,
	})
	s.log.Info("reminder dispatched",
		logx.String("guild", guildID),
		logx.String("match", matchID),
		logx.String("kind", string(kind)),
		logx.Int("sent", res.Sent),
		logx.Int("failed", res.Failed),
	)
}
