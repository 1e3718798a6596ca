package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"lordsbot/internal/i18n"
	"lordsbot/internal/storage"
	"lordsbot/internal/transport"
	"lordsbot/pkg/dgui"
	logx "lordsbot/pkg/logx"
)

type Config struct {
	Workers    int           // bounded fan-out per batch
	RatePerSec int           // token bucket across all batches
	Timeout    time.Duration // per-recipient send timeout
}

// Batch is one notification fan-out: the same message, rendered once,
// delivered to every recipient.
type Batch struct {
	GuildID     string
	MatchID     string
	Match       storage.Match
	Recipients  []string
	Kind        i18n.Kind
	Language    string
	GuildName   string
	CancelledBy string
}

type Result struct {
	Sent   int
	Failed int
}

// Service delivers direct messages best-effort: per-recipient failures
// (recipient left the guild, DMs disabled) are logged and skipped, never
// retried, and never abort the batch.
type Service struct {
	mu  sync.Mutex
	cfg Config

	log       logx.Logger
	messenger transport.Messenger
	roster    transport.Roster
	tokens    *dgui.TokenStore

	limiter *rate.Limiter
}

func New(cfg Config, messenger transport.Messenger, roster transport.Roster, tokens *dgui.TokenStore, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Service{
		log:       log,
		messenger: messenger,
		roster:    roster,
		tokens:    tokens,
	}
	s.Apply(cfg)
	return s
}

// Apply updates runtime knobs. Safe to call concurrently with Dispatch.
func (s *Service) Apply(cfg Config) {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	s.mu.Lock()
	s.cfg = cfg
	// Burst = rate per sec, so short spikes don't block too hard.
	s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec)
	s.mu.Unlock()
}

// Dispatch renders the batch's message once, attaches translation
// buttons, and fans out to all recipients through a bounded worker group.
// It blocks until the batch completes and reports delivery counts; a
// missed notification is permanently missed (no queue, no retry).
func (s *Service) Dispatch(ctx context.Context, b Batch) Result {
	s.mu.Lock()
	cfg := s.cfg
	lim := s.limiter
	s.mu.Unlock()

	msg := i18n.Render(b.Kind, b.Language, i18n.Data{
		Match:       b.Match,
		MatchID:     b.MatchID,
		GuildName:   b.GuildName,
		CancelledBy: b.CancelledBy,
	})
	msg.Buttons = s.translationButtons(b)

	log := s.log.With(
		logx.String("guild", b.GuildID),
		logx.String("match", b.MatchID),
		logx.String("kind", string(b.Kind)),
	)

	jobs := make(chan string)
	var sent, failed atomic.Int64
	var wg sync.WaitGroup

	workers := cfg.Workers
	if workers > len(b.Recipients) {
		workers = len(b.Recipients)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for userID := range jobs {
				if err := s.sendOne(ctx, cfg, lim, b.GuildID, userID, msg); err != nil {
					failed.Add(1)
					log.Warn("notification delivery failed", logx.String("user", userID), logx.Err(err))
					continue
				}
				sent.Add(1)
			}
		}()
	}

	for _, userID := range b.Recipients {
		select {
		case <-ctx.Done():
			// Stop feeding; in-flight sends finish below.
			goto done
		case jobs <- userID:
		}
	}
done:
	close(jobs)
	wg.Wait()

	res := Result{Sent: int(sent.Load()), Failed: int(failed.Load())}
	log.Debug("notification batch finished",
		logx.Int("recipients", len(b.Recipients)),
		logx.Int("sent", res.Sent),
		logx.Int("failed", res.Failed),
	)
	return res
}

func (s *Service) sendOne(ctx context.Context, cfg Config, lim *rate.Limiter, guildID, userID string, msg transport.Message) error {
	if lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return err
		}
	}
	if s.roster != nil && !s.roster.IsMember(guildID, userID) {
		return errNotMember
	}
	sctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	return s.messenger.SendDirectMessage(sctx, userID, msg)
}

// translationButtons stores the render data under a short-lived token and
// returns one button per other supported language. The component handler
// re-renders from the token on demand.
func (s *Service) translationButtons(b Batch) []transport.Button {
	if s.tokens == nil {
		return nil
	}
	tok, err := s.tokens.PutJSON(buttonPayload{
		Kind: b.Kind,
		Data: i18n.Data{
			Match:       b.Match,
			MatchID:     b.MatchID,
			GuildName:   b.GuildName,
			CancelledBy: b.CancelledBy,
		},
	})
	if err != nil {
		return nil
	}

	var out []transport.Button
	for _, lang := range i18n.Languages {
		if lang == b.Language {
			continue
		}
		out = append(out, transport.Button{
			ID:    dgui.TranslateID(lang, tok),
			Label: i18n.LanguageName(lang),
			Emoji: i18n.LanguageFlag(lang),
		})
	}
	return out
}

// buttonPayload is what a translation button resolves back into.
type buttonPayload struct {
	Kind i18n.Kind `json:"kind"`
	Data i18n.Data `json:"data"`
}
