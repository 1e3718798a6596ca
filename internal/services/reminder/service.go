package reminder

import (
	"context"
	"sync"
	"time"

	"lordsbot/internal/services/notify"
	"lordsbot/internal/storage"
	"lordsbot/internal/transport"
	logx "lordsbot/pkg/logx"
)

// Window is an inclusive time-to-start band. Bands are wider than a
// single instant because the sweep runs on a fixed period and must not
// miss a threshold that falls between two ticks.
type Window struct {
	Min time.Duration
	Max time.Duration
}

func (w Window) Contains(d time.Duration) bool { return d >= w.Min && d <= w.Max }

type Config struct {
	Enabled  bool
	Schedule string // sweep period; see ParseSchedule

	Remind10    Window
	Remind3     Window
	ExpireAfter time.Duration // removal threshold past start
}

func (c *Config) applyDefaults() {
	if c.Schedule == "" {
		c.Schedule = "1m"
	}
	if c.Remind10 == (Window{}) {
		c.Remind10 = Window{Min: 9 * time.Minute, Max: 11 * time.Minute}
	}
	if c.Remind3 == (Window{}) {
		c.Remind3 = Window{Min: 2 * time.Minute, Max: 4 * time.Minute}
	}
	if c.ExpireAfter <= 0 {
		c.ExpireAfter = time.Hour
	}
}

// Dispatcher is the slice of the notify service the sweep needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, b notify.Batch) notify.Result
}

// Service runs the periodic match sweep. Exactly one instance may own
// the match state; a second concurrent instance would double-send
// reminders.
type Service struct {
	cfg  Config
	spec ParsedSpec
	log  logx.Logger

	store      storage.Store
	dispatcher Dispatcher
	roster     transport.Roster

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func New(cfg Config, store storage.Store, dispatcher Dispatcher, roster transport.Roster, log logx.Logger) (*Service, error) {
	cfg.applyDefaults()
	spec, err := ParseSchedule(cfg.Schedule)
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg:        cfg,
		spec:       spec,
		log:        log,
		store:      store,
		dispatcher: dispatcher,
		roster:     roster,
	}, nil
}

// Start launches the sweep loop. It is a no-op when the service is
// disabled, already running, or has no store to sweep.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || !s.cfg.Enabled || s.store == nil {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.run(ctx, s.stopCh, s.doneCh)
	s.log.Info("reminder sweep started", logx.String("schedule", s.cfg.Schedule))
}

// Stop lets the current tick finish, then stops the loop. It returns
// once the loop has exited or ctx expires.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	done := s.doneCh
	s.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (s *Service) run(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	for {
		next := s.spec.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-stopCh:
			timer.Stop()
			return
		case tick := <-timer.C:
			s.sweepOnce(ctx, tick.UTC())
		}
	}
}
