// Package web runs the keep-alive HTTP endpoint that uptime pollers hit
// to keep the bot's host awake.
package web

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	logx "lordsbot/pkg/logx"
)

type Config struct {
	Enabled bool
	Addr    string // listen address, default ":8080"
}

type Server struct {
	cfg Config
	log logx.Logger
	app *fiber.App

	started time.Time
}

func New(cfg Config, log logx.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
	})

	s := &Server{cfg: cfg, log: log, app: app, started: time.Now()}

	app.Get("/", s.handleStatus)
	app.Get("/healthz", s.handleStatus)

	return s
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// Start listens in a background goroutine. Listen errors after startup
// are logged, not fatal: losing the keep-alive endpoint must not take
// the bot down.
func (s *Server) Start() {
	if !s.cfg.Enabled {
		return
	}
	go func() {
		s.log.Info("keep-alive server listening", logx.String("addr", s.cfg.Addr))
		if err := s.app.Listen(s.cfg.Addr); err != nil {
			s.log.Error("keep-alive server stopped", logx.Err(err))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}
	dl := 3 * time.Second
	if d, ok := ctx.Deadline(); ok {
		if rem := time.Until(d); rem > 0 && rem < dl {
			dl = rem
		}
	}
	return s.app.ShutdownWithTimeout(dl)
}
