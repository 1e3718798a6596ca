// Package app assembles the bot from its parts and owns their
// lifecycles: config manager, logging service, storage, gateway
// adapter, notification dispatcher, reminder sweep, command surface,
// and the keep-alive endpoint.
package app

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"

	"lordsbot/internal/bot"
	"lordsbot/internal/config"
	"lordsbot/internal/services/notify"
	"lordsbot/internal/services/reminder"
	"lordsbot/internal/storage"
	discordtp "lordsbot/internal/transport/discord"
	"lordsbot/internal/web"
	"lordsbot/pkg/dgui"
	logx "lordsbot/pkg/logx"
)

type App struct {
	cfgmgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	store   storage.Store
	adapter *discordtp.Adapter
	tokens  *dgui.TokenStore
	notify  *notify.Service
	bot     *bot.Bot
	web     *web.Server

	// remMu guards reminder: the reload loop replaces the service at
	// runtime while Start and Stop use it from other goroutines.
	remMu    sync.Mutex
	reminder *reminder.Service
}

func New(cfgPath string) (*App, error) {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, err
	}

	logSvc, rootLog := logx.New(loggingConfig(cfg))
	mgr.SetLogger(rootLog.With(logx.String("comp", "config")))

	token := strings.TrimSpace(os.Getenv("DISCORD_TOKEN"))
	if token == "" {
		return nil, errors.New("DISCORD_TOKEN is not set")
	}

	adapter, err := discordtp.New(discordtp.Config{
		Token:  token,
		Status: cfg.Discord.Status,
	}, rootLog.With(logx.String("comp", "discord")))
	if err != nil {
		return nil, err
	}

	storeCfg, err := storageConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(storeCfg, rootLog.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}

	tokens := dgui.NewTokenStore()

	notifyCfg, err := notifyConfig(cfg)
	if err != nil {
		return nil, err
	}
	ns := notify.New(notifyCfg, adapter, adapter, tokens,
		rootLog.With(logx.String("comp", "notify")))

	remCfg, err := reminderConfig(cfg)
	if err != nil {
		return nil, err
	}
	rem, err := reminder.New(remCfg, store, ns, adapter,
		rootLog.With(logx.String("comp", "reminder")))
	if err != nil {
		return nil, err
	}

	b := bot.New(bot.Config{CommandGuildID: cfg.Discord.CommandGuildID},
		adapter, store, ns, tokens, rootLog.With(logx.String("comp", "bot")))

	ws := web.New(webConfig(cfg), rootLog.With(logx.String("comp", "web")))

	return &App{
		cfgmgr:   mgr,
		logSvc:   logSvc,
		log:      rootLog.With(logx.String("comp", "app")),
		store:    store,
		adapter:  adapter,
		tokens:   tokens,
		notify:   ns,
		bot:      b,
		web:      ws,
		reminder: rem,
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	if err := a.adapter.Start(ctx); err != nil {
		return err
	}
	if err := a.bot.RegisterCommands(); err != nil {
		return err
	}

	a.remMu.Lock()
	a.reminder.Start(ctx)
	a.remMu.Unlock()
	a.web.Start()

	go func() {
		if err := a.cfgmgr.Watch(ctx); err != nil {
			a.log.Warn("config watcher stopped", logx.Err(err))
		}
	}()
	go a.reloadLoop(ctx)

	a.log.Info("started")
	return nil
}

// reloadLoop applies config file changes at runtime: logging sinks,
// notify knobs, and the reminder sweep (rebuilt, since its schedule is
// parsed at construction).
func (a *App) reloadLoop(ctx context.Context) {
	ch := a.cfgmgr.Subscribe(1)
	defer a.cfgmgr.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-ch:
			if !ok {
				return
			}
			a.applyConfig(ctx, cfg)
		}
	}
}

func (a *App) applyConfig(ctx context.Context, cfg *config.Config) {
	a.logSvc.Apply(loggingConfig(cfg))

	if ncfg, err := notifyConfig(cfg); err == nil {
		a.notify.Apply(ncfg)
	} else {
		a.log.Warn("notify config rejected on reload", logx.Err(err))
	}

	remCfg, err := reminderConfig(cfg)
	if err != nil {
		a.log.Warn("reminder config rejected on reload", logx.Err(err))
		return
	}
	rem, err := reminder.New(remCfg, a.store, a.notify, a.adapter,
		a.log.With(logx.String("comp", "reminder")))
	if err != nil {
		a.log.Warn("reminder config rejected on reload", logx.Err(err))
		return
	}
	a.remMu.Lock()
	a.reminder.Stop(ctx)
	a.reminder = rem
	a.reminder.Start(ctx)
	a.remMu.Unlock()
	a.log.Info("config reloaded")
}

func (a *App) Stop(ctx context.Context) error {
	a.remMu.Lock()
	a.reminder.Stop(ctx)
	a.remMu.Unlock()

	var firstErr error
	if err := a.web.Stop(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.adapter.Stop(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.log.Info("stopped")
	_ = a.logSvc.Close()
	return firstErr
}
