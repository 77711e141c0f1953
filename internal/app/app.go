package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"shotarc/internal/config"
	"shotarc/internal/extractor"
	"shotarc/internal/history"
	"shotarc/internal/issue"
	"shotarc/internal/maintenance"
	"shotarc/internal/post"
	"shotarc/internal/scheduler"
	"shotarc/internal/storage"
	"shotarc/internal/transport"
	"shotarc/internal/transport/telegram"
	"shotarc/pkg/logx"
)

// App wires storage, the extractor, the posting scheduler and the outgoing
// publishers together and drives the periodic posting pass.
type App struct {
	cfgPath string
	cfgm    *config.Manager

	log  logx.Logger
	logs *logx.Service

	store      *storage.Store
	ex         *extractor.Extractor
	sched      *scheduler.Scheduler
	publishers []transport.Publisher
	editing    *issue.Editing

	tz   *time.Location
	cron *cron.Cron

	cancel context.CancelFunc
	done   chan struct{}
}

func NewApp(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(mapLoggingConfig(cfg))
	log = log.With(logx.String("comp", "app"))

	busy, err := config.ParseDurationOrDefault("storage.busy_timeout", cfg.Storage.BusyTimeout, 5*time.Second)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(storage.Config{
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}

	ex := extractor.New(extractor.Args{
		Managers: []extractor.PostsManager{
			store.Posts(storage.CollectionPublished),
			store.Posts(storage.CollectionInbox),
			store.Posts(storage.CollectionTrash),
		},
		Locations: store.Locations(),
		Users:     store.Users(),
		Log:       log.With(logx.String("comp", "extractor")),
	})

	sched := scheduler.New(scheduler.DefaultScenarios(), log.With(logx.String("comp", "scheduler")))

	var publishers []transport.Publisher
	if cfg.Telegram != nil && cfg.Telegram.Enabled {
		pollTimeout, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
		if err != nil {
			return nil, err
		}
		pub, err := telegram.New(telegram.Config{
			Token:       cfg.Telegram.Token,
			ChatID:      cfg.Telegram.ChatID,
			PollTimeout: pollTimeout,
			RatePerMin:  cfg.Telegram.RatePerMin,
		}, log.With(logx.String("comp", "telegram")))
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, pub)
	}

	tz := time.Local
	if s := strings.TrimSpace(cfg.Posting.Timezone); s != "" {
		loc, err := time.LoadLocation(s)
		if err != nil {
			return nil, fmt.Errorf("posting.timezone: %w", err)
		}
		tz = loc
	}

	editing := issue.NewEditing(ex, store.Users(), store.Locations(),
		log.With(logx.String("comp", "issue")))

	return &App{
		cfgPath:    cfgPath,
		cfgm:       cfgm,
		log:        log,
		logs:       logSvc,
		store:      store,
		ex:         ex,
		sched:      sched,
		publishers: publishers,
		editing:    editing,
		tz:         tz,
		done:       make(chan struct{}),
	}, nil
}

// Extractor exposes read access for anything built on top of the app.
func (a *App) Extractor() *extractor.Extractor { return a.ex }

// Editing returns the issue-driven post editing resolver.
func (a *App) Editing() *issue.Editing { return a.editing }

// EditingURL builds a prefilled GitHub issue URL for editing the given post.
func (a *App) EditingURL(id string, p *post.Post) string {
	return issue.EditingIssueURL(a.cfgm.Get().Github.Repo, id, p)
}

// SubmitPost stores a new post proposal in the inbox under a fresh id.
func (a *App) SubmitPost(ctx context.Context, p *post.Post) (string, error) {
	if p == nil {
		return "", fmt.Errorf("submit: nil post")
	}
	id := uuid.NewString()
	inbox := a.store.Posts(storage.CollectionInbox)
	if err := inbox.AddEntry(ctx, post.Entry{ID: id, Post: p}); err != nil {
		return "", err
	}
	a.ex.ClearCache()
	a.log.Info("post submitted", logx.String("id", id))
	return id, nil
}

func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		return validateConfig(cfg)
	})

	updates := a.cfgm.Subscribe(1)
	go func() {
		if err := a.cfgm.Watch(runCtx); err != nil {
			a.log.Warn("config watch stopped", logx.Err(err))
		}
	}()
	go func() {
		defer close(a.done)
		for {
			select {
			case <-runCtx.Done():
				return
			case cfg, ok := <-updates:
				if !ok {
					return
				}
				a.logs.Apply(mapLoggingConfig(cfg))
			}
		}
	}()

	cfg := a.cfgm.Get()
	if cfg.Posting.Enabled {
		schedule := cfg.Posting.Schedule
		if strings.TrimSpace(schedule) == "" {
			schedule = "@hourly"
		}
		c := cron.New(cron.WithLocation(a.tz))
		if _, err := c.AddFunc(schedule, func() { a.RunPostingPass(runCtx) }); err != nil {
			cancel()
			return fmt.Errorf("posting.schedule: %w", err)
		}
		c.Start()
		a.cron = c
		a.log.Info("posting enabled",
			logx.String("schedule", schedule),
			logx.String("timezone", a.tz.String()))
	} else {
		a.log.Info("posting disabled")
	}

	return nil
}

func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
		if a.cron != nil {
			stopped := a.cron.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
		}
		select {
		case <-a.done:
		case <-ctx.Done():
		}
	}
	err := a.store.Close()
	_ = a.logs.Close()
	return err
}

// RunPostingPass performs one scheduling round: maintenance, scenario
// evaluation against the publish history and, if a scenario fires,
// publication of one inbox entry.
func (a *App) RunPostingPass(ctx context.Context) {
	a.runPostingPass(ctx, time.Now().In(a.tz))
}

func (a *App) runPostingPass(ctx context.Context, now time.Time) {
	log := a.log.With(logx.String("comp", "posting"))

	published := a.store.Posts(storage.CollectionPublished)
	inbox := a.store.Posts(storage.CollectionInbox)
	trash := a.store.Posts(storage.CollectionTrash)

	if a.cfgm.Get().Posting.Maintenance {
		if err := maintenance.ExchangeInboxAndTrash(ctx, inbox, trash, a.store, log); err != nil {
			log.Warn("maintenance failed", logx.Err(err))
		}
		// Maintenance moves entries between collections; memoized views
		// populated before it ran are stale.
		a.ex.ClearCache()
	}

	entries, err := published.ReadPublishedEntriesDesc(ctx)
	if err != nil {
		log.Error("read publish history", logx.Err(err))
		return
	}
	h, err := history.New(entries)
	if err != nil {
		log.Error("publish history is inconsistent", logx.Err(err))
		return
	}

	pool, err := a.ex.CandidatePool(ctx, storage.CollectionInbox)
	if err != nil {
		log.Error("read candidate pool", logx.Err(err))
		return
	}

	result, ok := a.sched.Evaluate(h, pool, now)
	if !ok {
		log.Debug("no scenario active", logx.Time("now", now))
		return
	}
	if len(result.Eligible) == 0 {
		log.Info("scenario matched with no eligible candidates",
			logx.String("scenario", result.Scenario))
		return
	}

	entry := result.Eligible[0]
	if len(a.publishers) == 0 {
		// Archive-only deployments run maintenance and scheduling but
		// never move a post out of the inbox.
		log.Info("no publishers configured, keeping candidate",
			logx.String("scenario", result.Scenario),
			logx.String("id", entry.ID))
		return
	}
	if err := a.publish(ctx, entry, now); err != nil {
		log.Error("publish failed", logx.String("id", entry.ID), logx.Err(err))
		return
	}
	log.Info("post published",
		logx.String("scenario", result.Scenario),
		logx.String("id", entry.ID))
}

func (a *App) publish(ctx context.Context, entry post.Entry, now time.Time) error {
	for _, pub := range a.publishers {
		ref, err := pub.Publish(ctx, entry)
		if err != nil {
			return fmt.Errorf("%s: %w", pub.Name(), err)
		}
		a.log.Debug("published",
			logx.String("publisher", pub.Name()),
			logx.String("url", ref.URL))
	}

	entry.Post.PublishedAt = now
	inbox := a.store.Posts(storage.CollectionInbox)
	if err := inbox.UpdateEntry(ctx, entry); err != nil {
		return err
	}
	if err := a.store.MoveEntry(ctx, entry.ID, storage.CollectionInbox, storage.CollectionPublished); err != nil {
		return err
	}
	a.ex.ClearCache()
	return nil
}

func mapLoggingConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func validateConfig(cfg *config.Config) error {
	if strings.TrimSpace(cfg.Storage.Path) == "" {
		return fmt.Errorf("storage.path is required")
	}
	if _, err := config.ParseDurationOrDefault("storage.busy_timeout", cfg.Storage.BusyTimeout, 0); err != nil {
		return err
	}
	if cfg.Posting.Enabled && strings.TrimSpace(cfg.Posting.Schedule) != "" {
		if _, err := cron.ParseStandard(cfg.Posting.Schedule); err != nil {
			return fmt.Errorf("posting.schedule: %w", err)
		}
	}
	if s := strings.TrimSpace(cfg.Posting.Timezone); s != "" {
		if _, err := time.LoadLocation(s); err != nil {
			return fmt.Errorf("posting.timezone: %w", err)
		}
	}
	if cfg.Telegram != nil && cfg.Telegram.Enabled {
		if strings.TrimSpace(cfg.Telegram.Token) == "" {
			return fmt.Errorf("telegram.token is required")
		}
		if cfg.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required")
		}
		if _, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 0); err != nil {
			return err
		}
	}
	return nil
}
