package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"schedguard/internal/calendar"
	"schedguard/internal/config"
	"schedguard/internal/inbox"
	"schedguard/internal/runtime/supervisor"
	"schedguard/internal/store"
	"schedguard/internal/validation"
	logx "schedguard/pkg/logx"
)

// ErrNoInbox is returned by Watch when the config has no inbox section.
var ErrNoInbox = errors.New("inbox is not configured")

// App wires config, logging, storage and the validation engine.
type App struct {
	cfgm *config.Manager

	log  logx.Logger
	logs *logx.Service

	store  store.Store
	engine *validation.Engine
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return build(cfgm, cfg)
}

func build(cfgm *config.Manager, cfg *config.Config) (*App, error) {
	logs, log := logx.New(mapLogging(cfg))
	log = log.With(logx.String("comp", "app"))

	sc, err := mapStorage(cfg)
	if err != nil {
		_ = logs.Close()
		return nil, err
	}
	st, err := store.Open(sc, log.With(logx.String("comp", "store")))
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", logx.String("driver", sc.Driver))

	lc, err := mapCalendar(cfg)
	if err != nil {
		_ = st.Close()
		_ = logs.Close()
		return nil, err
	}
	eng := validation.New(validation.Deps{
		Store:      st,
		Calendar:   calendar.NewLimited(st, lc),
		Classifier: calendar.NewKeywordClassifier(cfg.Calendar.MovableKeywords),
		Log:        log,
	})

	return &App{cfgm: cfgm, log: log, logs: logs, store: st, engine: eng}, nil
}

func (a *App) Logger() logx.Logger          { return a.log }
func (a *App) Store() store.Store           { return a.store }
func (a *App) Engine() *validation.Engine   { return a.engine }
func (a *App) Config() *config.Config       { return a.cfgm.Get() }
func (a *App) Defaults() validation.Options { return mapOptions(a.cfgm.Get()) }

// ValidateBatch runs the engine for one decoded batch and appends an audit entry.
// Options in the batch win over configured defaults.
func (a *App) ValidateBatch(ctx context.Context, source, userID string, blocks []validation.Block, opt *validation.Options) (string, validation.Result, error) {
	o := a.Defaults()
	if opt != nil {
		o = *opt
	}
	res, err := a.engine.Validate(ctx, userID, blocks, o)
	if err != nil {
		return "", validation.Result{}, err
	}
	runID := uuid.NewString()
	err = a.store.AppendAudit(ctx, store.AuditEntry{
		ID:            runID,
		At:            time.Now().UTC(),
		UserID:        userID,
		Source:        source,
		Valid:         res.Valid,
		Errors:        len(res.Errors),
		Warnings:      len(res.Warnings),
		ConflictCheck: string(res.ConflictCheck.Status),
	})
	if err != nil {
		a.log.Warn("audit append failed", logx.String("run_id", runID), logx.Err(err))
	}
	return runID, res, nil
}

// Watch runs the inbox with config hot reload until ctx is done. ready is
// called once the inbox is running.
func (a *App) Watch(ctx context.Context, ready func()) error {
	icfg, ok := mapInbox(a.cfgm.Get())
	if !ok {
		return ErrNoInbox
	}
	ib, err := inbox.New(icfg, inbox.Deps{
		Engine: a.engine,
		Audit:  a.store,
		Log:    a.log,
	})
	if err != nil {
		return err
	}
	ib.SetDefaults(a.Defaults())

	sup := supervisor.New(ctx,
		supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))),
		supervisor.WithCancelOnError(true),
	)

	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		if _, err := mapStorage(cfg); err != nil {
			return err
		}
		_, err := mapCalendar(cfg)
		return err
	})
	sub := a.cfgm.Subscribe(8)

	sup.Go("config.watch", a.cfgm.Watch)
	sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		a.applyReloads(c, sub, ib)
	})
	sup.Go("inbox", ib.Run)

	if ready != nil {
		ready()
	}
	a.log.Info("watch started", logx.String("config", a.cfgm.Path()), logx.String("inbox", icfg.Dir))

	<-sup.Context().Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = sup.Stop(stopCtx)
	c := sup.Counters()
	a.log.Info("watch stopped", logx.Int64("active", c.Active), logx.Any("started", c.Started), logx.Err(err))
	return err
}

func (a *App) applyReloads(ctx context.Context, sub <-chan *config.Config, ib *inbox.Service) {
	last := a.cfgm.Get()
	for {
		select {
		case <-ctx.Done():
			return
		case next, ok := <-sub:
			if !ok {
				return
			}
			// keep only the newest queued config
		drain:
			for {
				select {
				case newer := <-sub:
					if newer != nil {
						next = newer
					}
				default:
					break drain
				}
			}
			sections, attrs := config.SummarizeChange(last, next)
			last = next
			if len(sections) == 0 {
				a.log.Debug("config reload received, but no effective changes detected")
				continue
			}
			fields := append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)
			a.log.Info("config change summary", fields...)

			a.logs.Apply(mapLogging(next))
			ib.SetDefaults(mapOptions(next))
			for _, s := range sections {
				if s == "storage" || s == "calendar" || s == "inbox" {
					a.log.Warn(s + " config changed; restart required for changes to take effect")
				}
			}
		}
	}
}

func (a *App) Close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.logs != nil {
		errs = append(errs, a.logs.Close())
	}
	return errors.Join(errs...)
}
