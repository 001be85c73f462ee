package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"schedguard/internal/batch"
	"schedguard/internal/store"
	"schedguard/internal/validation"
	logx "schedguard/pkg/logx"
)

const (
	DefaultRescan = "@every 1m"
	settleDelay   = 200 * time.Millisecond
	auditSource   = "inbox"
	resultSuffix  = ".result.json"
)

type Config struct {
	Dir      string
	OutDir   string
	Rescan   string
	Timezone string
}

// Validator is the engine as seen by the spool.
type Validator interface {
	Validate(ctx context.Context, userID string, blocks []validation.Block, opt validation.Options) (validation.Result, error)
}

// Auditor records finished runs. store.Store satisfies it.
type Auditor interface {
	AppendAudit(ctx context.Context, e store.AuditEntry) error
}

type Deps struct {
	Engine Validator
	Audit  Auditor // optional
	Log    logx.Logger
	// NewRunID defaults to uuid.NewString.
	NewRunID func() string
	Now      func() time.Time
}

// Stats summarizes one scan.
type Stats struct {
	Processed int
	Invalid   int
	Failed    int
}

type Service struct {
	cfg      Config
	schedule cron.Schedule
	loc      *time.Location

	engine Validator
	audit  Auditor
	log    logx.Logger
	runID  func() string
	now    func() time.Time

	optMu    sync.RWMutex
	defaults validation.Options

	// scanMu serializes scans triggered by cron and by fsnotify.
	scanMu sync.Mutex
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func New(cfg Config, d Deps) (*Service, error) {
	if d.Engine == nil {
		return nil, errors.New("inbox: engine is required")
	}
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	if cfg.Dir == "" {
		return nil, errors.New("inbox: dir is required")
	}
	if strings.TrimSpace(cfg.OutDir) == "" {
		cfg.OutDir = filepath.Join(cfg.Dir, "results")
	}
	if filepath.Clean(cfg.OutDir) == filepath.Clean(cfg.Dir) {
		return nil, errors.New("inbox: out dir must differ from dir")
	}
	if strings.TrimSpace(cfg.Rescan) == "" {
		cfg.Rescan = DefaultRescan
	}
	sched, err := parser.Parse(cfg.Rescan)
	if err != nil {
		return nil, fmt.Errorf("inbox: rescan %q: %w", cfg.Rescan, err)
	}
	loc := time.UTC
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		if loc, err = time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("inbox: timezone: %w", err)
		}
	}
	if d.Log.IsZero() {
		d.Log = logx.Nop()
	}
	if d.NewRunID == nil {
		d.NewRunID = uuid.NewString
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		cfg:      cfg,
		schedule: sched,
		loc:      loc,
		engine:   d.Engine,
		audit:    d.Audit,
		log:      d.Log.With(logx.String("comp", "inbox")),
		runID:    d.NewRunID,
		now:      d.Now,
	}, nil
}

// SetDefaults replaces the options used for batches that carry none.
func (s *Service) SetDefaults(opt validation.Options) {
	s.optMu.Lock()
	s.defaults = opt
	s.optMu.Unlock()
}

func (s *Service) Defaults() validation.Options {
	s.optMu.RLock()
	defer s.optMu.RUnlock()
	return s.defaults
}

func (s *Service) processedDir() string { return filepath.Join(s.cfg.Dir, "processed") }
func (s *Service) failedDir() string    { return filepath.Join(s.cfg.Dir, "failed") }

func (s *Service) ensureDirs() error {
	for _, d := range []string{s.cfg.Dir, s.cfg.OutDir, s.processedDir(), s.failedDir()} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Scan processes every pending batch in name order.
func (s *Service) Scan(ctx context.Context) (Stats, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	var st Stats
	if err := s.ensureDirs(); err != nil {
		return st, err
	}
	names, err := pending(s.cfg.Dir)
	if err != nil {
		return st, err
	}
	for _, name := range names {
		if ctx.Err() != nil {
			return st, ctx.Err()
		}
		res, err := s.processFile(ctx, filepath.Join(s.cfg.Dir, name))
		switch {
		case err != nil:
			st.Failed++
		case !res.Result.Valid:
			st.Processed++
			st.Invalid++
		default:
			st.Processed++
		}
	}
	if len(names) > 0 {
		s.log.Info("inbox scan finished",
			logx.Int("processed", st.Processed),
			logx.Int("invalid", st.Invalid),
			logx.Int("failed", st.Failed),
		)
	}
	return st, nil
}

func pending(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isBatchName(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// isBatchName matches pending batches. Result documents never count, so a
// result written next to its input is not picked up again.
func isBatchName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".json") &&
		!strings.HasSuffix(lower, resultSuffix) &&
		!strings.HasPrefix(name, ".")
}

// processFile validates one batch, writes its result and moves the input away.
// Decode failures move the input to failed/ and are returned as errors.
func (s *Service) processFile(ctx context.Context, path string) (batch.ResultFile, error) {
	name := filepath.Base(path)
	runID := s.runID()
	log := s.log.With(logx.String("run_id", runID), logx.String("file", name))

	b, err := batch.DecodeFile(path)
	if err != nil {
		log.Warn("batch rejected", logx.Err(err))
		if mvErr := os.Rename(path, filepath.Join(s.failedDir(), name)); mvErr != nil {
			log.Error("move to failed dir", logx.Err(mvErr))
		}
		return batch.ResultFile{}, err
	}

	opt := s.Defaults()
	if b.Options != nil {
		opt = *b.Options
	}
	res, err := s.engine.Validate(ctx, b.UserID, b.Blocks, opt)
	if err != nil {
		// Store outage: leave the file for the next scan.
		log.Error("validation failed", logx.String("user_id", b.UserID), logx.Err(err))
		return batch.ResultFile{}, err
	}

	rf := batch.ResultFile{RunID: runID, UserID: b.UserID, Source: name, Result: res}
	if err := s.writeResult(name, rf); err != nil {
		log.Error("write result", logx.Err(err))
		return batch.ResultFile{}, err
	}
	if err := os.Rename(path, filepath.Join(s.processedDir(), name)); err != nil {
		log.Error("move to processed dir", logx.Err(err))
		return batch.ResultFile{}, err
	}
	s.record(ctx, runID, rf)

	log.Info("batch validated",
		logx.String("user_id", b.UserID),
		logx.Bool("valid", res.Valid),
		logx.Int("errors", len(res.Errors)),
		logx.Int("warnings", len(res.Warnings)),
		logx.String("conflict_check", string(res.ConflictCheck.Status)),
	)
	return rf, nil
}

// writeResult writes through a temp file so readers never see a partial document.
func (s *Service) writeResult(name string, rf batch.ResultFile) error {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	dst := filepath.Join(s.cfg.OutDir, base+resultSuffix)
	tmp, err := os.CreateTemp(s.cfg.OutDir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	if err := batch.WriteResult(tmp, rf); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (s *Service) record(ctx context.Context, runID string, rf batch.ResultFile) {
	if s.audit == nil {
		return
	}
	err := s.audit.AppendAudit(ctx, store.AuditEntry{
		ID:            runID,
		At:            s.now().UTC(),
		UserID:        rf.UserID,
		Source:        auditSource + ":" + rf.Source,
		Valid:         rf.Result.Valid,
		Errors:        len(rf.Result.Errors),
		Warnings:      len(rf.Result.Warnings),
		ConflictCheck: string(rf.Result.ConflictCheck.Status),
	})
	if err != nil {
		s.log.Warn("audit append failed", logx.String("run_id", runID), logx.Err(err))
	}
}

// Run scans once, then rescans on the cron schedule and whenever a batch
// file appears, until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	if err := s.ensureDirs(); err != nil {
		return err
	}

	trigger := make(chan struct{}, 1)
	kick := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	c := cron.New(cron.WithParser(parser), cron.WithLocation(s.loc))
	c.Schedule(s.schedule, cron.FuncJob(kick))
	c.Start()
	defer func() { <-c.Stop().Done() }()
	s.log.Info("inbox started",
		logx.String("dir", s.cfg.Dir),
		logx.String("rescan", s.cfg.Rescan),
		logx.String("tz", s.loc.String()),
	)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("inbox watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(s.cfg.Dir); err != nil {
		return fmt.Errorf("inbox watch %s: %w", s.cfg.Dir, err)
	}

	kick()

	var settle *time.Timer
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
			if _, err := s.Scan(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn("inbox scan failed", logx.Err(err))
			}
		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("inbox watcher closed")
			}
			if !isBatchName(filepath.Base(ev.Name)) || ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			// Writers may still be flushing; wait for the file to settle.
			if settle != nil {
				settle.Stop()
			}
			settle = time.AfterFunc(settleDelay, kick)
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("inbox watcher closed")
			}
			s.log.Warn("inbox watch error", logx.Err(err))
			kick()
		}
	}
}
