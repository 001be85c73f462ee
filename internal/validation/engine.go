package validation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	logx "schedguard/pkg/logx"
)

// ConflictNotRun is reported when validation stopped before conflict detection.
const ConflictNotRun ConflictStatus = "not_run"

// Deps are the engine's collaborators. Calendar and Classifier are
// optional: without a Calendar, conflict detection reports a provider
// failure; without a Classifier every event is treated as fixed.
type Deps struct {
	Store      EntityStore
	Calendar   CalendarSource
	Classifier Classifier
	Log        logx.Logger
}

// Engine is stateless between calls and safe for concurrent use.
type Engine struct {
	store      EntityStore
	calendar   CalendarSource
	classifier Classifier
	log        logx.Logger
}

func New(d Deps) *Engine {
	if d.Classifier == nil {
		d.Classifier = AllFixed
	}
	if d.Log.IsZero() {
		d.Log = logx.Nop()
	}
	return &Engine{
		store:      d.Store,
		calendar:   d.Calendar,
		classifier: d.Classifier,
		log:        d.Log.With(logx.String("component", "validation")),
	}
}

// snapshot holds everything fetched for one call.
type snapshot struct {
	user    UserConstraints
	userErr error

	tasks    map[string]struct{}
	tasksErr error

	habits    map[string]HabitDefinition
	habitsErr error

	events    []ExternalEvent
	eventsErr error
	conflict  ConflictCheck
}

// Validate judges a batch of proposed placements for userID.
//
// Findings never surface as a Go error. An error is returned only when the
// entity store fails for a reason other than a missing user, in which case
// the batch cannot be judged at all.
func (e *Engine) Validate(ctx context.Context, userID string, blocks []Block, opt Options) (Result, error) {
	if e.store == nil {
		return Result{}, errors.New("validation: entity store is required")
	}
	began := time.Now()

	snap := e.fetch(ctx, userID, blocks, opt)

	if snap.userErr != nil {
		if !errors.Is(snap.userErr, ErrUserNotFound) {
			return Result{}, fmt.Errorf("load user constraints: %w", snap.userErr)
		}
		return Result{
			Valid: false,
			Errors: []ValidationError{{
				Kind:       KindUserNotFound,
				Message:    fmt.Sprintf("User %q not found", userID),
				BlockIndex: BatchLevel,
				Severity:   SeverityCritical,
			}},
			Warnings:      []ValidationWarning{},
			ConflictCheck: ConflictCheck{Status: ConflictNotRun},
		}, nil
	}
	if snap.tasksErr != nil {
		return Result{}, fmt.Errorf("resolve task references: %w", snap.tasksErr)
	}
	if snap.habitsErr != nil {
		return Result{}, fmt.Errorf("resolve habit references: %w", snap.habitsErr)
	}

	res := e.evaluate(snap, blocks, opt)

	e.log.Debug("batch validated",
		logx.String("user_id", userID),
		logx.Int("blocks", len(blocks)),
		logx.Bool("valid", res.Valid),
		logx.Int("errors", len(res.Errors)),
		logx.Int("warnings", len(res.Warnings)),
		logx.String("conflict_check", string(res.ConflictCheck.Status)),
		logx.Duration("took", time.Since(began)),
	)
	return res, nil
}

// fetch issues the independent lookups concurrently.
func (e *Engine) fetch(ctx context.Context, userID string, blocks []Block, opt Options) *snapshot {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snap := &snapshot{
		tasks:  map[string]struct{}{},
		habits: map[string]HabitDefinition{},
	}
	taskIDs, habitIDs := referenceSets(blocks)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		snap.user, snap.userErr = e.store.UserConstraints(ctx, userID)
		if snap.userErr != nil {
			// Nothing else can be judged without the user.
			cancel()
		}
	}()

	if len(taskIDs) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids, err := e.store.ExistingTaskIDs(ctx, userID, taskIDs)
			if err != nil {
				snap.tasksErr = err
				return
			}
			for _, id := range ids {
				snap.tasks[id] = struct{}{}
			}
		}()
	}

	if len(habitIDs) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defs, err := e.store.Habits(ctx, userID, habitIDs)
			if err != nil {
				snap.habitsErr = err
				return
			}
			for _, h := range defs {
				snap.habits[h.ID] = h
			}
		}()
	}

	switch from, to, ok := batchSpan(parseSpans(blocks)); {
	case opt.AllowOverlaps:
		snap.conflict = ConflictCheck{Status: ConflictSkippedByOption}
	case !ok:
		snap.conflict = ConflictCheck{Status: ConflictSkippedNoBlocks}
	case e.calendar == nil:
		snap.conflict = ConflictCheck{Status: ConflictSkippedProviderError, Reason: "no calendar source configured"}
	default:
		snap.conflict = ConflictCheck{Status: ConflictChecked}
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap.events, snap.eventsErr = e.calendar.Events(ctx, userID, from, to)
		}()
	}

	wg.Wait()

	if snap.eventsErr != nil {
		// Fail-open: an unavailable calendar must not block scheduling.
		// Conflicts may be missed; the result says so.
		snap.conflict = ConflictCheck{Status: ConflictSkippedProviderError, Reason: snap.eventsErr.Error()}
		snap.events = nil
		if snap.userErr == nil {
			e.log.Warn("calendar fetch failed; conflict detection skipped",
				logx.String("user_id", userID),
				logx.Err(snap.eventsErr),
			)
		}
	}
	return snap
}

// evaluate runs every applicable rule over the snapshot and merges findings.
func (e *Engine) evaluate(snap *snapshot, blocks []Block, opt Options) Result {
	var (
		sanity, refs, bounds, conflicts, habits []ValidationError
		warnings                                []ValidationWarning
		wg                                      sync.WaitGroup
	)
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() { sanity = CheckSanity(blocks) })
	run(func() { refs = CheckReferences(blocks, snap.tasks, snap.habits) })
	run(func() { bounds = CheckBounds(snap.user, blocks) })
	if snap.conflict.Status == ConflictChecked {
		run(func() {
			fixed, _ := e.classifier.Partition(snap.events)
			loc, err := LoadZone(snap.user.TimeZone)
			if err != nil {
				loc = time.UTC
			}
			conflicts = CheckConflicts(blocks, fixed, loc)
		})
	}
	if opt.StrictHabitValidation {
		run(func() { habits = CheckHabitCompleteness(blocks, snap.habits) })
	}
	run(func() { warnings = CheckWarnings(blocks) })
	wg.Wait()

	errs := make([]ValidationError, 0, len(sanity)+len(refs)+len(bounds)+len(conflicts)+len(habits))
	errs = append(errs, habits...)
	errs = append(errs, sanity...)
	errs = append(errs, refs...)
	errs = append(errs, bounds...)
	errs = append(errs, conflicts...)
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].BlockIndex < errs[j].BlockIndex })

	warns := make([]ValidationWarning, 0, len(warnings))
	warns = append(warns, warnings...)
	sort.SliceStable(warns, func(i, j int) bool { return warns[i].BlockIndex < warns[j].BlockIndex })

	return Result{
		Valid:         len(errs) == 0,
		Errors:        errs,
		Warnings:      warns,
		ConflictCheck: snap.conflict,
	}
}
