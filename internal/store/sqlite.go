package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"schedguard/internal/validation"
	logx "schedguard/pkg/logx"

	_ "modernc.org/sqlite"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &sqliteStore{db: db, log: log}

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug("sqlite store ready", logx.String("path", path))
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) PutUser(ctx context.Context, u User) error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users(id, wake_time, sleep_time, time_zone) VALUES(?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET wake_time=excluded.wake_time, sleep_time=excluded.sleep_time, time_zone=excluded.time_zone`,
		u.ID, u.WakeTime, u.SleepTime, u.TimeZone,
	)
	return err
}

func (s *sqliteStore) PutTask(ctx context.Context, t Task) error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("task id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks(id, user_id, title) VALUES(?,?,?)
		 ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id, title=excluded.title`,
		t.ID, t.UserID, t.Title,
	)
	return err
}

func (s *sqliteStore) PutHabit(ctx context.Context, h Habit) error {
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("habit id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO habits(id, user_id, title, frequency, weekdays) VALUES(?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id, title=excluded.title,
		   frequency=excluded.frequency, weekdays=excluded.weekdays`,
		h.ID, h.UserID, h.Title, string(h.Frequency), encodeWeekdays(h.Weekdays),
	)
	return err
}

func (s *sqliteStore) PutEvent(ctx context.Context, e Event) error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("event id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calendar_events(user_id, id, summary, start_ms, end_ms, movable) VALUES(?,?,?,?,?,?)
		 ON CONFLICT(user_id, id) DO UPDATE SET summary=excluded.summary, start_ms=excluded.start_ms,
		   end_ms=excluded.end_ms, movable=excluded.movable`,
		e.UserID, e.ID, e.Summary, e.Start.UnixMilli(), e.End.UnixMilli(), boolInt(e.Movable),
	)
	return err
}

func (s *sqliteStore) UserConstraints(ctx context.Context, userID string) (validation.UserConstraints, error) {
	var uc validation.UserConstraints
	err := s.db.QueryRowContext(ctx,
		`SELECT wake_time, sleep_time, time_zone FROM users WHERE id = ?`, userID,
	).Scan(&uc.WakeTime, &uc.SleepTime, &uc.TimeZone)
	if errors.Is(err, sql.ErrNoRows) {
		return validation.UserConstraints{}, ErrUserNotFound
	}
	if err != nil {
		return validation.UserConstraints{}, err
	}
	return uc, nil
}

// ExistingTaskIDs resolves the whole id set in one query.
func (s *sqliteStore) ExistingTaskIDs(ctx context.Context, userID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT id FROM tasks WHERE user_id = ? AND id IN (` + placeholders(len(ids)) + `) ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, append([]any{userID}, anySlice(ids)...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Habits resolves the whole id set in one query.
func (s *sqliteStore) Habits(ctx context.Context, userID string, ids []string) ([]validation.HabitDefinition, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT id, title, frequency, weekdays FROM habits WHERE user_id = ? AND id IN (` + placeholders(len(ids)) + `) ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, append([]any{userID}, anySlice(ids)...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]validation.HabitDefinition, 0, len(ids))
	for rows.Next() {
		var (
			h        validation.HabitDefinition
			freq     string
			weekdays string
		)
		if err := rows.Scan(&h.ID, &h.Title, &freq, &weekdays); err != nil {
			return nil, err
		}
		h.Frequency = validation.Frequency(freq)
		if h.Weekdays, err = decodeWeekdays(weekdays); err != nil {
			return nil, fmt.Errorf("habit %s: %w", h.ID, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Events(ctx context.Context, userID string, from, to time.Time) ([]validation.ExternalEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, summary, start_ms, end_ms, movable FROM calendar_events
		 WHERE user_id = ? AND start_ms < ? AND end_ms > ?
		 ORDER BY start_ms, id`,
		userID, to.UnixMilli(), from.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []validation.ExternalEvent
	for rows.Next() {
		var (
			ev             validation.ExternalEvent
			startMS, endMS int64
			movable        int
		)
		if err := rows.Scan(&ev.ID, &ev.Summary, &startMS, &endMS, &movable); err != nil {
			return nil, err
		}
		ev.Start = time.UnixMilli(startMS).UTC()
		ev.End = time.UnixMilli(endMS).UTC()
		ev.Movable = movable != 0
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *sqliteStore) AppendAudit(ctx context.Context, e AuditEntry) error {
	if s == nil || s.db == nil {
		return ErrDisabled
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit(id, at, user_id, source, valid, errors, warnings, conflict_check)
		 VALUES(?,?,?,?,?,?,?,?)`,
		e.ID, e.At.UTC().Format(time.RFC3339Nano), e.UserID, nullStr(e.Source),
		boolInt(e.Valid), e.Errors, e.Warnings, e.ConflictCheck,
	)
	return err
}

// RecentAudit returns up to limit entries, newest first.
func (s *sqliteStore) RecentAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, user_id, COALESCE(source, ''), valid, errors, warnings, conflict_check
		 FROM audit ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var (
			e     AuditEntry
			at    string
			valid int
		)
		if err := rows.Scan(&e.ID, &at, &e.UserID, &e.Source, &valid, &e.Errors, &e.Warnings, &e.ConflictCheck); err != nil {
			return nil, err
		}
		e.Valid = valid != 0
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("audit %s: bad timestamp: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullStr(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}
