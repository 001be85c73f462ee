package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDecodeFormats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{
			name: "json",
			file: "c.json",
			body: `{"logging":{"level":"debug"},"storage":{"driver":"sqlite","path":"x.db"},"validation":{"allow_overlaps":true}}`,
		},
		{
			name: "yaml",
			file: "c.yaml",
			body: "logging:\n  level: debug\nstorage:\n  driver: sqlite\n  path: x.db\nvalidation:\n  allow_overlaps: true\n",
		},
		{name: "unknown field", file: "c.json", body: `{"telegram":{}}`, wantErr: "unknown field"},
		{name: "unknown yaml field", file: "c.yml", body: "inbox:\n  directory: x\n", wantErr: "unknown field"},
		{name: "trailing data", file: "c.json", body: `{} {}`, wantErr: "trailing data"},
		{name: "sqlite without path", file: "c.json", body: `{"storage":{"driver":"sqlite"}}`, wantErr: "storage.path"},
		{name: "unknown driver", file: "c.json", body: `{"storage":{"driver":"postgres"}}`, wantErr: "storage.driver"},
		{name: "bad busy timeout", file: "c.json", body: `{"storage":{"driver":"memory","busy_timeout":"1 sec"}}`, wantErr: "storage.busy_timeout"},
		{name: "negative timeout", file: "c.json", body: `{"calendar":{"timeout":"-1s"}}`, wantErr: "calendar.timeout"},
		{name: "negative rate", file: "c.json", body: `{"calendar":{"rate_per_sec":-1}}`, wantErr: "rate_per_sec"},
		{name: "inbox without dir", file: "c.json", body: `{"inbox":{"rescan":"@every 1m"}}`, wantErr: "inbox.dir"},
		{name: "inbox bad zone", file: "c.json", body: `{"inbox":{"dir":"x","timezone":"Nowhere/City"}}`, wantErr: "inbox.timezone"},
		{name: "storage driver none", file: "c.json", body: `{"storage":{"driver":"none"}}`, wantErr: "storage.driver is required"},
		{name: "storage driver empty", file: "c.yaml", body: "storage:\n  path: x.db\n", wantErr: "storage.driver is required"},
		{name: "inbox out dir equals dir", file: "c.json", body: `{"inbox":{"dir":"spool","out_dir":"spool/"}}`, wantErr: "inbox.out_dir"},
		{name: "inbox bad rescan", file: "c.json", body: `{"inbox":{"dir":"spool","rescan":"every minute"}}`, wantErr: "inbox.rescan"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Decode(tc.file, []byte(tc.body))
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if cfg.Logging.Level != "debug" || cfg.Storage.Path != "x.db" || !cfg.Validation.AllowOverlaps {
				t.Fatalf("cfg = %+v", cfg)
			}
		})
	}
}

func TestInboxRescanAccepted(t *testing.T) {
	t.Parallel()

	for _, spec := range []string{"@every 30s", "*/5 * * * *", "@hourly"} {
		body := `{"inbox":{"dir":"spool","out_dir":"out","rescan":"` + spec + `"}}`
		if _, err := Decode("c.json", []byte(body)); err != nil {
			t.Fatalf("rescan %q rejected: %v", spec, err)
		}
	}
}

func TestSectionDefaults(t *testing.T) {
	t.Parallel()

	if d, err := (StorageConfig{}).BusyTimeoutOrDefault(); err != nil || d != DefaultBusyTimeout {
		t.Fatalf("busy timeout = %v, %v", d, err)
	}
	if d, err := (CalendarConfig{Timeout: "750ms"}).TimeoutOrDefault(); err != nil || d != 750*time.Millisecond {
		t.Fatalf("calendar timeout = %v, %v", d, err)
	}
	if _, err := (CalendarConfig{Timeout: "soon"}).TimeoutOrDefault(); err == nil || !strings.Contains(err.Error(), "calendar.timeout") {
		t.Fatalf("err = %v", err)
	}
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	if d, err := ParseDurationOrDefault("x", "", 3*time.Second); err != nil || d != 3*time.Second {
		t.Fatalf("default = %v, %v", d, err)
	}
	if d, err := ParseDurationOrDefault("x", " 250ms ", time.Second); err != nil || d != 250*time.Millisecond {
		t.Fatalf("explicit = %v, %v", d, err)
	}
	if _, err := ParseDurationField("x.y", "abc"); err == nil || !strings.Contains(err.Error(), "x.y") {
		t.Fatalf("err = %v", err)
	}
}

func TestSummarizeChange(t *testing.T) {
	t.Parallel()

	oldCfg := &Config{Logging: LoggingConfig{Level: "info"}}
	newCfg := &Config{
		Logging:    LoggingConfig{Level: "debug"},
		Storage:    &StorageConfig{Driver: "memory"},
		Validation: ValidationConfig{StrictHabitValidation: true},
		Inbox:      &InboxConfig{Dir: "spool"},
	}
	sections, attrs := SummarizeChange(oldCfg, newCfg)
	want := []string{"inbox", "logging", "storage", "validation"}
	if !reflect.DeepEqual(sections, want) {
		t.Fatalf("sections = %v, want %v", sections, want)
	}
	if len(attrs) == 0 {
		t.Fatalf("expected attrs")
	}

	if sections, _ := SummarizeChange(newCfg, newCfg); len(sections) != 0 {
		t.Fatalf("identical configs reported %v", sections)
	}
	if sections, _ := SummarizeChange(nil, &Config{}); len(sections) != 0 {
		t.Fatalf("nil vs empty reported %v", sections)
	}
}

func TestManagerLoadAndSubscribe(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"logging":{"level":"info"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Get().Logging.Level != "info" {
		t.Fatalf("Get = %+v", m.Get())
	}

	sub := m.Subscribe(1)
	if err := os.WriteFile(path, []byte(`{"logging":{"level":"debug"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if !m.reload(context.Background()) {
		t.Fatalf("reload should publish a changed config")
	}
	if got := <-sub; got.Logging.Level != "debug" {
		t.Fatalf("published = %+v", got)
	}
	if m.reload(context.Background()) {
		t.Fatalf("unchanged content should not publish")
	}

	m.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed")
	}
}

func TestManagerValidatorRejects(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}
	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatal(err)
	}
	m.SetValidator(func(ctx context.Context, cfg *Config) error {
		if cfg.Validation.AllowOverlaps {
			return context.Canceled
		}
		return nil
	})
	if err := os.WriteFile(path, []byte(`{"validation":{"allow_overlaps":true}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if m.reload(context.Background()) {
		t.Fatalf("rejected config was published")
	}
	if m.Get().Validation.AllowOverlaps {
		t.Fatalf("rejected config was committed")
	}
}

func TestManagerWatchPublishes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatal(err)
	}
	sub := m.Subscribe(4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()

	deadline := time.After(10 * time.Second)
	tick := time.NewTicker(300 * time.Millisecond)
	defer tick.Stop()
	for {
		// rewrite until the watcher has picked it up
		if err := os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		select {
		case got := <-sub:
			if got.Logging.Level != "warn" {
				t.Fatalf("published = %+v", got)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Watch: %v", err)
			}
			return
		case <-deadline:
			t.Fatalf("no reload published")
		case <-tick.C:
		}
	}
}
