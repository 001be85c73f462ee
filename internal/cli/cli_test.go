package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"schedguard/internal/batch"
	"schedguard/internal/store"
	"schedguard/internal/validation"
)

const fixtures = `
users:
  - {id: u1, wake_time: "08:00", sleep_time: "23:00", time_zone: America/New_York}
tasks:
  - {id: t1, user_id: u1, title: Write report}
events:
  - {id: ev1, user_id: u1, summary: Team sync, start: 2025-12-24T19:00:00Z, end: 2025-12-24T21:00:00Z}
`

type env struct {
	dir    string
	config string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	cfg := "logging:\n  level: error\nstorage:\n  driver: sqlite\n  path: " + filepath.Join(dir, "sg.db") + "\n"
	e := env{dir: dir, config: filepath.Join(dir, "config.yaml")}
	e.write(t, "config.yaml", cfg)
	e.write(t, "fixtures.yaml", fixtures)
	if _, err := e.run(t, "seed", "--file", filepath.Join(dir, "fixtures.yaml")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return e
}

func (e env) write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(e.dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", e.config))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootHelp(t *testing.T) {
	t.Parallel()

	root := NewRootCmd("")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--help"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, want := range []string{"schedguard", "validate", "watch", "seed", "audit"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("help missing %q:\n%s", want, buf.String())
		}
	}
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	good := e.write(t, "good.json", `{"user_id":"u1","blocks":[
		{"task_id":"t1","start":"2025-12-24T14:00:00Z","end":"2025-12-24T15:00:00Z"}]}`)
	bad := e.write(t, "bad.json", `{"user_id":"u1","blocks":[
		{"task_id":"nope","start":"2025-12-24T14:00:00Z","end":"2025-12-24T15:00:00Z"}]}`)

	out, err := e.run(t, "validate", "--batch", good)
	if err != nil || ExitCode(err) != 0 {
		t.Fatalf("valid batch: err=%v out=%s", err, out)
	}
	if !strings.Contains(out, "valid") || !strings.Contains(out, "checked") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = e.run(t, "validate", "--batch", bad)
	if ExitCode(err) != ExitInvalid {
		t.Fatalf("invalid batch exit = %d (err=%v)", ExitCode(err), err)
	}
	if !strings.Contains(out, string(validation.KindInvalidReference)) || !strings.Contains(out, `Task "nope" does not exist`) {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = e.run(t, "validate", "--batch", bad, "--json")
	if ExitCode(err) != ExitInvalid {
		t.Fatalf("json exit = %d", ExitCode(err))
	}
	var rf batch.ResultFile
	if err := json.Unmarshal([]byte(out), &rf); err != nil {
		t.Fatalf("decode json output: %v\n%s", err, out)
	}
	if rf.RunID == "" || rf.UserID != "u1" || rf.Result.Valid || len(rf.Result.Errors) != 1 {
		t.Fatalf("result = %+v", rf)
	}

	out, err = e.run(t, "audit", "--json", "--limit", "2")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	var entries []store.AuditEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode audit: %v\n%s", err, out)
	}
	if len(entries) != 2 || entries[0].Valid || entries[0].ID != rf.RunID {
		t.Fatalf("audit = %+v", entries)
	}
}

func TestValidateRejectsMalformedBatch(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	p := e.write(t, "bad.json", `{"user_id":"u1","blocks":[{"start":"x","end":"y"}]}`)
	_, err := e.run(t, "validate", "--batch", p)
	if err == nil || ExitCode(err) != 1 {
		t.Fatalf("err = %v code = %d", err, ExitCode(err))
	}
	if _, err := e.run(t, "validate"); err == nil {
		t.Fatalf("missing --batch should fail")
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("x"), 1},
		{&ExitError{Code: ExitInvalid, Err: errors.New("invalid")}, ExitInvalid},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
