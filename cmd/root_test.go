// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/dailytasks/internal/config"
	"github.com/nibzard/dailytasks/internal/logging"
	"github.com/nibzard/dailytasks/internal/tasklist"
)

type testEnv struct {
	t       *testing.T
	dir     string
	logDir  string
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	stdinIn *strings.Reader
}

// newTestEnv isolates config lookup, moves into a fresh directory and
// captures the standard streams.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{config.EnvTasksFile, config.EnvLogDir, config.EnvLogLevel, config.EnvLogFormat, config.EnvLogTimestamps, config.EnvLogCaller, config.EnvListHeight} {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	chdirForTest(t, dir)

	env := &testEnv{
		t:       t,
		dir:     dir,
		logDir:  filepath.Join(home, "logs"),
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		stdinIn: strings.NewReader(""),
	}

	oldIn, oldOut, oldErr := stdin, stdout, stderr
	stdout, stderr = env.stdout, env.stderr
	stdin = env.stdinIn
	t.Cleanup(func() {
		stdin, stdout, stderr = oldIn, oldOut, oldErr
	})
	return env
}

func (e *testEnv) run(args ...string) error {
	e.t.Helper()
	e.stdout.Reset()
	e.stderr.Reset()
	full := append([]string{"--log-dir", e.logDir}, args...)
	return Run(context.Background(), full)
}

func (e *testEnv) input(s string) {
	e.stdinIn.Reset(s)
}

func (e *testEnv) tasksFile() string {
	e.t.Helper()
	data, err := os.ReadFile(filepath.Join(e.dir, "tasks.txt"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ""
		}
		e.t.Fatal(err)
	}
	return string(data)
}

func TestRun(t *testing.T) {
	t.Run("shows help with --help flag", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("--help"); err != nil {
			t.Fatalf("expected no error with --help, got %v", err)
		}
		if !strings.Contains(env.stdout.String(), "Usage:") {
			t.Errorf("help output missing usage: %s", env.stdout.String())
		}
	})

	t.Run("shows help with -h flag", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("-h"); err != nil {
			t.Errorf("expected no error with -h, got %v", err)
		}
	})

	t.Run("shows version with --version flag", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("--version"); err != nil {
			t.Fatalf("expected no error with --version, got %v", err)
		}
		if !strings.Contains(env.stdout.String(), "dailytasks version "+Version) {
			t.Errorf("version output = %q", env.stdout.String())
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("help"); err != nil {
			t.Errorf("expected no error with help command, got %v", err)
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.run("unknown-command")
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("invalid config is reported", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.run("--log-level", "loud", "ls")
		if err == nil || !strings.Contains(err.Error(), "loading config") {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("tui without a terminal fails", func(t *testing.T) {
		env := newTestEnv(t)
		// go test does not attach stdout to a terminal.
		err := env.run()
		if err == nil || !strings.Contains(err.Error(), "TTY") {
			t.Errorf("expected TTY error, got %v", err)
		}
	})
}

func TestLsEmpty(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("ls"); err != nil {
		t.Fatalf("ls: %v", err)
	}
	if got := env.stdout.String(); got != "No tasks.\n" {
		t.Errorf("ls output = %q", got)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "tasks.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Error("ls should not create the task file")
	}
}

func TestAddAndList(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("add", "Buy", "milk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Added task 1: Buy milk") {
		t.Errorf("add output = %q", env.stdout.String())
	}
	if err := env.run("add", "Walk dog"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := env.tasksFile(); got != "Buy milk\nWalk dog\n" {
		t.Errorf("file = %q", got)
	}

	if err := env.run("ls"); err != nil {
		t.Fatalf("ls: %v", err)
	}
	if got := env.stdout.String(); got != "1. Buy milk\n2. Walk dog\n" {
		t.Errorf("ls output = %q", got)
	}
}

func TestAddTrimsTrailingWhitespace(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("add", "Buy milk  "); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := env.stdout.String(); got != "Added task 1: Buy milk\n" {
		t.Errorf("add output = %q", got)
	}
	if err := env.run("add", "   "); !errors.Is(err, tasklist.ErrEmptyTask) {
		t.Errorf("whitespace-only add: got %v, want ErrEmptyTask", err)
	}
	if got := env.tasksFile(); got != "Buy milk\n" {
		t.Errorf("file = %q", got)
	}
}

func TestAddEmptyIsRejected(t *testing.T) {
	env := newTestEnv(t)
	err := env.run("add")
	if !errors.Is(err, tasklist.ErrEmptyTask) {
		t.Fatalf("expected ErrEmptyTask, got %v", err)
	}
	if err.Error() != tasklist.MsgEnterTask {
		t.Errorf("message = %q", err.Error())
	}
	if got := env.tasksFile(); got != "" {
		t.Errorf("file = %q", got)
	}
}

func TestRm(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile("tasks.txt", []byte("a\nb\nc\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := env.run("rm", "2"); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Deleted task 2: b") {
		t.Errorf("rm output = %q", env.stdout.String())
	}
	if got := env.tasksFile(); got != "a\nc\n" {
		t.Errorf("file = %q", got)
	}

	for _, arg := range []string{"0", "3", "-1"} {
		err := env.run("rm", "--", arg)
		if !errors.Is(err, tasklist.ErrNoSelection) {
			t.Errorf("rm %s: expected ErrNoSelection, got %v", arg, err)
		}
	}
	if err := env.run("rm", "two"); err == nil || !strings.Contains(err.Error(), "invalid task number") {
		t.Errorf("rm two: got %v", err)
	}
	if err := env.run("rm"); err == nil {
		t.Error("rm without argument should fail")
	}
	if got := env.tasksFile(); got != "a\nc\n" {
		t.Errorf("failed removals changed the file: %q", got)
	}
}

func TestClear(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		input   string
		want    string
		wantOut string
	}{
		{"confirmed", []string{"clear"}, "y\n", "", "Deleted 2 tasks."},
		{"confirmed long", []string{"clear"}, "YES\n", "", "Deleted 2 tasks."},
		{"declined", []string{"clear"}, "n\n", "a\nb\n", "Nothing deleted."},
		{"default no", []string{"clear"}, "\n", "a\nb\n", "Nothing deleted."},
		{"no input", []string{"clear"}, "", "a\nb\n", "Nothing deleted."},
		{"yes flag", []string{"clear", "--yes"}, "", "", "Deleted 2 tasks."},
		{"short yes flag", []string{"clear", "-y"}, "", "", "Deleted 2 tasks."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if err := os.WriteFile("tasks.txt", []byte("a\nb\n"), 0644); err != nil {
				t.Fatal(err)
			}
			env.input(tt.input)

			if err := env.run(tt.args...); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if got := env.tasksFile(); got != tt.want {
				t.Errorf("file = %q, want %q", got, tt.want)
			}
			if !strings.Contains(env.stdout.String(), tt.wantOut) {
				t.Errorf("output = %q, want %q", env.stdout.String(), tt.wantOut)
			}
			if len(tt.args) == 1 && !strings.Contains(env.stdout.String(), tasklist.MsgConfirmClear+" [y/N]") {
				t.Errorf("prompt missing from output %q", env.stdout.String())
			}
		})
	}
}

func TestExportImport(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile("tasks.txt", []byte("Buy milk\nWalk dog\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"backup.json", "backup.yaml"} {
		t.Run(name, func(t *testing.T) {
			if err := env.run("export", "--output", name); err != nil {
				t.Fatalf("export: %v", err)
			}
			if _, err := os.Stat(filepath.Join(env.dir, name)); err != nil {
				t.Fatalf("export file missing: %v", err)
			}

			target := filepath.Join(t.TempDir(), "other.txt")
			if err := env.run("--file", target, "import", name); err != nil {
				t.Fatalf("import: %v", err)
			}
			if !strings.Contains(env.stdout.String(), "Imported 2 tasks.") {
				t.Errorf("import output = %q", env.stdout.String())
			}
			data, err := os.ReadFile(target)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != "Buy milk\nWalk dog\n" {
				t.Errorf("imported file = %q", data)
			}
		})
	}
}

func TestExportToStdout(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile("tasks.txt", []byte("a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := env.run("export", "--format", "yaml"); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := env.stdout.String()
	if !strings.Contains(out, "schema_version: 1") || !strings.Contains(out, "- a") {
		t.Errorf("yaml export = %q", out)
	}
	if err := env.run("export", "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestImportAppendsAndValidates(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile("tasks.txt", []byte("existing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	env.input(`{"schema_version": 1, "tasks": ["new"]}`)
	if err := env.run("import", "--format", "json", "-"); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := env.tasksFile(); got != "existing\nnew\n" {
		t.Errorf("file = %q", got)
	}

	if err := os.WriteFile("bad.json", []byte(`{"schema_version": 1, "tasks": [""]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := env.run("import", "bad.json"); err == nil || !strings.Contains(err.Error(), "tasks[0]") {
		t.Errorf("expected schema error, got %v", err)
	}
	if err := env.run("import"); err == nil {
		t.Error("import without a path should fail")
	}
	if got := env.tasksFile(); got != "existing\nnew\n" {
		t.Errorf("failed imports changed the file: %q", got)
	}
}

func TestLogs(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("logs"); err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "No log files found.") {
		t.Errorf("logs output = %q", env.stdout.String())
	}

	if err := env.run("--log-format", "json", "add", "Buy milk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := env.run("logs"); err != nil {
		t.Fatalf("logs: %v", err)
	}
	out := env.stdout.String()
	if !strings.Contains(out, `"msg":"task added"`) || !strings.Contains(out, `"cmd":"add"`) {
		t.Errorf("log should record the add, got %q", out)
	}

	if err := env.run("logs", "--list"); err != nil {
		t.Fatalf("logs --list: %v", err)
	}
	if strings.Count(env.stdout.String(), "bytes") != 1 {
		t.Errorf("expected one run log, got %q", env.stdout.String())
	}

	logDir, err := logging.FindLogDir(env.logDir, env.dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(logDir); err != nil {
		t.Errorf("log dir %s missing: %v", logDir, err)
	}
}

func TestConfigCommand(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv(config.EnvLogLevel, "debug")

	if err := env.run("--list-height", "5", "config"); err != nil {
		t.Fatalf("config: %v", err)
	}
	out := env.stdout.String()
	for _, want := range []string{"log_level", "(environment)", "list_height", "(flag)", "tasks_file", "(default)"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}

	if err := env.run("config", "--example"); err != nil {
		t.Fatalf("config --example: %v", err)
	}
	if env.stdout.String() != config.ExampleConfig() {
		t.Error("config --example does not match ExampleConfig")
	}
}

func TestFileFlagAndEnv(t *testing.T) {
	env := newTestEnv(t)
	envPath := filepath.Join(t.TempDir(), "env.txt")
	t.Setenv(config.EnvTasksFile, envPath)

	if err := env.run("add", "from env"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if data, err := os.ReadFile(envPath); err != nil || string(data) != "from env\n" {
		t.Errorf("env file = %q, %v", data, err)
	}

	flagPath := filepath.Join(t.TempDir(), "flag.txt")
	if err := env.run("--file", flagPath, "add", "from flag"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if data, err := os.ReadFile(flagPath); err != nil || string(data) != "from flag\n" {
		t.Errorf("flag file = %q, %v", data, err)
	}
}

func TestPromptConfirmer(t *testing.T) {
	var out bytes.Buffer
	c := promptConfirmer(strings.NewReader("maybe\ny\n"), &out)
	if c.Confirm("Sure?") {
		t.Error("maybe should decline")
	}
	if !c.Confirm("Sure?") {
		t.Error("y should confirm")
	}
	if c.Confirm("Sure?") {
		t.Error("end of input should decline")
	}
	if strings.Count(out.String(), "Sure? [y/N] ") != 3 {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestPrintTaskList(t *testing.T) {
	var buf bytes.Buffer
	tasks := make([]string, 10)
	for i := range tasks {
		tasks[i] = "t"
	}
	printTaskList(&buf, tasks)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if lines[0] != " 1. t" || lines[9] != "10. t" {
		t.Errorf("numbers should be right-aligned: %q", lines)
	}
}

// chdirForTest changes the working directory for the duration of the test
// and restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})
}
