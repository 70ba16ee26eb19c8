// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"girder-cli/internal/config"
)

const testTaskfile = `
[[task]]
name = "hello"
description = "Say hello"
script = "echo hello from girder"

[[task]]
name = "args"
script = 'echo "got $1 and $2"'

[[task]]
name = "flaky"
script = "exit 5"
`

// runGirder runs one invocation against a fresh app writing to a
// buffer. A non-empty taskfile is written to a temp dir and passed via
// --taskfile.
func runGirder(t *testing.T, taskfileContent string, args ...string) (string, error) {
	t.Helper()
	config.SetConfigDirOverride(t.TempDir())
	t.Cleanup(config.Reset)

	if taskfileContent != "" {
		path := filepath.Join(t.TempDir(), "girder.toml")
		if err := os.WriteFile(path, []byte(taskfileContent), 0o644); err != nil {
			t.Fatal(err)
		}
		args = append(args, "--taskfile", path)
	}

	var buf bytes.Buffer
	a := buildApp("test", &buf, false)
	err := a.Run(args)
	if closeErr := a.Close(); err == nil {
		err = closeErr
	}
	return buf.String(), err
}

func TestBareRoot(t *testing.T) {
	out, err := runGirder(t, testTaskfile)
	if err != nil {
		t.Fatalf("bare invocation returned error: %v", err)
	}
	if !strings.Contains(out, "3 task(s)") {
		t.Errorf("overview = %q, want the task count", out)
	}
}

func TestBareRoot_NoTaskfile(t *testing.T) {
	out, err := runGirder(t, "")
	if err != nil {
		t.Fatalf("bare invocation returned error: %v", err)
	}
	if !strings.Contains(strings.ToLower(out), "no task file found") {
		t.Errorf("overview = %q, want the task-file help card", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runGirder(t, "", "version")
	if err != nil {
		t.Fatalf("version returned error: %v", err)
	}
	if !strings.Contains(out, "girder test") {
		t.Errorf("version output = %q", out)
	}
}

func TestTasksList(t *testing.T) {
	out, err := runGirder(t, testTaskfile, "tasks", "list")
	if err != nil {
		t.Fatalf("tasks list returned error: %v", err)
	}
	for _, want := range []string{"hello", "Say hello", "args", "flaky"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing = %q, missing %q", out, want)
		}
	}
}

func TestTasksDefaultIsList(t *testing.T) {
	out, err := runGirder(t, testTaskfile, "tasks")
	if err != nil {
		t.Fatalf("bare tasks returned error: %v", err)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("bare \"tasks\" = %q, want the task listing", out)
	}
}

func TestTasksRun(t *testing.T) {
	out, err := runGirder(t, testTaskfile, "tasks", "run", "hello")
	if err != nil {
		t.Fatalf("tasks run returned error: %v", err)
	}
	if !strings.Contains(out, "hello from girder") {
		t.Errorf("run output = %q", out)
	}
}

func TestTasksRun_PositionalArgs(t *testing.T) {
	out, err := runGirder(t, testTaskfile, "tasks", "run", "args", "alpha", "beta")
	if err != nil {
		t.Fatalf("tasks run returned error: %v", err)
	}
	if !strings.Contains(out, "got alpha and beta") {
		t.Errorf("run output = %q, want script args substituted", out)
	}
}

func TestTasksRun_DryRun(t *testing.T) {
	out, err := runGirder(t, testTaskfile, "tasks", "run", "hello", "--dry-run")
	if err != nil {
		t.Fatalf("dry run returned error: %v", err)
	}
	if !strings.Contains(out, "echo hello from girder") {
		t.Errorf("dry run output = %q, want the script text", out)
	}
	if !strings.Contains(out, "dry run") {
		t.Errorf("dry run output = %q, want the dry run banner", out)
	}
}

func TestTasksRun_ExitCode(t *testing.T) {
	_, err := runGirder(t, testTaskfile, "tasks", "run", "flaky")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *ExitError", err)
	}
	if exitErr.Code != 5 {
		t.Errorf("exit code = %d, want 5", exitErr.Code)
	}
}

func TestTasksRun_UnknownTask(t *testing.T) {
	out, err := runGirder(t, testTaskfile, "tasks", "run", "deploy")
	if err == nil {
		t.Fatal("running an unknown task succeeded, want error")
	}
	if !strings.Contains(err.Error(), "deploy") {
		t.Errorf("error = %q, want it to name the task", err)
	}
	if !strings.Contains(strings.ToLower(out), "task not found") {
		t.Errorf("output = %q, want the task help card", out)
	}
}

func TestTasksRun_NoTaskNamed(t *testing.T) {
	if _, err := runGirder(t, testTaskfile, "tasks", "run"); err == nil {
		t.Error("tasks run without a task succeeded, want error")
	}
}

func TestTasksShow(t *testing.T) {
	out, err := runGirder(t, testTaskfile, "tasks", "show", "args")
	if err != nil {
		t.Fatalf("tasks show returned error: %v", err)
	}
	if !strings.Contains(out, `echo "got $1 and $2"`) {
		t.Errorf("show output = %q, want the script text", out)
	}
}

func TestTasksAlias(t *testing.T) {
	out, err := runGirder(t, testTaskfile, "t", "list")
	if err != nil {
		t.Fatalf("aliased tasks list returned error: %v", err)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("listing via alias = %q", out)
	}
}

func TestDoctorIsTopLevel(t *testing.T) {
	out, err := runGirder(t, "", "doctor")
	if err != nil {
		t.Fatalf("doctor returned error: %v", err)
	}
	if !strings.Contains(out, "config dir") {
		t.Errorf("doctor output = %q", out)
	}
}

func TestConfigShow(t *testing.T) {
	out, err := runGirder(t, "", "config", "show")
	if err != nil {
		t.Fatalf("config show returned error: %v", err)
	}
	if !strings.Contains(out, "taskfile") || !strings.Contains(out, "ui.color") {
		t.Errorf("config show output = %q", out)
	}
}

func TestConfigInit(t *testing.T) {
	out, err := runGirder(t, "", "config", "init")
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(out, "wrote") {
		t.Errorf("config init output = %q", out)
	}

	// A second init in the same config dir must refuse to overwrite,
	// so use one app pair against a shared dir.
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)
	var buf bytes.Buffer
	if err := buildApp("test", &buf, false).Run([]string{"config", "init"}); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := buildApp("test", &buf, false).Run([]string{"config", "init"}); err == nil {
		t.Error("second init succeeded, want refusal to overwrite")
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := runGirder(t, "", "summon"); err == nil {
		t.Error("unknown command succeeded, want error")
	}
}
