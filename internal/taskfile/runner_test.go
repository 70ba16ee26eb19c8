// SPDX-License-Identifier: MPL-2.0

package taskfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runScript(t *testing.T, script string, args []string, opts ...RunnerOption) (int, string, error) {
	t.Helper()
	var out bytes.Buffer
	opts = append(opts, WithStdIO(nil, &out, &out))
	r := NewRunner(opts...)
	code, err := r.Run(context.Background(), &Task{Name: "probe", Script: script}, args)
	return code, out.String(), err
}

func TestRunner_Run(t *testing.T) {
	code, out, err := runScript(t, `echo hello`, nil)
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("output = %q, want it to contain hello", out)
	}
}

func TestRunner_PositionalArgs(t *testing.T) {
	_, out, err := runScript(t, `echo "first=$1 second=$2"`, []string{"-v", "beta"})
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if !strings.Contains(out, "first=-v second=beta") {
		t.Errorf("output = %q, want positional args substituted", out)
	}
}

func TestRunner_ExitStatus(t *testing.T) {
	code, _, err := runScript(t, `exit 3`, nil)
	if err != nil {
		t.Fatalf("Run() returned error: %v, want exit status via code", err)
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestRunner_Env(t *testing.T) {
	_, out, err := runScript(t, `echo "color=$GIRDER_COLOR"`, nil, WithEnv("GIRDER_COLOR=never"))
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if !strings.Contains(out, "color=never") {
		t.Errorf("output = %q, want injected env var", out)
	}
}

func TestRunner_Dir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, out, err := runScript(t, `test -f marker.txt && echo found`, nil, WithDir(dir))
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if !strings.Contains(out, "found") {
		t.Errorf("output = %q, want script to see the marker file in %s", out, dir)
	}
}

func TestRunner_ParseFailure(t *testing.T) {
	code, _, err := runScript(t, `while true; do`, nil)
	if err == nil {
		t.Fatal("Run() of malformed script succeeded, want error")
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}
