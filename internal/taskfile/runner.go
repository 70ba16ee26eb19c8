// SPDX-License-Identifier: MPL-2.0

package taskfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Runner executes task scripts with the embedded shell interpreter, so
// tasks behave the same on every platform without requiring /bin/sh.
type Runner struct {
	dir    string
	env    []string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDir sets the working directory for task scripts.
func WithDir(dir string) RunnerOption {
	return func(r *Runner) { r.dir = dir }
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) RunnerOption {
	return func(r *Runner) { r.env = append(r.env, env...) }
}

// WithStdIO sets the standard streams for task scripts.
func WithStdIO(stdin io.Reader, stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// NewRunner creates a Runner. By default scripts run in the current
// directory with the process environment and standard streams.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the task's script. Extra args become the script's
// positional parameters ($1, $2, ...). The returned exit code is the
// script's; a non-zero exit is reported through the code, not the
// error.
func (r *Runner) Run(ctx context.Context, task *Task, args []string) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(task.Script), task.Name)
	if err != nil {
		return 1, fmt.Errorf("failed to parse script for task %q: %w", task.Name, err)
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(append(os.Environ(), r.env...)...)),
		interp.StdIO(r.stdin, r.stdout, r.stderr),
	}
	if r.dir != "" {
		opts = append(opts, interp.Dir(r.dir))
	}
	// "--" stops interp.Params from treating leading dashes in args as
	// shell options.
	if len(args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return 1, fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return int(status), nil
		}
		return 1, fmt.Errorf("task %q failed: %w", task.Name, err)
	}
	return 0, nil
}
