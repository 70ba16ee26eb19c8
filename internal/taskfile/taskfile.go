// SPDX-License-Identifier: MPL-2.0

// Package taskfile loads girder task files: TOML documents declaring
// named shell tasks, executed by a built-in POSIX shell interpreter.
package taskfile

import (
	"fmt"
	"os"
	"strings"

	"girder-cli/internal/issue"

	"github.com/pelletier/go-toml/v2"
	"mvdan.cc/sh/v3/syntax"
)

// Task is a single named task declared in a task file.
type Task struct {
	// Name identifies the task; it must be unique within a file.
	Name string `toml:"name"`
	// Description is shown in task listings.
	Description string `toml:"description"`
	// Script is the shell script executed when the task runs.
	Script string `toml:"script"`
}

// File is a parsed task file.
type File struct {
	// Tasks in declaration order.
	Tasks []Task `toml:"task"`

	// Path the file was loaded from.
	Path string `toml:"-"`
}

// Load reads and validates a task file. Task names must be unique and
// non-empty, and every script must parse as POSIX shell.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load task file").
			WithResource(path).
			WithSuggestion("Run \"girder tasks\" from the directory containing the task file").
			WithSuggestion("Set an explicit path with the taskfile config key").
			Wrap(err).
			Build()
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse task file").
			WithResource(path).
			WithSuggestion("Check the TOML syntax near the reported line").
			Wrap(err).
			Build()
	}
	f.Path = path

	if err := f.validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate task file").
			WithResource(path).
			Wrap(err).
			Build()
	}
	return &f, nil
}

func (f *File) validate() error {
	seen := make(map[string]bool, len(f.Tasks))
	parser := syntax.NewParser()
	for i, t := range f.Tasks {
		if t.Name == "" {
			return fmt.Errorf("task %d has no name", i+1)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate task name %q", t.Name)
		}
		seen[t.Name] = true

		if strings.TrimSpace(t.Script) == "" {
			return fmt.Errorf("task %q has no script", t.Name)
		}
		if _, err := parser.Parse(strings.NewReader(t.Script), t.Name); err != nil {
			return fmt.Errorf("task %q script syntax error: %w", t.Name, err)
		}
	}
	return nil
}

// Get returns the named task.
func (f *File) Get(name string) (*Task, error) {
	for i := range f.Tasks {
		if f.Tasks[i].Name == name {
			return &f.Tasks[i], nil
		}
	}
	return nil, issue.NewErrorContext().
		WithOperation("look up task").
		WithResource(name).
		WithSuggestion("Run \"girder tasks\" to list the available tasks").
		Wrap(fmt.Errorf("task %q not defined in %s", name, f.Path)).
		Build()
}

// Names returns the task names in declaration order.
func (f *File) Names() []string {
	names := make([]string, len(f.Tasks))
	for i, t := range f.Tasks {
		names[i] = t.Name
	}
	return names
}
