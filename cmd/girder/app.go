// SPDX-License-Identifier: MPL-2.0

// Command girder is a small task runner built on the girder framework:
// tasks are declared in a TOML task file and executed by an embedded
// POSIX shell, with controllers contributing the CLI surface.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"girder-cli/internal/config"
	"girder-cli/internal/issue"
	"girder-cli/internal/taskfile"
	"girder-cli/pkg/app"
	"girder-cli/pkg/argparse"
	"girder-cli/pkg/controller"
)

// issueCardStyle is the glamour style issue cards render with.
const issueCardStyle = "dark"

// renderIssueCard renders the styled help card for an issue id. The
// plain markdown body is the fallback when rendering fails.
func renderIssueCard(id issue.Id) string {
	card := issue.Get(id)
	if card == nil {
		return ""
	}
	out, err := card.Render(issueCardStyle)
	if err != nil {
		return string(card.MarkdownMsg())
	}
	return out
}

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// buildApp assembles the application: the base controller plus the
// tasks, config and doctor controllers, all writing to out. Styled
// execution (useFang) is disabled in tests.
func buildApp(version string, out io.Writer, useFang bool) *app.App {
	parserOpts := []argparse.CobraOption{
		argparse.WithShort("A TOML-driven task runner"),
		argparse.WithLong(TitleStyle.Render("girder") + SubtitleStyle.Render(" - A TOML-driven task runner") + `

girder runs shell tasks declared in a girder.toml task file using a
built-in POSIX shell, so task files behave the same on every platform.

` + SubtitleStyle.Render("Examples:") + `
  girder tasks              List the available tasks
  girder tasks run build    Run the 'build' task
  girder doctor             Check the environment
  girder config init        Write a default configuration file`),
	}
	if useFang {
		parserOpts = append(parserOpts, argparse.WithFang(version))
	}

	return app.New("girder",
		app.WithLogger(newLogger()),
		app.WithParserOptions(parserOpts...),
		app.WithController(
			newBaseController(out, version),
			newTasksController(out),
			newConfigController(out),
			newDoctorController(out),
		),
	)
}

// newLogger builds the application logger; debug logging is enabled
// with GIRDER_DEBUG=1.
func newLogger() *log.Logger {
	if os.Getenv("GIRDER_DEBUG") == "" {
		return log.New(io.Discard)
	}
	logger := log.New(os.Stderr)
	logger.SetLevel(log.DebugLevel)
	return logger
}

// resolveConfig loads the configuration and applies the parsed global
// flags on top of it. Flag values win over file values.
func resolveConfig(ctx *controller.Context) (*config.Config, error) {
	if path, ok := ctx.Args.GetString("config"); ok && ctx.Args.Changed("config") {
		config.SetConfigFilePathOverride(path)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if path, ok := ctx.Args.GetString("taskfile"); ok && ctx.Args.Changed("taskfile") {
		cfg.Taskfile = path
	}
	if ctx.Args.GetBool("verbose") {
		cfg.UI.Verbose = true
	}
	if mode, ok := ctx.Args.GetString("color"); ok && ctx.Args.Changed("color") {
		cfg.UI.Color = config.ColorMode(mode)
	}
	return cfg, nil
}

// loadTaskfile resolves the configuration and loads the task file it
// names.
func loadTaskfile(ctx *controller.Context) (*config.Config, *taskfile.File, error) {
	cfg, err := resolveConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	f, err := taskfile.Load(cfg.Taskfile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, f, nil
}
