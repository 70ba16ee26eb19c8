// SPDX-License-Identifier: MPL-2.0

// Package app ties the framework together: an App owns the hook
// registry, the controller registry and the root parser, and runs the
// dispatch engine for one invocation. Registries are explicit values
// owned by the App; nothing framework-wide is global.
package app

import (
	"io"

	"github.com/charmbracelet/log"

	"girder-cli/pkg/argparse"
	"girder-cli/pkg/controller"
	"girder-cli/pkg/dispatch"
	"girder-cli/pkg/hook"
)

// Builtin lifecycle hooks, defined during Setup and run around the
// application's phases. Components may subscribe before or after
// Setup; register-before-define is legal.
const (
	PreSetup  = "pre_setup"
	PostSetup = "post_setup"
	PreRun    = "pre_run"
	PostRun   = "post_run"
	PreClose  = "pre_close"
	PostClose = "post_close"
)

// App is the application collaborator: it exposes the root parser, the
// result of the last parse, and the registries components register
// against.
type App struct {
	name        string
	hooks       *hook.Registry
	controllers *controller.Registry
	root        argparse.Parser
	pargs       *argparse.Namespace
	log         *log.Logger
	parserOpts  []argparse.CobraOption
	deferred    []error
	setup       bool
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the application logger. The default discards.
func WithLogger(logger *log.Logger) Option {
	return func(a *App) { a.log = logger }
}

// WithController registers controllers at construction time. A
// registration error surfaces from Setup.
func WithController(cs ...controller.Controller) Option {
	return func(a *App) {
		for _, c := range cs {
			if err := a.controllers.Add(c); err != nil {
				a.deferred = append(a.deferred, err)
			}
		}
	}
}

// WithParserOptions passes backend options through to the root parser
// created during Setup (e.g. argparse.WithFang for styled execution).
func WithParserOptions(opts ...argparse.CobraOption) Option {
	return func(a *App) { a.parserOpts = append(a.parserOpts, opts...) }
}

// New creates an application. Call Setup (or Run, which sets up on
// demand) before dispatching.
func New(name string, opts ...Option) *App {
	a := &App{
		name:        name,
		hooks:       hook.NewRegistry(),
		controllers: controller.NewRegistry(),
		log:         log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the application name.
func (a *App) Name() string {
	return a.name
}

// Hooks returns the application's hook registry.
func (a *App) Hooks() *hook.Registry {
	return a.hooks
}

// Controllers returns the application's controller registry.
func (a *App) Controllers() *controller.Registry {
	return a.controllers
}

// Register adds a controller to the registry.
func (a *App) Register(c controller.Controller) error {
	return a.controllers.Add(c)
}

// Args returns the root parser. Nil before Setup.
func (a *App) Args() argparse.Parser {
	return a.root
}

// Pargs returns the result of the last parse. Nil before the first
// dispatch.
func (a *App) Pargs() *argparse.Namespace {
	return a.pargs
}

// SetPargs stores the parsed namespace; called by the dispatch engine
// before a command function runs.
func (a *App) SetPargs(ns *argparse.Namespace) {
	a.pargs = ns
}

// Setup defines the builtin lifecycle hooks, runs the pre/post setup
// subscribers and creates the root parser. Setup runs once; repeated
// calls are no-ops.
func (a *App) Setup() error {
	if a.setup {
		return nil
	}
	if err := a.firstError(); err != nil {
		return err
	}

	for _, name := range []string{PreSetup, PostSetup, PreRun, PostRun, PreClose, PostClose} {
		if err := a.hooks.Define(name); err != nil {
			return err
		}
	}

	if err := a.runHook(PreSetup); err != nil {
		return err
	}

	a.log.Debug("creating root parser", "app", a.name)
	a.root = argparse.NewCobraParser(a.name, a.parserOpts...)
	a.setup = true

	return a.runHook(PostSetup)
}

// Run dispatches one argument vector, wrapped in the pre_run and
// post_run hooks. Framework errors and errors from the invoked
// function both surface to the caller.
func (a *App) Run(argv []string) error {
	if err := a.Setup(); err != nil {
		return err
	}
	if err := a.runHook(PreRun); err != nil {
		return err
	}

	engine := dispatch.NewEngine(a, a.controllers, a.root, dispatch.WithLogger(a.log))
	if err := engine.Dispatch(argv); err != nil {
		return err
	}

	return a.runHook(PostRun)
}

// Close runs the pre_close and post_close hooks. The App holds no
// other resources.
func (a *App) Close() error {
	if !a.setup {
		return nil
	}
	if err := a.runHook(PreClose); err != nil {
		return err
	}
	return a.runHook(PostClose)
}

// runHook drains one lifecycle hook; a subscriber error aborts the
// remainder and propagates.
func (a *App) runHook(name string) error {
	a.log.Debug("running hook", "hook", name, "subscribers", a.hooks.Count(name))
	_, err := a.hooks.RunAll(name, a)
	return err
}

// firstError reports the first construction-time registration error so
// Setup can surface it instead of an option swallowing it.
func (a *App) firstError() error {
	if len(a.deferred) > 0 {
		return a.deferred[0]
	}
	return nil
}
