// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"io"

	"github.com/charmbracelet/log"

	"girder-cli/pkg/argparse"
	"girder-cli/pkg/controller"
	"girder-cli/pkg/errs"
)

// State is the dispatch engine's lifecycle state.
type State int

const (
	// StateCollecting resolves controllers and assembles parsers.
	StateCollecting State = iota
	// StateParsing parses the live argument vector.
	StateParsing
	// StateRouting resolves which function a command-less parse maps to.
	StateRouting
	// StateInvoked is terminal: exactly one function was invoked (or
	// the parse was help-only).
	StateInvoked
	// StateFailed is terminal: configuration, lookup or usage failure.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateParsing:
		return "parsing"
	case StateRouting:
		return "routing"
	case StateInvoked:
		return "invoked"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// App is the application collaborator the engine dispatches for.
type App interface {
	controller.App

	// SetPargs stores the parsed namespace before a command function
	// runs, so functions reading through the App see the live parse.
	SetPargs(ns *argparse.Namespace)
}

// Engine routes a single command-line invocation to exactly one
// exposed function. Dispatch is two-phase: parsing only records which
// command was selected; the engine then invokes the resolved function
// itself.
type Engine struct {
	app      App
	registry *controller.Registry
	root     argparse.Parser
	asm      *Assembler
	state    State
	log      *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the debug logger used by the engine and its
// assembler.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.log = logger }
}

// NewEngine creates a dispatch engine for the application, its
// controller registry and the root parser.
func NewEngine(app App, registry *controller.Registry, root argparse.Parser, opts ...Option) *Engine {
	e := &Engine{
		app:      app,
		registry: registry,
		root:     root,
		state:    StateCollecting,
		log:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.asm = NewAssembler(e.log)
	return e
}

// State returns the engine's current state.
func (e *Engine) State() State {
	return e.state
}

// Assembler exposes the parser/namespace maps built during dispatch.
func (e *Engine) Assembler() *Assembler {
	return e.asm
}

// Dispatch resolves, assembles, parses and invokes. Errors from the
// framework are ConfigurationError, LookupError or UsageError; an
// error returned by the invoked function itself propagates unwrapped.
func (e *Engine) Dispatch(argv []string) error {
	order, err := controller.Resolve(e.registry)
	if err != nil {
		e.state = StateFailed
		return err
	}
	e.log.Debug("resolved controller stacking order", "controllers", len(order))

	if err := e.asm.Assemble(e.root, order); err != nil {
		e.state = StateFailed
		return err
	}

	e.state = StateParsing
	ns, err := e.root.Parse(argv)
	if err != nil {
		e.state = StateFailed
		return errs.NewUsageError(err)
	}
	e.app.SetPargs(ns)

	if ns.HelpRequested() {
		e.state = StateInvoked
		return nil
	}

	// A recorded marker means the parse matched a command sub-parser;
	// invoke exactly that function.
	if m := ns.Marker(); m != nil {
		cmd, ok := m.(*controller.Command)
		if !ok {
			e.state = StateFailed
			return errs.Configurationf("invocation marker holds %T, not a command", m)
		}
		e.log.Debug("dispatching to command", "command", cmd.Label)
		return e.invoke(cmd.Controller, cmd, ns)
	}

	e.state = StateRouting
	target := order[0]
	if ns.Command != "" {
		// The parsed command value names a controller invoked without a
		// sub-command of its own.
		c, ok := e.registry.Get(ns.Command)
		if !ok {
			e.state = StateFailed
			return errs.NewLookupError("controller", ns.Command)
		}
		target = c
	}

	cmd, err := controller.DefaultCommand(target)
	if err != nil {
		e.state = StateFailed
		return err
	}
	e.log.Debug("dispatching to default function", "controller", target.Spec().Label, "func", cmd.FuncName)
	return e.invoke(target, cmd, ns)
}

// invoke binds the controller to the application and runs the
// function. The function's own error is not caught.
func (e *Engine) invoke(ctrl controller.Controller, cmd *controller.Command, ns *argparse.Namespace) error {
	if b, ok := ctrl.(controller.Binder); ok {
		b.Bind(e.app)
	}
	e.state = StateInvoked
	return cmd.Func(&controller.Context{App: e.app, Command: cmd, Args: ns})
}
