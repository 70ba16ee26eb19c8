// SPDX-License-Identifier: MPL-2.0

// Package controller defines pluggable command namespaces: each
// controller contributes its own arguments and exposed commands, and
// declares where it stacks in the namespace tree (embedded into its
// parent or nested as a new sub-command level).
package controller

import "girder-cli/pkg/argparse"

// StackedType describes how a controller merges into its parent.
type StackedType string

const (
	// Embedded merges the controller's commands and arguments into the
	// parent's namespace; no new sub-command level is created.
	Embedded StackedType = "embedded"

	// Nested puts the controller's commands under a new sub-command
	// named after the controller's label.
	Nested StackedType = "nested"
)

// DefaultFuncName is the fallback command invoked when a controller is
// addressed without an explicit sub-command and its spec names none.
const DefaultFuncName = "default"

// Spec is the declarative metadata block for one controller.
type Spec struct {
	// Label is the unique controller identifier, used both as the CLI
	// sub-command token and as the graph node id.
	Label string

	// Aliases are alternative CLI spellings for the label.
	Aliases []string

	// StackedOn is the label of the parent controller. Empty marks the
	// root controller; exactly one controller per registry may be root.
	StackedOn string

	// StackedType selects embedded or nested stacking. Ignored for the
	// root; defaults to Embedded for everything else.
	StackedType StackedType

	// Hide omits the controller from help listings. Hiding an embedded
	// controller also hides its commands.
	Hide bool

	// Title is the sub-parser group heading in help output.
	Title string

	// Help is the one-line text in the parent's command listing.
	Help string

	// Description, Usage and Epilog are passed through to the parser.
	Description string
	Usage       string
	Epilog      string

	// Arguments are the controller-level argument declarations.
	Arguments []argparse.Argument

	// DefaultFunc names the command function invoked when the
	// controller is addressed without a sub-command. It must not start
	// with the reserved "_" prefix. Empty means DefaultFuncName.
	DefaultFunc string
}

// Controller is the capability contract concrete controllers implement.
// Most implementations embed Base, which stores a Spec and an explicit
// command table.
type Controller interface {
	Spec() Spec
	CollectArguments() []argparse.Argument
	CollectCommands() []*Command
}

// App is the slice of the running application a command function sees.
type App interface {
	// Name returns the application name.
	Name() string
	// Pargs returns the result of the last parse.
	Pargs() *argparse.Namespace
}

// Binder is implemented by controllers that want the running
// application handed to them before one of their functions is invoked.
type Binder interface {
	Bind(app App)
}

// Context carries everything a command function receives when invoked.
type Context struct {
	App     App
	Command *Command
	Args    *argparse.Namespace
}

// Base is a ready-made Controller core: it stores the Spec, keeps the
// explicit command registration table in declaration order, and holds
// the application binding. Concrete controllers embed it and call
// Expose for each command at construction time.
type Base struct {
	spec     Spec
	commands []*Command
	app      App
}

// NewBase creates a controller core from a spec, filling the defaults
// the declaration left out.
func NewBase(spec Spec) *Base {
	if spec.Title == "" {
		spec.Title = "sub-commands"
	}
	if spec.Help == "" {
		spec.Help = spec.Label + " controller"
	}
	if spec.DefaultFunc == "" {
		spec.DefaultFunc = DefaultFuncName
	}
	if spec.StackedOn != "" && spec.StackedType == "" {
		spec.StackedType = Embedded
	}
	return &Base{spec: spec}
}

// Spec returns the controller's metadata.
func (b *Base) Spec() Spec {
	return b.spec
}

// CollectArguments returns the controller's declared arguments.
func (b *Base) CollectArguments() []argparse.Argument {
	return b.spec.Arguments
}

// CollectCommands returns the explicit command table in declaration
// order.
func (b *Base) CollectCommands() []*Command {
	return b.commands
}

// Expose appends a command to the registration table.
func (b *Base) Expose(cmd *Command) {
	b.commands = append(b.commands, cmd)
}

// Bind stores the running application; called by the dispatch engine
// before any of the controller's functions run.
func (b *Base) Bind(app App) {
	b.app = app
}

// App returns the bound application, or nil before dispatch.
func (b *Base) App() App {
	return b.app
}
