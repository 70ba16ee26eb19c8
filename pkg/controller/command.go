// SPDX-License-Identifier: MPL-2.0

package controller

import (
	"strings"

	"girder-cli/pkg/argparse"
	"girder-cli/pkg/errs"
)

// ReservedPrefix marks function identifiers that are internal to a
// controller and can never be exposed as commands or named as a
// default function.
const ReservedPrefix = "_"

// Func is an exposed command function.
type Func func(ctx *Context) error

// Command is one exposed command: the function reference plus the
// metadata the parser needs to surface it.
type Command struct {
	// Label is the CLI token, derived from FuncName with underscores
	// mapped to hyphens. Filled by Catalog when empty.
	Label string

	// FuncName is the original function identifier.
	FuncName string

	// Hide omits the command from help listings. A command of a hidden
	// embedded controller is hidden regardless of this flag.
	Hide bool

	// Arguments are the command's own argument declarations, added to
	// the command's sub-parser.
	Arguments []argparse.Argument

	// ParserOptions are passed through to the parser when the command's
	// sub-parser is created.
	ParserOptions argparse.ParserOptions

	// Func is the direct function reference invoked on dispatch.
	Func Func

	// Controller is the back-reference to the owning controller,
	// attached by Catalog. Not owned.
	Controller Controller
}

// CommandLabel derives the CLI token for a function identifier.
func CommandLabel(funcName string) string {
	return strings.ReplaceAll(funcName, "_", "-")
}

// Catalog produces the controller's command catalog: the registration
// table in declaration order, with labels derived, back-references
// attached, and reserved-prefix entries excluded.
func Catalog(c Controller) ([]*Command, error) {
	var catalog []*Command
	for _, cmd := range c.CollectCommands() {
		if cmd.FuncName == "" {
			return nil, errs.Configurationf("controller %q exposes a command with no function name", c.Spec().Label)
		}
		if strings.HasPrefix(cmd.FuncName, ReservedPrefix) {
			continue
		}
		if cmd.Func == nil {
			return nil, errs.Configurationf("command %q of controller %q has no function bound", cmd.FuncName, c.Spec().Label)
		}
		if cmd.Label == "" {
			cmd.Label = CommandLabel(cmd.FuncName)
		}
		cmd.Controller = c
		catalog = append(catalog, cmd)
	}
	return catalog, nil
}

// DefaultCommand resolves the controller's default function from its
// command table.
func DefaultCommand(c Controller) (*Command, error) {
	name := c.Spec().DefaultFunc
	if name == "" {
		name = DefaultFuncName
	}
	for _, cmd := range c.CollectCommands() {
		if cmd.FuncName == name {
			return cmd, nil
		}
	}
	return nil, errs.NewLookupError("default function", c.Spec().Label+"."+name)
}
