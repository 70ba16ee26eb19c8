// SPDX-License-Identifier: MPL-2.0

// Package dispatch assembles the parser namespace tree for a resolved
// controller order and routes one command-line invocation to exactly
// one exposed function.
package dispatch

import (
	"io"

	"github.com/charmbracelet/log"

	"girder-cli/pkg/argparse"
	"girder-cli/pkg/controller"
	"girder-cli/pkg/errs"
)

// commandDest is the parsed-namespace field recording the selected
// sub-command.
const commandDest = "command"

// Assembler walks a resolved controller order and builds the parser
// namespace tree: one sub-parser per nested controller, a shared
// namespace for embedded controllers, and one marked sub-parser per
// exposed command.
type Assembler struct {
	parsers map[string]argparse.Parser
	parents map[string]argparse.Group
	log     *log.Logger
}

// NewAssembler creates an Assembler. A nil logger discards debug
// tracing.
func NewAssembler(logger *log.Logger) *Assembler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Assembler{
		parsers: make(map[string]argparse.Parser),
		parents: make(map[string]argparse.Group),
		log:     logger,
	}
}

// Parser returns the parser object a controller label resolved to.
// Embedded controllers share their parent's parser.
func (a *Assembler) Parser(label string) (argparse.Parser, bool) {
	p, ok := a.parsers[label]
	return p, ok
}

// Group returns the sub-parser group a controller label hangs its
// commands off.
func (a *Assembler) Group(label string) (argparse.Group, bool) {
	g, ok := a.parents[label]
	return g, ok
}

// Assemble builds the namespace tree for the resolved order onto the
// root parser, then adds every controller's arguments and command
// sub-parsers.
func (a *Assembler) Assemble(root argparse.Parser, order []controller.Controller) error {
	if len(order) == 0 {
		return errs.Configurationf("no controllers to assemble")
	}

	rootSpec := order[0].Spec()
	a.parsers[rootSpec.Label] = root
	group, err := root.AddSubparsers(argparse.GroupOptions{Title: rootSpec.Title, Dest: commandDest})
	if err != nil {
		return errs.Configurationf("create root sub-parser group: %v", err)
	}
	a.parents[rootSpec.Label] = group

	if err := a.buildNamespaces(order[1:]); err != nil {
		return err
	}
	for _, c := range order {
		if err := a.processArguments(c); err != nil {
			return err
		}
	}
	for _, c := range order {
		if err := a.processCommands(c); err != nil {
			return err
		}
	}
	return nil
}

// buildNamespaces runs the fixed-point loop over the non-root
// controllers: a controller whose parent namespace is not created yet
// is skipped and retried on the next pass. A pass with no progress
// leaves the remainder unresolvable.
func (a *Assembler) buildNamespaces(pending []controller.Controller) error {
	for len(pending) > 0 {
		var deferred []controller.Controller
		for _, c := range pending {
			spec := c.Spec()
			parentGroup, ok := a.parents[spec.StackedOn]
			if !ok {
				deferred = append(deferred, c)
				continue
			}

			switch spec.StackedType {
			case controller.Nested:
				a.log.Debug("creating nested parser namespace", "controller", spec.Label, "on", spec.StackedOn)
				p, err := parentGroup.AddParser(spec.Label, controllerParserOptions(spec))
				if err != nil {
					return errs.Configurationf("create parser for controller %q: %v", spec.Label, err)
				}
				a.parsers[spec.Label] = p
				g, err := p.AddSubparsers(argparse.GroupOptions{Title: spec.Title, Dest: commandDest})
				if err != nil {
					return errs.Configurationf("create sub-parser group for controller %q: %v", spec.Label, err)
				}
				a.parents[spec.Label] = g
			default: // embedded shares the parent's namespace
				a.log.Debug("aliasing embedded parser namespace", "controller", spec.Label, "on", spec.StackedOn)
				a.parsers[spec.Label] = a.parsers[spec.StackedOn]
				a.parents[spec.Label] = parentGroup
			}
		}

		if len(deferred) == len(pending) {
			return errs.Configurationf("parser namespaces unresolvable for controllers: %s", labelsOf(deferred))
		}
		pending = deferred
	}
	return nil
}

// processArguments adds the controller's declared arguments to its
// resolved parser.
func (a *Assembler) processArguments(c controller.Controller) error {
	spec := c.Spec()
	parser := a.parsers[spec.Label]
	for _, arg := range c.CollectArguments() {
		a.log.Debug("adding argument", "controller", spec.Label, "flags", arg.Flags)
		if err := parser.AddArgument(arg); err != nil {
			return errs.Configurationf("controller %q argument %v: %v", spec.Label, arg.Flags, err)
		}
	}
	return nil
}

// processCommands creates one marked sub-parser per catalog entry
// under the controller's parent namespace.
func (a *Assembler) processCommands(c controller.Controller) error {
	spec := c.Spec()
	catalog, err := controller.Catalog(c)
	if err != nil {
		return err
	}

	parent := a.parents[spec.Label]
	for _, cmd := range catalog {
		a.log.Debug("adding command", "controller", spec.Label, "command", cmd.Label, "func", cmd.FuncName)

		opts := cmd.ParserOptions
		// Commands of a hidden embedded controller are hidden even when
		// their own hide flag is false.
		if cmd.Hide || (spec.StackedType == controller.Embedded && spec.Hide) {
			opts.Hidden = true
			opts.Help = ""
		}

		cp, err := parent.AddParser(cmd.Label, opts)
		if err != nil {
			return errs.Configurationf("create command %q of controller %q: %v", cmd.Label, spec.Label, err)
		}
		cp.Mark(cmd)

		for _, arg := range cmd.Arguments {
			if err := cp.AddArgument(arg); err != nil {
				return errs.Configurationf("command %q argument %v: %v", cmd.Label, arg.Flags, err)
			}
		}
	}
	return nil
}

// controllerParserOptions maps a controller spec to the display
// options of its sub-parser. Hidden controllers get no listing text.
func controllerParserOptions(spec controller.Spec) argparse.ParserOptions {
	opts := argparse.ParserOptions{
		Aliases:     spec.Aliases,
		Description: spec.Description,
		Usage:       spec.Usage,
		Epilog:      spec.Epilog,
	}
	if spec.Hide {
		opts.Hidden = true
	} else {
		opts.Help = spec.Help
	}
	return opts
}

func labelsOf(controllers []controller.Controller) string {
	out := ""
	for i, c := range controllers {
		if i > 0 {
			out += ", "
		}
		out += c.Spec().Label
	}
	return out
}
