// SPDX-License-Identifier: MPL-2.0

// Package argparse defines the parser collaborator surface consumed by
// the dispatch engine: an opaque parser object that accepts argument
// declarations, grows named sub-parser namespaces, and parses a live
// argument vector into a Namespace of named fields.
//
// The framework treats this surface as opaque so the concrete flag
// syntax stays out of the core. The default backend (cobra.go) is
// built on spf13/cobra and spf13/pflag.
package argparse

import "strconv"

// Kind selects the value type of a declared argument.
type Kind int

const (
	// KindString declares an argument taking a single string value.
	KindString Kind = iota
	// KindBool declares a boolean switch.
	KindBool
	// KindInt declares an argument taking a single integer value.
	KindInt
)

// Argument is one argument declaration tuple: the flag spellings plus
// the options the parser needs to register it.
type Argument struct {
	// Flags holds the flag spellings, e.g. {"-f", "--foo"}. At least one
	// long ("--") spelling is required; a single-dash spelling becomes
	// the shorthand.
	Flags []string

	// Dest names the parsed-namespace field the value lands in. Empty
	// means the long flag name.
	Dest string

	// Help is the flag's help text.
	Help string

	// Default is the textual default value (ignored for KindBool).
	Default string

	// Kind selects the value type. The zero value is KindString.
	Kind Kind
}

// GroupOptions configures a sub-parser group created on a parser.
type GroupOptions struct {
	// Title is the heading the group gets in help output.
	Title string

	// Dest names the parsed-namespace field that records which
	// sub-command was selected. The dispatch engine always uses
	// "command".
	Dest string
}

// ParserOptions configures a named sub-parser created inside a group.
type ParserOptions struct {
	// Aliases are alternative spellings for the sub-command token.
	Aliases []string

	// Help is the one-line text shown in the parent's command listing.
	Help string

	// Description is the long help text shown for the sub-command itself.
	Description string

	// Usage overrides the generated usage line when non-empty.
	Usage string

	// Epilog is trailing help text (rendered as the example block).
	Epilog string

	// Hidden omits the sub-command from help listings entirely.
	Hidden bool
}

// Parser is an opaque parser object. Parse is only meaningful on the
// root parser; sub-parsers share the root's parse state.
type Parser interface {
	// AddArgument registers one argument declaration. A duplicate or
	// conflicting flag is rejected with an error.
	AddArgument(arg Argument) error

	// AddSubparsers creates the group that named sub-parsers hang off.
	AddSubparsers(opts GroupOptions) (Group, error)

	// Mark attaches an invocation payload to this parser. When a parse
	// selects the marked parser, the payload is recorded on the
	// resulting Namespace; nothing is invoked during parsing.
	Mark(payload any)

	// Parse parses the argument vector and returns the populated
	// Namespace. Malformed input is reported as an error, never
	// retried.
	Parse(argv []string) (*Namespace, error)
}

// Group is a sub-parser group: a namespace that named sub-parsers are
// added to.
type Group interface {
	AddParser(label string, opts ParserOptions) (Parser, error)
}

// Namespace is the result of a parse: named fields, the selected
// sub-command chain, leftover positional arguments, and the invocation
// marker side-channel.
type Namespace struct {
	// Command is the deepest sub-command label the parse matched, or
	// empty when the bare root was invoked.
	Command string

	values     map[string]string
	changed    map[string]bool
	positional []string
	marker     any
	help       bool
}

// NewNamespace creates an empty Namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		values:  make(map[string]string),
		changed: make(map[string]bool),
	}
}

// Set stores a named field value. Backends call this while recording a
// parse; applications normally only read.
func (n *Namespace) Set(dest, value string) {
	n.values[dest] = value
}

// SetChanged marks a named field as explicitly set on the command line.
func (n *Namespace) SetChanged(dest string, changed bool) {
	n.changed[dest] = changed
}

// GetString returns the named field's value and whether it exists.
func (n *Namespace) GetString(dest string) (string, bool) {
	v, ok := n.values[dest]
	return v, ok
}

// GetBool returns the named field interpreted as a boolean. Missing or
// unparsable values read as false.
func (n *Namespace) GetBool(dest string) bool {
	v, ok := n.values[dest]
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// GetInt returns the named field interpreted as an integer. Missing or
// unparsable values read as zero.
func (n *Namespace) GetInt(dest string) int {
	v, ok := n.values[dest]
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return i
}

// Changed reports whether the named field was explicitly set on the
// command line rather than defaulted.
func (n *Namespace) Changed(dest string) bool {
	return n.changed[dest]
}

// Positionals returns the leftover positional arguments of the matched
// sub-command.
func (n *Namespace) Positionals() []string {
	return n.positional
}

// SetPositionals stores the leftover positional arguments.
func (n *Namespace) SetPositionals(args []string) {
	n.positional = args
}

// Marker returns the invocation payload recorded during the parse, or
// nil when no marked parser was selected.
func (n *Namespace) Marker() any {
	return n.marker
}

// SetMarker records the invocation payload side-channel.
func (n *Namespace) SetMarker(payload any) {
	n.marker = payload
}

// HelpRequested reports whether the parse only rendered help text.
func (n *Namespace) HelpRequested() bool {
	return n.help
}

// SetHelpRequested marks the parse as help-only.
func (n *Namespace) SetHelpRequested() {
	n.help = true
}
