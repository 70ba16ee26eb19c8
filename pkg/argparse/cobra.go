// SPDX-License-Identifier: MPL-2.0

package argparse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cobraState is the parse state shared by every parser in one tree.
type cobraState struct {
	root    *CobraParser
	ns      *Namespace
	parsers map[*cobra.Command]*CobraParser
	useFang bool
	version string
}

// destFor resolves the namespace field a flag value lands in: the
// nearest parser (walking from the matched command up to the root)
// that declared the flag owns the mapping.
func (s *cobraState) destFor(c *cobra.Command, name string) string {
	for cur := c; cur != nil; cur = cur.Parent() {
		if p, ok := s.parsers[cur]; ok {
			if dest, ok := p.dests[name]; ok {
				return dest
			}
		}
	}
	return name
}

// CobraParser implements Parser on top of a spf13/cobra command tree.
// Parsing is two-phase: executing the tree only records the selection
// (sub-command chain, flag values, invocation marker) on the shared
// Namespace; nothing else runs.
type CobraParser struct {
	cmd   *cobra.Command
	state *cobraState

	// dests maps this parser's long flag names to namespace fields.
	dests map[string]string

	// commandDest is the namespace field the parent group records this
	// parser's selection under. Empty on the root.
	commandDest string

	marked  bool
	payload any
}

// CobraOption configures the root parser.
type CobraOption func(*CobraParser)

// WithFang makes Parse execute the tree through charmbracelet/fang for
// styled help, errors and a --version flag.
func WithFang(version string) CobraOption {
	return func(p *CobraParser) {
		p.state.useFang = true
		p.state.version = version
	}
}

// WithShort sets the root command's one-line description.
func WithShort(short string) CobraOption {
	return func(p *CobraParser) { p.cmd.Short = short }
}

// WithLong sets the root command's long description.
func WithLong(long string) CobraOption {
	return func(p *CobraParser) { p.cmd.Long = long }
}

// NewCobraParser creates the root parser for a program name.
func NewCobraParser(name string, opts ...CobraOption) *CobraParser {
	root := &cobra.Command{
		Use:           name,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	state := &cobraState{parsers: make(map[*cobra.Command]*CobraParser)}
	p := &CobraParser{cmd: root, state: state, dests: make(map[string]string)}
	state.root = p
	state.parsers[root] = p
	root.RunE = state.recordRunE(p)

	// Help requests must be distinguishable from a bare invocation, or
	// routing would run the default function after printing help.
	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(c *cobra.Command, args []string) {
		if state.ns != nil {
			state.ns.SetHelpRequested()
		}
		defaultHelp(c, args)
	})

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Command exposes the underlying cobra command, primarily so callers
// can redirect output streams.
func (p *CobraParser) Command() *cobra.Command {
	return p.cmd
}

// AddArgument registers the declaration on this parser's persistent
// flag set so it also applies to sub-commands below it.
func (p *CobraParser) AddArgument(arg Argument) error {
	var long, short string
	for _, f := range arg.Flags {
		switch {
		case strings.HasPrefix(f, "--"):
			long = strings.TrimPrefix(f, "--")
		case strings.HasPrefix(f, "-"):
			short = strings.TrimPrefix(f, "-")
		}
	}
	if long == "" {
		return fmt.Errorf("argument %v has no long (--) flag spelling", arg.Flags)
	}
	if short != "" && len(short) != 1 {
		return fmt.Errorf("shorthand %q for --%s must be a single character", short, long)
	}

	fs := p.cmd.PersistentFlags()
	if fs.Lookup(long) != nil {
		return fmt.Errorf("flag --%s already declared on %q", long, p.cmd.CommandPath())
	}
	if short != "" && fs.ShorthandLookup(short) != nil {
		return fmt.Errorf("shorthand -%s already declared on %q", short, p.cmd.CommandPath())
	}

	switch arg.Kind {
	case KindBool:
		fs.BoolP(long, short, false, arg.Help)
	case KindInt:
		def, _ := strconv.Atoi(arg.Default)
		fs.IntP(long, short, def, arg.Help)
	default:
		fs.StringP(long, short, arg.Default, arg.Help)
	}

	dest := arg.Dest
	if dest == "" {
		dest = long
	}
	p.dests[long] = dest
	return nil
}

// AddSubparsers creates the group named sub-parsers are added to. On
// the cobra backend the group contributes the help heading and the
// namespace field selections are recorded under; the structure comes
// from command nesting.
func (p *CobraParser) AddSubparsers(opts GroupOptions) (Group, error) {
	groupID := ""
	if opts.Title != "" {
		groupID = opts.Title
		if !p.cmd.ContainsGroup(groupID) {
			p.cmd.AddGroup(&cobra.Group{ID: groupID, Title: opts.Title + ":"})
		}
	}
	return &cobraGroup{parent: p, groupID: groupID, dest: opts.Dest}, nil
}

// Mark attaches the invocation payload recorded when a parse selects
// this parser.
func (p *CobraParser) Mark(payload any) {
	p.marked = true
	p.payload = payload
}

// Parse parses the argument vector against the tree rooted here. Only
// the root parser can parse.
func (p *CobraParser) Parse(argv []string) (*Namespace, error) {
	if p.state.root != p {
		return nil, errors.New("parse invoked on a non-root parser")
	}

	ns := NewNamespace()
	p.state.ns = ns
	p.cmd.SetArgs(argv)

	var err error
	if p.state.useFang {
		err = fang.Execute(
			context.Background(),
			p.cmd,
			fang.WithVersion(p.state.version),
			fang.WithNotifySignal(os.Interrupt),
		)
	} else {
		_, err = p.cmd.ExecuteC()
	}
	if err != nil {
		return nil, err
	}
	return ns, nil
}

// recordRunE builds the run function that records a selection instead
// of invoking anything.
func (s *cobraState) recordRunE(p *CobraParser) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, args []string) error {
		ns := s.ns
		if ns == nil {
			return nil
		}

		if p != s.root {
			ns.Command = c.Name()
			if p.commandDest != "" {
				ns.Set(p.commandDest, c.Name())
			}
		}

		// A parser that is not a command leaf treats leftovers as an
		// unknown sub-command; cobra would otherwise hand them to us
		// silently because a run function is present.
		if !p.marked && len(args) > 0 {
			return fmt.Errorf("unknown command %q for %q", args[0], c.CommandPath())
		}
		ns.SetPositionals(args)

		visit := func(f *pflag.Flag) {
			dest := s.destFor(c, f.Name)
			ns.Set(dest, f.Value.String())
			ns.SetChanged(dest, f.Changed)
		}
		c.Flags().VisitAll(visit)
		c.InheritedFlags().VisitAll(visit)

		if p.marked {
			ns.SetMarker(p.payload)
		}
		return nil
	}
}

type cobraGroup struct {
	parent  *CobraParser
	groupID string
	dest    string
}

// AddParser creates a named sub-parser inside the group.
func (g *cobraGroup) AddParser(label string, opts ParserOptions) (Parser, error) {
	use := label
	if opts.Usage != "" && strings.HasPrefix(opts.Usage, label) {
		use = opts.Usage
	}

	child := &cobra.Command{
		Use:     use,
		Aliases: opts.Aliases,
		Short:   opts.Help,
		Long:    opts.Description,
		Example: opts.Epilog,
		Hidden:  opts.Hidden,
	}
	if g.groupID != "" {
		child.GroupID = g.groupID
	}

	cp := &CobraParser{
		cmd:         child,
		state:       g.parent.state,
		dests:       make(map[string]string),
		commandDest: g.dest,
	}
	child.RunE = g.parent.state.recordRunE(cp)
	g.parent.state.parsers[child] = cp
	g.parent.cmd.AddCommand(child)
	return cp, nil
}
