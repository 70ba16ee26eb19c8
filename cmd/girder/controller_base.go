// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"io"

	"girder-cli/internal/issue"
	"girder-cli/pkg/argparse"
	"girder-cli/pkg/controller"
)

// baseController is the root of the controller graph: it owns the
// global flags and the bare-invocation overview.
type baseController struct {
	*controller.Base
	out     io.Writer
	version string
}

func newBaseController(out io.Writer, version string) *baseController {
	c := &baseController{out: out, version: version}
	c.Base = controller.NewBase(controller.Spec{
		Label: "base",
		Arguments: []argparse.Argument{
			{Flags: []string{"-v", "--verbose"}, Kind: argparse.KindBool, Help: "enable verbose output"},
			{Flags: []string{"--config"}, Help: "config file (default is the platform config directory)"},
			{Flags: []string{"--taskfile"}, Help: "task file (default from config, then girder.toml)"},
			{Flags: []string{"--color"}, Default: "auto", Help: `terminal color handling: "auto", "always" or "never"`},
		},
	})
	c.Expose(&controller.Command{FuncName: "default", Hide: true, Func: c.overview})
	c.Expose(&controller.Command{
		FuncName: "version",
		Func:     c.showVersion,
		ParserOptions: argparse.ParserOptions{
			Help: "Print the girder version",
		},
	})
	return c
}

// overview runs on a bare "girder" invocation.
func (c *baseController) overview(ctx *controller.Context) error {
	fmt.Fprintln(c.out, TitleStyle.Render("girder")+SubtitleStyle.Render(" - A TOML-driven task runner"))
	fmt.Fprintln(c.out)

	cfg, f, err := loadTaskfile(ctx)
	if err != nil {
		fmt.Fprintln(c.out, renderIssueCard(issue.TaskfileNotFoundId))
		return nil
	}

	fmt.Fprintf(c.out, "%d task(s) in %s\n", len(f.Tasks), CmdStyle.Render(cfg.Taskfile))
	fmt.Fprintln(c.out, SubtitleStyle.Render("Run \"girder tasks\" to list them."))
	return nil
}

func (c *baseController) showVersion(ctx *controller.Context) error {
	fmt.Fprintf(c.out, "%s %s\n", ctx.App.Name(), c.version)
	return nil
}
