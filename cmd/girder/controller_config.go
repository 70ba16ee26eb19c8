// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"io"

	"girder-cli/internal/config"
	"girder-cli/pkg/argparse"
	"girder-cli/pkg/controller"
)

// configController nests the configuration sub-commands under
// "girder config".
type configController struct {
	*controller.Base
	out io.Writer
}

func newConfigController(out io.Writer) *configController {
	c := &configController{out: out}
	c.Base = controller.NewBase(controller.Spec{
		Label:       "config",
		StackedOn:   "base",
		StackedType: controller.Nested,
		Title:       "configuration commands",
		Help:        "Inspect and manage the configuration",
		DefaultFunc: "show",
	})
	c.Expose(&controller.Command{
		FuncName: "show",
		Func:     c.show,
		ParserOptions: argparse.ParserOptions{
			Help: "Show the effective configuration",
		},
	})
	c.Expose(&controller.Command{
		FuncName: "init",
		Func:     c.initConfig,
		ParserOptions: argparse.ParserOptions{
			Help: "Write a default configuration file",
		},
	})
	return c
}

func (c *configController) show(ctx *controller.Context) error {
	cfg, err := resolveConfig(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, TitleStyle.Render("Configuration"))
	fmt.Fprintf(c.out, "  taskfile    %s\n", CmdStyle.Render(cfg.Taskfile))
	fmt.Fprintf(c.out, "  ui.verbose  %t\n", cfg.UI.Verbose)
	fmt.Fprintf(c.out, "  ui.color    %s\n", cfg.UI.Color)
	return nil
}

func (c *configController) initConfig(ctx *controller.Context) error {
	path, err := config.WriteDefault()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, SuccessStyle.Render("✓")+" wrote "+CmdStyle.Render(path))
	return nil
}
