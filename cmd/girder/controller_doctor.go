// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"girder-cli/internal/config"
	"girder-cli/pkg/argparse"
	"girder-cli/pkg/controller"
)

// doctorController embeds into the base controller, so "girder doctor"
// lives at the top level without a new sub-command level.
type doctorController struct {
	*controller.Base
	out io.Writer
}

func newDoctorController(out io.Writer) *doctorController {
	c := &doctorController{out: out}
	c.Base = controller.NewBase(controller.Spec{
		Label:       "doctor",
		StackedOn:   "base",
		StackedType: controller.Embedded,
	})
	c.Expose(&controller.Command{
		FuncName: "doctor",
		Func:     c.doctor,
		ParserOptions: argparse.ParserOptions{
			Help: "Check the girder environment",
		},
	})
	return c
}

func (c *doctorController) doctor(ctx *controller.Context) error {
	fmt.Fprintln(c.out, TitleStyle.Render("Environment"))

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "  config dir   %s\n", cfgDir)

	cfg, err := resolveConfig(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "  config       %s %v\n", ErrorStyle.Render("✗"), err)
		return nil
	}
	fmt.Fprintf(c.out, "  config       %s\n", SuccessStyle.Render("✓"))

	if _, err := os.Stat(cfg.Taskfile); err != nil {
		fmt.Fprintf(c.out, "  taskfile     %s %s not found\n", WarningStyle.Render("!"), cfg.Taskfile)
		return nil
	}
	fmt.Fprintf(c.out, "  taskfile     %s %s\n", SuccessStyle.Render("✓"), cfg.Taskfile)
	return nil
}
