// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"girder-cli/internal/issue"
	"girder-cli/internal/taskfile"
	"girder-cli/pkg/argparse"
	"girder-cli/pkg/controller"
)

// tasksController nests the task sub-commands under "girder tasks".
// Its default function is list, so a bare "girder tasks" lists tasks.
type tasksController struct {
	*controller.Base
	out io.Writer
}

func newTasksController(out io.Writer) *tasksController {
	c := &tasksController{out: out}
	c.Base = controller.NewBase(controller.Spec{
		Label:       "tasks",
		Aliases:     []string{"t"},
		StackedOn:   "base",
		StackedType: controller.Nested,
		Title:       "task commands",
		Help:        "List, inspect and run tasks",
		Description: "Work with the tasks declared in the task file.",
		DefaultFunc: "list",
	})
	c.Expose(&controller.Command{
		FuncName: "list",
		Func:     c.list,
		ParserOptions: argparse.ParserOptions{
			Aliases: []string{"ls"},
			Help:    "List the available tasks",
		},
	})
	c.Expose(&controller.Command{
		FuncName: "run",
		Func:     c.run,
		Arguments: []argparse.Argument{
			{Flags: []string{"--dry-run"}, Kind: argparse.KindBool, Help: "print the script instead of running it"},
		},
		ParserOptions: argparse.ParserOptions{
			Help:  "Run a task",
			Usage: "run <task> [args...]",
		},
	})
	c.Expose(&controller.Command{
		FuncName: "show",
		Func:     c.show,
		ParserOptions: argparse.ParserOptions{
			Help:  "Show a task's script",
			Usage: "show <task>",
		},
	})
	return c
}

func (c *tasksController) list(ctx *controller.Context) error {
	cfg, f, err := loadTaskfile(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, TitleStyle.Render("Tasks")+SubtitleStyle.Render(" ("+cfg.Taskfile+")"))
	if len(f.Tasks) == 0 {
		fmt.Fprintln(c.out, SubtitleStyle.Render("  (none)"))
		return nil
	}
	for _, t := range f.Tasks {
		if t.Description != "" {
			fmt.Fprintf(c.out, "  %s  %s\n", CmdStyle.Render(t.Name), SubtitleStyle.Render(t.Description))
			continue
		}
		fmt.Fprintf(c.out, "  %s\n", CmdStyle.Render(t.Name))
	}
	return nil
}

func (c *tasksController) run(ctx *controller.Context) error {
	args := ctx.Args.Positionals()
	if len(args) == 0 {
		return issue.NewErrorContext().
			WithOperation("run task").
			WithSuggestion("Name the task to run: girder tasks run <task>").
			WithSuggestion("Run \"girder tasks\" to list the available tasks").
			Wrap(fmt.Errorf("no task specified")).
			Build()
	}
	name, rest := args[0], args[1:]

	cfg, f, err := loadTaskfile(ctx)
	if err != nil {
		return err
	}
	task, err := f.Get(name)
	if err != nil {
		fmt.Fprintln(c.out, renderIssueCard(issue.TaskNotFoundId))
		return err
	}

	if ctx.Args.GetBool("dry-run") {
		fmt.Fprintln(c.out, SubtitleStyle.Render("# "+task.Name+" (dry run)"))
		fmt.Fprintln(c.out, task.Script)
		return nil
	}
	if cfg.UI.Verbose {
		fmt.Fprintln(c.out, SubtitleStyle.Render("running task "+task.Name))
	}

	runner := taskfile.NewRunner(
		taskfile.WithDir(filepath.Dir(f.Path)),
		taskfile.WithEnv("GIRDER_TASK="+task.Name),
		taskfile.WithStdIO(nil, c.out, c.out),
	)
	code, err := runner.Run(context.Background(), task, rest)
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{
			Code: code,
			Err:  fmt.Errorf("task %q exited with status %d", task.Name, code),
		}
	}
	return nil
}

func (c *tasksController) show(ctx *controller.Context) error {
	args := ctx.Args.Positionals()
	if len(args) == 0 {
		return issue.NewErrorContext().
			WithOperation("show task").
			WithSuggestion("Name the task to show: girder tasks show <task>").
			Wrap(fmt.Errorf("no task specified")).
			Build()
	}

	_, f, err := loadTaskfile(ctx)
	if err != nil {
		return err
	}
	task, err := f.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, TitleStyle.Render(task.Name))
	if task.Description != "" {
		fmt.Fprintln(c.out, SubtitleStyle.Render(task.Description))
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, task.Script)
	return nil
}
