// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	DuplicateControllerId Id = iota + 1
	UnknownStackingTargetId
	StackingCycleId
	ConflictingFlagId
	UnknownCommandId
	ConfigLoadFailedId
	TaskfileNotFoundId
	TaskNotFoundId
	ScriptSyntaxErrorId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // pointers into the girder docs
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	duplicateControllerIssue = &Issue{
		id: DuplicateControllerId,
		mdMsg: `
# Duplicate controller label!

Two controllers were registered under the same label. Labels double as
CLI sub-command tokens, so every controller needs its own.

## Things you can try:
- Rename one of the controllers in its spec
- Check you are not registering the same controller twice
- If you meant to extend an existing namespace, stack the second
  controller on the first instead:
~~~go
controller.Spec{
    Label:       "extras",
    StackedOn:   "tasks",
    StackedType: controller.Embedded,
}
~~~`,
	}

	unknownStackingTargetIssue = &Issue{
		id: UnknownStackingTargetId,
		mdMsg: `
# Unknown stacking target!

A controller declares 'StackedOn' with a label that no registered
controller carries. Resolution never silently drops a controller, so
this stops the application at startup.

## Things you can try:
- Check the spelling of the StackedOn label
- Make sure the parent controller is registered with the same App
- If the controller should sit at the top level, stack it on the root
  controller's label`,
	}

	stackingCycleIssue = &Issue{
		id: StackingCycleId,
		mdMsg: `
# Controller stacking cycle!

The StackedOn relationships of your controllers form a loop, so there
is no valid resolution order.

## Example of a cycle:
~~~go
controller.Spec{Label: "a", StackedOn: "b"}
controller.Spec{Label: "b", StackedOn: "a"} // a -> b -> a
~~~

## Things you can try:
- Every chain of StackedOn labels must end at the root controller
- Break the loop by stacking one of the controllers on the root`,
	}

	conflictingFlagIssue = &Issue{
		id: ConflictingFlagId,
		mdMsg: `
# Conflicting argument flags!

Two argument declarations resolved to the same flag on one parser
namespace. This usually happens when an embedded controller re-declares
a flag its parent already carries.

## Things you can try:
- Rename one of the flags, or move it onto a command instead of the
  controller
- Remember that embedded controllers share their parent's parser; only
  nested controllers get a namespace of their own`,
	}

	unknownCommandIssue = &Issue{
		id: UnknownCommandId,
		mdMsg: `
# Command not found!

The sub-command you typed does not match any controller or exposed
command.

## Things you can try:
- Run with --help to list the available commands
- Check for typos; aliases are listed next to each command`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the girder configuration file.

## Configuration file locations:
- Linux: ~/.config/girder/config.toml
- macOS: ~/Library/Application Support/girder/config.toml
- Windows: %APPDATA%\girder\config.toml

## Things you can try:
- Check the TOML syntax
- Remove the config file to fall back to defaults

## Example configuration:
~~~toml
taskfile = "girder.toml"

[ui]
verbose = false
color = "auto"
~~~`,
	}

	taskfileNotFoundIssue = &Issue{
		id: TaskfileNotFoundId,
		mdMsg: `
# No task file found!

We searched for a girder.toml task file but couldn't find one.

## Things you can try:
- Create a girder.toml in your project directory:
~~~toml
[[task]]
name = "build"
description = "Build the project"
script = "go build ./..."
~~~

- Or point the 'taskfile' config key at one elsewhere`,
	}

	taskNotFoundIssue = &Issue{
		id: TaskNotFoundId,
		mdMsg: `
# Task not found!

The task you named is not defined in the task file.

## Things you can try:
- List the defined tasks:
~~~
$ girder tasks list
~~~
- Check for typos in the task name`,
	}

	scriptSyntaxErrorIssue = &Issue{
		id: ScriptSyntaxErrorId,
		mdMsg: `
# Task script failed to parse!

The task's script is not valid shell syntax for the built-in
interpreter.

## Things you can try:
- Check the error message for the offending line
- Quote strings containing special characters
- Test the snippet in a POSIX shell first`,
	}

	issues = map[Id]*Issue{
		duplicateControllerIssue.Id():   duplicateControllerIssue,
		unknownStackingTargetIssue.Id(): unknownStackingTargetIssue,
		stackingCycleIssue.Id():         stackingCycleIssue,
		conflictingFlagIssue.Id():       conflictingFlagIssue,
		unknownCommandIssue.Id():        unknownCommandIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		taskfileNotFoundIssue.Id():      taskfileNotFoundIssue,
		taskNotFoundIssue.Id():          taskNotFoundIssue,
		scriptSyntaxErrorIssue.Id():     scriptSyntaxErrorIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
