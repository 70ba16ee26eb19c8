// SPDX-License-Identifier: MPL-2.0

package argparse

import (
	"bytes"
	"strings"
	"testing"
)

// buildTree assembles root -> tasks (nested) -> run (marked command)
// the way the dispatch assembler does.
func buildTree(t *testing.T) (*CobraParser, any) {
	t.Helper()

	root := NewCobraParser("prog")
	rootGroup, err := root.AddSubparsers(GroupOptions{Title: "sub-commands", Dest: "command"})
	if err != nil {
		t.Fatal(err)
	}

	tasks, err := rootGroup.AddParser("tasks", ParserOptions{Help: "task operations"})
	if err != nil {
		t.Fatal(err)
	}
	tasksGroup, err := tasks.AddSubparsers(GroupOptions{Title: "sub-commands", Dest: "command"})
	if err != nil {
		t.Fatal(err)
	}

	run, err := tasksGroup.AddParser("run", ParserOptions{Help: "run a task"})
	if err != nil {
		t.Fatal(err)
	}
	if err := run.AddArgument(Argument{Flags: []string{"-n", "--dry-run"}, Kind: KindBool, Help: "print without executing"}); err != nil {
		t.Fatal(err)
	}
	if err := run.AddArgument(Argument{Flags: []string{"--jobs"}, Kind: KindInt, Default: "1"}); err != nil {
		t.Fatal(err)
	}

	payload := "run-command-payload"
	run.Mark(payload)
	return root, payload
}

func TestParse_BareRoot(t *testing.T) {
	root, _ := buildTree(t)

	ns, err := root.Parse(nil)
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	if ns.Command != "" {
		t.Errorf("Command = %q, want empty", ns.Command)
	}
	if ns.Marker() != nil {
		t.Errorf("Marker() = %v, want nil", ns.Marker())
	}
}

func TestParse_BareController(t *testing.T) {
	root, _ := buildTree(t)

	ns, err := root.Parse([]string{"tasks"})
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	if ns.Command != "tasks" {
		t.Errorf("Command = %q, want %q", ns.Command, "tasks")
	}
	if ns.Marker() != nil {
		t.Errorf("Marker() = %v, want nil", ns.Marker())
	}
}

func TestParse_MarkedCommand(t *testing.T) {
	root, payload := buildTree(t)

	ns, err := root.Parse([]string{"tasks", "run", "build", "--dry-run", "--jobs", "4"})
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	if ns.Command != "run" {
		t.Errorf("Command = %q, want %q", ns.Command, "run")
	}
	if ns.Marker() != payload {
		t.Errorf("Marker() = %v, want %v", ns.Marker(), payload)
	}
	if got := ns.Positionals(); len(got) != 1 || got[0] != "build" {
		t.Errorf("Positionals() = %v, want [build]", got)
	}
	if !ns.GetBool("dry-run") {
		t.Error("GetBool(dry-run) = false, want true")
	}
	if got := ns.GetInt("jobs"); got != 4 {
		t.Errorf("GetInt(jobs) = %d, want 4", got)
	}
	if !ns.Changed("dry-run") {
		t.Error("Changed(dry-run) = false, want true")
	}
}

func TestParse_DefaultFlagValues(t *testing.T) {
	root, _ := buildTree(t)

	ns, err := root.Parse([]string{"tasks", "run"})
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	if got := ns.GetInt("jobs"); got != 1 {
		t.Errorf("GetInt(jobs) = %d, want default 1", got)
	}
	if ns.Changed("jobs") {
		t.Error("Changed(jobs) = true for defaulted flag")
	}
}

func TestParse_UnknownCommand(t *testing.T) {
	root, _ := buildTree(t)

	if _, err := root.Parse([]string{"bogus"}); err == nil {
		t.Error("Parse() with unknown root sub-command succeeded")
	}

	root2, _ := buildTree(t)
	if _, err := root2.Parse([]string{"tasks", "bogus"}); err == nil {
		t.Error("Parse() with unknown nested sub-command succeeded")
	}
}

func TestParse_MalformedFlag(t *testing.T) {
	root, _ := buildTree(t)

	if _, err := root.Parse([]string{"tasks", "run", "--no-such-flag"}); err == nil {
		t.Error("Parse() with undeclared flag succeeded")
	}
}

func TestParse_HelpRequested(t *testing.T) {
	root, _ := buildTree(t)
	var out bytes.Buffer
	root.Command().SetOut(&out)

	ns, err := root.Parse([]string{"--help"})
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	if !ns.HelpRequested() {
		t.Error("HelpRequested() = false after --help")
	}
}

func TestAddArgument_DuplicateFlag(t *testing.T) {
	root := NewCobraParser("prog")

	if err := root.AddArgument(Argument{Flags: []string{"-f", "--foo"}}); err != nil {
		t.Fatalf("first AddArgument() returned error: %v", err)
	}
	if err := root.AddArgument(Argument{Flags: []string{"--foo"}}); err == nil {
		t.Error("duplicate AddArgument() succeeded, want error")
	}
	if err := root.AddArgument(Argument{Flags: []string{"-f", "--fresh"}}); err == nil {
		t.Error("conflicting shorthand AddArgument() succeeded, want error")
	}
}

func TestAddArgument_DestPerParser(t *testing.T) {
	root := NewCobraParser("prog")
	group, err := root.AddSubparsers(GroupOptions{Title: "sub-commands", Dest: "command"})
	if err != nil {
		t.Fatal(err)
	}

	build, err := group.AddParser("build", ParserOptions{})
	if err != nil {
		t.Fatal(err)
	}
	build.Mark("build-payload")
	if err := build.AddArgument(Argument{Flags: []string{"--target"}, Dest: "buildTarget"}); err != nil {
		t.Fatal(err)
	}

	deploy, err := group.AddParser("deploy", ParserOptions{})
	if err != nil {
		t.Fatal(err)
	}
	deploy.Mark("deploy-payload")
	if err := deploy.AddArgument(Argument{Flags: []string{"--target"}, Dest: "deployTarget"}); err != nil {
		t.Fatal(err)
	}

	// build declared its dest first; a tree-wide mapping would let
	// deploy's later declaration win for both parsers.
	ns, err := root.Parse([]string{"build", "--target", "linux"})
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	if got, ok := ns.GetString("buildTarget"); !ok || got != "linux" {
		t.Errorf("GetString(buildTarget) = %q, %t, want %q under build's own dest", got, ok, "linux")
	}
	if got, ok := ns.GetString("deployTarget"); ok {
		t.Errorf("GetString(deployTarget) = %q, want the sibling's dest untouched", got)
	}
}

func TestParse_RecordsGroupDest(t *testing.T) {
	root, _ := buildTree(t)

	ns, err := root.Parse([]string{"tasks"})
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	if got, ok := ns.GetString("command"); !ok || got != "tasks" {
		t.Errorf("GetString(command) = %q, %t, want %q", got, ok, "tasks")
	}

	root2, _ := buildTree(t)
	ns, err = root2.Parse([]string{"tasks", "run"})
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	if got, ok := ns.GetString("command"); !ok || got != "run" {
		t.Errorf("GetString(command) = %q, %t, want the deepest selection %q", got, ok, "run")
	}
}

func TestAddArgument_RequiresLongFlag(t *testing.T) {
	root := NewCobraParser("prog")

	if err := root.AddArgument(Argument{Flags: []string{"-f"}}); err == nil {
		t.Error("AddArgument() with only a shorthand succeeded, want error")
	}
}

func TestAddParser_Hidden(t *testing.T) {
	root := NewCobraParser("prog")
	group, err := root.AddSubparsers(GroupOptions{Title: "sub-commands", Dest: "command"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := group.AddParser("visible", ParserOptions{Help: "you can see me"}); err != nil {
		t.Fatal(err)
	}
	if _, err := group.AddParser("covert", ParserOptions{Hidden: true}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	root.Command().SetOut(&out)
	if _, err := root.Parse([]string{"--help"}); err != nil {
		t.Fatal(err)
	}

	help := out.String()
	if !strings.Contains(help, "visible") {
		t.Errorf("help output omits %q:\n%s", "visible", help)
	}
	if strings.Contains(help, "covert") {
		t.Errorf("help output lists hidden command %q:\n%s", "covert", help)
	}
}

func TestAddParser_Aliases(t *testing.T) {
	root := NewCobraParser("prog")
	group, err := root.AddSubparsers(GroupOptions{Title: "sub-commands", Dest: "command"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := group.AddParser("tasks", ParserOptions{Aliases: []string{"t", "task"}}); err != nil {
		t.Fatal(err)
	}

	ns, err := root.Parse([]string{"t"})
	if err != nil {
		t.Fatalf("Parse() via alias returned error: %v", err)
	}
	if ns.Command != "tasks" {
		t.Errorf("Command = %q, want canonical label %q", ns.Command, "tasks")
	}
}
