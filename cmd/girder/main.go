// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"girder-cli/internal/issue"
	"girder-cli/pkg/errs"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches one invocation and maps the outcome to an exit code:
// 0 on success, the ExitError code for failed tasks, 2 for usage
// errors, 1 for everything else.
func run(argv []string) int {
	a := buildApp(getVersionString(), os.Stdout, true)

	err := a.Run(argv)
	if closeErr := a.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		return 0
	}

	verbose := a.Pargs() != nil && a.Pargs().GetBool("verbose")
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var usageErr *errs.UsageError
	if errors.As(err, &usageErr) {
		return 2
	}
	return 1
}

// formatErrorForDisplay formats an error for user display. An
// ActionableError renders with its suggestions; in verbose mode the
// full error chain is shown.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
