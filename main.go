// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
tagtr extracts the translatable messages of templ components into gettext
catalogs, compiles translated catalogs to JSON and serves them over HTTP.
*/
package main

import (
	"context"
	"fmt"
	"os"

	"codeberg.org/tagtr/tagtr/cli"
	"codeberg.org/tagtr/tagtr/core/audit"
)

// main is the entry point of the application.
func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit status.
func run(args []string) int {
	audit.SetDefaultLogger(os.Stderr)

	cmd, err := cli.Execute(context.Background(), args)
	if err == nil {
		return 0
	}

	errOut := cmd.ErrOrStderr()

	fmt.Fprintf(errOut, "ERROR: %s\n", err)

	if cli.IsErrorWithUsage(err) {
		fmt.Fprintln(errOut)
		fmt.Fprint(errOut, cmd.UsageString())
	}

	return 1
}
