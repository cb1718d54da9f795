// Command anvaya is a terminal client for the Anvaya Club API.
//
// Public commands read wings, photos, activities and statistics. Admin
// commands need a session created with "anvaya login"; the token is kept in
// the session file (ANVAYA_SESSION_FILE) between runs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "anvaya: %v\n", err)
		return 1
	}
	return 0
}
