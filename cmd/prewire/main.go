// Command prewire provisions pre-commit hooks: it installs the
// hook-runner tool, activates hooks across repositories, and can watch a
// workspace for newly initialized repositories.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prewire/prewire/internal/cli"
	"github.com/prewire/prewire/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps the result to a process exit
// code. Split from main so it is testable.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	if err := root.ExecuteContext(ctx); err != nil {
		// Cobra already printed the error.
		return 1
	}
	return 0
}
