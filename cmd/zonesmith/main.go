package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/zonesmith/internal/cli"
	zerrors "github.com/matzehuels/zonesmith/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	// Log level and config are resolved in the root command's PersistentPreRunE.
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	return root.ExecuteContext(ctx)
}

// exitCode maps input errors to 2 and everything else to 1.
func exitCode(err error) int {
	switch zerrors.GetCode(err) {
	case zerrors.ErrCodeInvalidInput, zerrors.ErrCodeInvalidFormat, zerrors.ErrCodeInvalidPath, zerrors.ErrCodeInvalidName:
		return 2
	}
	return 1
}
