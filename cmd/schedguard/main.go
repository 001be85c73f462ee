package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"schedguard/internal/cli"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cli.NewRootCmd(version).ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	code := cli.ExitCode(err)
	cancel()
	os.Exit(code)
}
