package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dbauto/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := cmd.Execute(ctx)
	cancel()
	if err != nil {
		// %+v includes the stack trace when the error carries one.
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
