// framekeeper decorates one top-level window on behalf of a host process that
// talks to it over stdin and stdout.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

// run always reports success; failures reach the host as error broadcasts.
func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	return 0
}
