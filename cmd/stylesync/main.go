// cmd/stylesync/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/salonkit/stylesync/internal/cli"
)

func main() {
	// Cancel the context on interrupt so in-flight browser operations can
	// tear their sessions down instead of orphaning browser processes. A
	// second interrupt kills the process the usual way.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute CLI (app initialization happens inside cli.Execute)
	cli.Execute(ctx)
}
