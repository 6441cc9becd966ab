// Command khobor-topics loads topic reports from the fact-check articles
// backend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/khobor-topics/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.NewRootCommand(cli.Options{}).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
