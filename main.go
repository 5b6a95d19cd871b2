package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/harrisonrobin/dayline/pkg/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCmd()
	rootCmd.Version = version
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		cli.PrintError(err)
		os.Exit(1)
	}
}
