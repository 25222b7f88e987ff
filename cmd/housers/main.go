package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/housersapp/housers/internal/buildinfo"
	"github.com/housersapp/housers/internal/cli"
	"github.com/housersapp/housers/internal/config"
	"github.com/housersapp/housers/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	noColor := !term.IsTerminal(int(os.Stderr.Fd()))
	log := logging.New(os.Stderr, logging.Format(cfg.LogFormat), logging.ParseLevel(cfg.LogLevel), noColor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Error(ctx, "exited with error", "error", err)
	}
}
