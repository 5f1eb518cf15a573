package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/singingsandhill/calendar/internal/app"
	"github.com/singingsandhill/calendar/internal/config"
	"github.com/singingsandhill/calendar/internal/logger"
	"github.com/singingsandhill/calendar/pkg/scheduleapi"
)

var (
	version = "dev"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.ShowVersion {
		fmt.Printf("calendar %s\n", version)
		os.Exit(0)
	}

	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))
	if cfg.Verbose {
		appLog.EnableRequestLogging()
	}

	client := scheduleapi.NewHTTPClient(cfg.ServerURL, appLog)

	// Colors only when stdout is a terminal
	colors := term.IsTerminal(int(os.Stdout.Fd()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(appLog, cfg, client, os.Stdout, colors)
	if err := a.Run(ctx, os.Stdin); err != nil {
		log.Fatal("Failed to load schedule: ", err)
	}
}
