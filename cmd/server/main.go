// Command server runs the eventdesk HTTP API.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/louisbranch/eventdesk/internal/cmd/events"
	"github.com/louisbranch/eventdesk/internal/platform/config"
)

func main() {
	log.SetPrefix("[EVENTS] ")
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs := flag.NewFlagSet("server", flag.ExitOnError)
	cfg, err := events.ParseConfig(fs, os.Args[1:])
	if err != nil {
		config.Exitf("parse config: %v", err)
	}

	if err := events.Run(ctx, cfg); err != nil {
		config.Exitf("run events server: %v", err)
	}
}
