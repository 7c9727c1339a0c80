package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/chzeraa/painel-bemaxx/internal/app"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command := flag.Arg(0)
	switch command {
	case "", "server":
		if err := app.RunServer(ctx, *configPath); err != nil {
			log.Errorf("server: %v", err)
			os.Exit(1)
		}
	case "migrate":
		if err := app.Migrate(ctx, *configPath); err != nil {
			log.Errorf("migrate: %v", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want server or migrate)\n", command)
		os.Exit(2)
	}
}
