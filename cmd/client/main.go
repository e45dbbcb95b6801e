package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/payshield/payshield-cli/internal/client/cli"
	"github.com/payshield/payshield-cli/internal/client/config"
	"github.com/payshield/payshield-cli/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewDefault(os.Stderr, slog.LevelWarn)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
