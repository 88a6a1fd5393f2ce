package main

import (
	"fleet-route-service/internal/config"
	"fleet-route-service/internal/platform/obs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// main is the application composition root.
// Commands wire concrete adapters (SQL or Mongo stores, Redis queue and cache) behind ports.
func main() {
	loadedDotEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		obs.SetupLogger(os.Getenv("LOG_FORMAT"), false)
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	obs.SetupLogger(cfg.LogFormat, cfg.Debug)

	if !loadedDotEnv {
		log.Debug().Msg("No .env file found (using environment variables)")
	}

	app := &cli.App{
		Name:        "fleet-route-service",
		Description: "Route planning and estimation for the fleet",

		Commands: []*cli.Command{
			serveCommand(cfg),
			notifyWorkerCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}
