package main

import (
	"context"
	"fleet-route-service/internal/adapters/cache"
	"fleet-route-service/internal/adapters/distance"
	"fleet-route-service/internal/adapters/notify"
	"fleet-route-service/internal/api"
	"fleet-route-service/internal/config"
	"fleet-route-service/internal/platform/queue"
	"fleet-route-service/internal/ports"
	"fleet-route-service/internal/services"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func serveCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the route planning HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Value: ":" + cfg.Port,
				Usage: "listen target for the web server",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, c.String("listen"))
		},
	}
}

func serve(ctx context.Context, cfg config.Config, listen string) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var directory ports.FleetDirectory = st.Directory
	var notifier ports.NotificationSink = &notify.LogNotifier{Store: st.Notifications}

	if cfg.RedisAddress != "" {
		conn, err := queue.Connect(ctx, queue.RedisOptions{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			Database: cfg.RedisDatabase,
		})
		if err != nil {
			return err
		}
		defer conn.Close()

		notifyQueue, err := conn.Queues.OpenQueue(cfg.NotifyQueue)
		if err != nil {
			return err
		}

		notifier = notify.NewQueueNotifier(st.Notifications, notifyQueue)
		directory = cache.NewRedisDirectoryCache(conn.Client, st.Directory, cfg.DirectoryCacheTTL)
	} else {
		log.Info().Msg("REDIS_ADDRESS not set, notifications are recorded without a delivery queue")
	}

	planner := services.NewRoutePlanner(
		st.Routes,
		st.Vehicles,
		notifier,
		services.NewEstimator(distance.NewHeuristicDistanceProvider()),
		services.PlannerOptions{
			StrictStopTransitions:      cfg.StrictStopTransitions,
			ReestimateOnOptimize:       cfg.ReestimateOnOptimize,
			RefreshStopDetailsOnUpdate: cfg.RefreshStopDetailsOnUpdate,
			FuelLitersPer100Km:         cfg.FuelLitersPer100Km,
		},
	)

	app := api.NewRouter(planner, directory)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", listen).Str("store", cfg.StoreDriver).Msg("Server listening")
		errCh <- app.Listen(listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.ShutdownWithContext(shutdownCtx)
}
