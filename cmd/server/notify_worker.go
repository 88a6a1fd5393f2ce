package main

import (
	"errors"
	"fleet-route-service/internal/adapters/notify"
	"fleet-route-service/internal/config"
	"fleet-route-service/internal/platform/queue"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func notifyWorkerCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "notify-worker",
		Usage: "drain the notification queue and hand records to delivery",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "consumers",
				Value: 2,
				Usage: "number of batch consumers",
			},
		},
		Action: func(c *cli.Context) error {
			if cfg.RedisAddress == "" {
				return errors.New("notify-worker: REDIS_ADDRESS is required")
			}
			if c.Int("consumers") < 1 {
				return errors.New("notify-worker: consumers must be at least 1")
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			conn, err := queue.Connect(ctx, queue.RedisOptions{
				Address:  cfg.RedisAddress,
				Password: cfg.RedisPassword,
				Database: cfg.RedisDatabase,
			})
			if err != nil {
				return err
			}
			defer conn.Close()

			if _, err := notify.StartConsumers(conn.Queues, cfg.NotifyQueue, c.Int("consumers"), notify.LogDelivery); err != nil {
				return err
			}

			<-ctx.Done()
			log.Info().Msg("Stopping notification consumers")
			return nil
		},
	}
}
