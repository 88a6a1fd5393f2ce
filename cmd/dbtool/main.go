package main

import (
	"context"
	"database/sql"
	"fleet-route-service/internal/adapters/cache"
	"fleet-route-service/internal/adapters/repositories"
	"fleet-route-service/internal/config"
	"fleet-route-service/internal/platform/db"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/platform/queue"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

type fleetSeeder interface {
	SeedFleet(ctx context.Context, seed *repositories.FleetSeed) error
}

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	obs.SetupLogger(config.Get("LOG_FORMAT", ""), cfg.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	app := &cli.App{
		Name:  "dbtool",
		Usage: "prepare the route planning database",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create tables (sql) or indexes (mongo)",
				Action: func(c *cli.Context) error {
					return withBackend(c.Context, cfg, func(fleetSeeder) error { return nil })
				},
			},
			{
				Name:  "seed",
				Usage: "initialize, then upsert vehicles and drivers from a JSON or YAML fixture",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Value: cfg.SeedPath,
						Usage: "seed fixture (.json, .yaml, .yml)",
					},
				},
				Action: func(c *cli.Context) error {
					seed, err := repositories.LoadFleetSeed(c.String("path"))
					if err != nil {
						return err
					}

					return withBackend(c.Context, cfg, func(s fleetSeeder) error {
						log.Info().Int("vehicles", len(seed.Vehicles)).Int("drivers", len(seed.Drivers)).Msg("Seeding database...")
						if err := s.SeedFleet(c.Context, seed); err != nil {
							return fmt.Errorf("seeding failed: %w", err)
						}
						log.Info().Msg("Seeding complete.")
						return invalidateDirectoryCache(c.Context, cfg, seed)
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

// withBackend opens the configured store, prepares its schema and hands the fleet seeder to fn.
func withBackend(ctx context.Context, cfg config.Config, fn func(fleetSeeder) error) error {
	if cfg.StoreDriver == config.StoreMongo {
		mongo, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return err
		}
		defer mongo.Close(context.Background())

		log.Info().Msg("Creating indexes...")
		if err := repositories.NewMongoRouteStore(mongo.Database).EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("index creation failed: %w", err)
		}
		log.Info().Msg("Indexes ready.")

		return fn(repositories.NewMongoFleetStore(mongo.Database))
	}

	var (
		dialect = repositories.DialectSQLite
		conn    *sql.DB
		err     error
	)
	if cfg.StoreDriver == config.StorePostgres {
		dialect = repositories.DialectPostgres
		conn, err = db.OpenPostgres(ctx, cfg.DatabaseURL)
	} else {
		conn, err = db.OpenSQLite(ctx, cfg.DBPath)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info().Str("dialect", dialect.String()).Msg("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info().Msg("Schema ready.")

	return fn(repositories.NewSQLFleetStore(conn, dialect))
}

// invalidateDirectoryCache drops cached display fields for every seeded vehicle and driver
// so running servers pick up the new names and plates. Without Redis there is nothing to drop.
func invalidateDirectoryCache(ctx context.Context, cfg config.Config, seed *repositories.FleetSeed) error {
	if cfg.RedisAddress == "" {
		return nil
	}

	conn, err := queue.Connect(ctx, queue.RedisOptions{
		Address:  cfg.RedisAddress,
		Password: cfg.RedisPassword,
		Database: cfg.RedisDatabase,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	directory := cache.NewRedisDirectoryCache(conn.Client, nil, cfg.DirectoryCacheTTL)
	for _, v := range seed.Vehicles {
		if err := directory.Invalidate(ctx, v.ID, ""); err != nil {
			return fmt.Errorf("invalidate vehicle %q: %w", v.ID, err)
		}
	}
	for _, d := range seed.Drivers {
		if err := directory.Invalidate(ctx, "", d.ID); err != nil {
			return fmt.Errorf("invalidate driver %q: %w", d.ID, err)
		}
	}

	log.Info().Int("vehicles", len(seed.Vehicles)).Int("drivers", len(seed.Drivers)).Msg("Directory cache invalidated.")
	return nil
}
