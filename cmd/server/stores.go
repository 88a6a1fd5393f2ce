package main

import (
	"context"
	"database/sql"
	"errors"
	"fleet-route-service/internal/adapters/repositories"
	"fleet-route-service/internal/config"
	"fleet-route-service/internal/platform/db"
	"fleet-route-service/internal/ports"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
)

type stores struct {
	Routes        ports.RouteStore
	Vehicles      ports.VehicleStore
	Directory     ports.FleetDirectory
	Notifications ports.NotificationStore

	close func()
}

func (s *stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// openStores connects the configured backend and returns its port implementations.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		mongo, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}

		routes := repositories.NewMongoRouteStore(mongo.Database)
		if err := routes.EnsureIndexes(ctx); err != nil {
			log.Error().Err(err).Msg("Creating route indexes")
		}
		fleet := repositories.NewMongoFleetStore(mongo.Database)

		return &stores{
			Routes:        routes,
			Vehicles:      fleet,
			Directory:     fleet,
			Notifications: repositories.NewMongoNotificationStore(mongo.Database),
			close:         func() { _ = mongo.Close(context.Background()) },
		}, nil

	case config.StorePostgres:
		conn, err := db.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return sqlStores(ctx, conn, repositories.DialectPostgres, "")

	default:
		conn, err := db.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		// Local sqlite runs initialize and seed on startup.
		return sqlStores(ctx, conn, repositories.DialectSQLite, cfg.SeedPath)
	}
}

func sqlStores(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, seedPath string) (*stores, error) {
	if err := initAndSeed(ctx, conn, dialect, seedPath); err != nil {
		conn.Close()
		return nil, err
	}

	fleet := repositories.NewSQLFleetStore(conn, dialect)
	return &stores{
		Routes:        repositories.NewSQLRouteStore(conn, dialect),
		Vehicles:      fleet,
		Directory:     fleet,
		Notifications: repositories.NewSQLNotificationStore(conn, dialect),
		close:         func() { conn.Close() },
	}, nil
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if seedPath == "" {
		return nil
	}
	if _, err := os.Stat(seedPath); errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("path", seedPath).Msg("No seed file, skipping fleet seed")
		return nil
	}

	seed, err := repositories.LoadFleetSeed(seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if err := repositories.NewSQLFleetStore(conn, dialect).SeedFleet(ctx, seed); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
