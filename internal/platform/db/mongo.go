package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// ConnectMongo connects and pings the deployment at uri, using database dbName.
func ConnectMongo(ctx context.Context, uri, dbName string) (*MongoInstance, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
	if err := Ping(ctx, "mongo", ping); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("connect mongo: ping: %w", err)
	}

	log.Info().Str("database", dbName).Msg("Connected to MongoDB")

	return &MongoInstance{Client: client, Database: client.Database(dbName)}, nil
}

func (m *MongoInstance) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

func (m *MongoInstance) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
