package queue

import (
	"context"
	"fleet-route-service/internal/platform/db"
	"fmt"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const connectionTag = "fleet-route-service"

type RedisOptions struct {
	Address  string
	Password string
	Database int
}

// Connection bundles the redis client with the rmq connection opened on top of it.
type Connection struct {
	Client *redis.Client
	Queues rmq.Connection
}

// Connect opens a redis client, waits for it to answer and opens an rmq connection on it.
func Connect(ctx context.Context, opts RedisOptions) (*Connection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.Database,
	})

	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := db.Ping(ctx, "redis", ping); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %q: %w", opts.Address, err)
	}

	queues, err := rmq.OpenConnectionWithRedisClient(connectionTag, client, nil)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %q: open queue connection: %w", opts.Address, err)
	}

	log.Info().Str("address", opts.Address).Msg("Connected to Redis")

	return &Connection{Client: client, Queues: queues}, nil
}

func (c *Connection) Close() error {
	<-c.Queues.StopAllConsuming()
	return c.Client.Close()
}
