package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingRetriesUntilReady(t *testing.T) {
	calls := 0
	err := Ping(context.Background(), "test", func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPingStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Ping(ctx, "test", func(context.Context) error {
		calls++
		return errors.New("connection refused")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestOpenSQLiteEnablesForeignKeys(t *testing.T) {
	conn, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	var enabled int
	require.NoError(t, conn.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}
