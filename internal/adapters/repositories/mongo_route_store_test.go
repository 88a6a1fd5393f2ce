package repositories

import (
	"context"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const routesNamespace = "fleet.routes"

func TestMongoRouteStoreGetStop(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("projects the matching stop", func(mt *mtest.T) {
		store := NewMongoRouteStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, routesNamespace, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "R1"},
			{Key: "stops", Value: bson.A{bson.D{
				{Key: "_id", Value: "s2"},
				{Key: "routeid", Value: "R1"},
				{Key: "stoporder", Value: 2},
				{Key: "address", Value: "B"},
				{Key: "priority", Value: "High"},
				{Key: "status", Value: "Arrived"},
			}}},
		}))

		stop, err := store.GetStop(context.Background(), "s2")
		require.NoError(t, err)
		assert.Equal(t, "s2", stop.ID)
		assert.Equal(t, "R1", stop.RouteID)
		assert.Equal(t, 2, stop.StopOrder)
		assert.Equal(t, domain.StopPriorityHigh, stop.Priority)
		assert.Equal(t, domain.StopStatusArrived, stop.Status)

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "find", started.CommandName)
		assert.Contains(t, started.Command.String(), `"stops.$"`)
	})

	mt.Run("unknown stop", func(mt *mtest.T) {
		store := NewMongoRouteStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, routesNamespace, mtest.FirstBatch))

		_, err := store.GetStop(context.Background(), "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	mt.Run("server error", func(mt *mtest.T) {
		store := NewMongoRouteStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "bad projection",
		}))

		_, err := store.GetStop(context.Background(), "s2")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "get stop")
	})
}

func TestMongoRouteStoreSaveStop(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	stop := &domain.RouteStop{
		ID:        "s2",
		RouteID:   "R1",
		StopOrder: 2,
		Address:   "B",
		Priority:  domain.StopPriorityHigh,
		Status:    domain.StopStatusCompleted,
	}

	mt.Run("positional update", func(mt *mtest.T) {
		store := NewMongoRouteStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		require.NoError(t, store.SaveStop(context.Background(), stop))

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "update", started.CommandName)
		cmd := started.Command.String()
		assert.Contains(t, cmd, `"stops._id": "s2"`)
		assert.Contains(t, cmd, `"stops.$"`)
		assert.Contains(t, cmd, `"Completed"`)
	})

	mt.Run("no matching route", func(mt *mtest.T) {
		store := NewMongoRouteStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		assert.ErrorIs(t, store.SaveStop(context.Background(), stop), domain.ErrNotFound)
	})

	mt.Run("write error", func(mt *mtest.T) {
		store := NewMongoRouteStore(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key",
		}))

		err := store.SaveStop(context.Background(), stop)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save stop: id=s2")
	})
}

func TestMongoRouteStoreNotFoundMapping(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get route", func(mt *mtest.T) {
		store := NewMongoRouteStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, routesNamespace, mtest.FirstBatch))

		_, err := store.GetRoute(context.Background(), "R404")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	mt.Run("save route", func(mt *mtest.T) {
		store := NewMongoRouteStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := store.SaveRoute(context.Background(), &domain.Route{ID: "R404"}, ports.StopChanges{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	mt.Run("delete route", func(mt *mtest.T) {
		store := NewMongoRouteStore(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		deleted, err := store.DeleteRoute(context.Background(), "R1")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = store.DeleteRoute(context.Background(), "R1")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	mt.Run("vehicle status", func(mt *mtest.T) {
		fleet := NewMongoFleetStore(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, "fleet.vehicles", mtest.FirstBatch),
		)

		err := fleet.UpdateVehicleStatus(context.Background(), "VEH-404", domain.VehicleStatusInRoute)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = fleet.GetVehicle(context.Background(), "VEH-404")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
