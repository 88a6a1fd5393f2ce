package services

import (
	"context"
	"fleet-route-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeRoutes(t *testing.T) {
	dir := &memDirectory{
		drivers: map[string]*domain.DriverSummary{
			"D1": {ID: "D1", Name: "Dana Ortiz"},
		},
		vehicles: map[string]*domain.VehicleSummary{
			"VEH-1": {ID: "VEH-1", LicensePlate: "ABC-123", Make: "Ford", Model: "Transit"},
		},
	}
	routes := []*domain.Route{
		{ID: "R1", VehicleID: "VEH-1", DriverID: "D1"},
		{ID: "R2", VehicleID: "VEH-404", DriverID: "D1"},
		{ID: "R3"},
	}

	got, err := DescribeRoutes(context.Background(), dir, routes)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "R1", got[0].Route.ID)
	require.NotNil(t, got[0].Vehicle)
	assert.Equal(t, "ABC-123", got[0].Vehicle.LicensePlate)
	require.NotNil(t, got[0].Driver)
	assert.Equal(t, "Dana Ortiz", got[0].Driver.Name)

	assert.Nil(t, got[1].Vehicle)
	assert.NotNil(t, got[1].Driver)

	assert.Nil(t, got[2].Vehicle)
	assert.Nil(t, got[2].Driver)
}

func TestDescribeRoutesPropagatesDirectoryErrors(t *testing.T) {
	dir := &memDirectory{err: errStoreDown}

	_, err := DescribeRoutes(context.Background(), dir, []*domain.Route{{ID: "R1", VehicleID: "V"}})
	assert.ErrorIs(t, err, errStoreDown)
}

func TestOrderByPriorityTiers(t *testing.T) {
	stops := []*domain.RouteStop{
		{ID: "crit", StopOrder: 1, Priority: domain.StopPriorityCritical},
		{ID: "low", StopOrder: 2, Priority: domain.StopPriorityLow},
		{ID: "norm", StopOrder: 3, Priority: domain.StopPriorityNormal},
		{ID: "high", StopOrder: 4, Priority: domain.StopPriorityHigh},
	}

	got := OrderByPriority(stops)

	assert.Equal(t, []string{"high", "norm", "crit", "low"}, stopIDs(got))
	assert.Equal(t, []int{1, 2, 3, 4}, []int{got[0].StopOrder, got[1].StopOrder, got[2].StopOrder, got[3].StopOrder})
}

func TestReconcileStopsRejectsDuplicateIDs(t *testing.T) {
	route := &domain.Route{
		ID:    "R1",
		Stops: []*domain.RouteStop{{ID: "s1", RouteID: "R1", StopOrder: 1, Address: "A"}},
	}

	_, err := ReconcileStops(route, []StopInput{
		{ID: strPtr("s1"), StopOrder: 1, Address: "A"},
		{ID: strPtr("s1"), StopOrder: 2, Address: "A again"},
	}, sequentialIDs("n"), false)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "A", route.Stops[0].Address)
}

func TestReconcileStopsEmptyListRemovesEverything(t *testing.T) {
	route := &domain.Route{
		ID: "R1",
		Stops: []*domain.RouteStop{
			{ID: "s1", RouteID: "R1", StopOrder: 1, Address: "A"},
			{ID: "s2", RouteID: "R1", StopOrder: 2, Address: "B"},
		},
	}

	changes, err := ReconcileStops(route, []StopInput{}, sequentialIDs("n"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, changes.Deleted)
	assert.Empty(t, route.Stops)
}

func TestAssignmentNotificationIncludesStartTime(t *testing.T) {
	start := testNow.Add(time.Hour)
	route := &domain.Route{ID: "R1", Name: "Morning", DriverID: "D1", StartTime: &start}

	n := AssignmentNotification(route, "ABC-123", "n-1", testNow)

	assert.Equal(t, "New Trip Assignment", n.Title)
	assert.Contains(t, n.Message, `"Morning"`)
	assert.Contains(t, n.Message, "2026-03-02 08:30")
	assert.Equal(t, testNow, n.CreatedAt)
}
