package ports

import (
	"context"
	"fleet-route-service/internal/domain"
)

// Optional filters for listing routes. Nil fields do not filter.
type RouteFilter struct {
	VehicleID *string
	DriverID  *string
	Status    *domain.RouteStatus
}

// StopChanges is a reconciled batch of stop writes for one route.
// It is computed in memory before any write and applied atomically with the route row.
type StopChanges struct {
	Deleted  []string
	Updated  []*domain.RouteStop
	Inserted []*domain.RouteStop
}

func (c StopChanges) Empty() bool {
	return len(c.Deleted) == 0 && len(c.Updated) == 0 && len(c.Inserted) == 0
}

// Port: persistence boundary for routes and the stops they own.
type RouteStore interface {
	// Return routes matching the filter, newest first, stops included.
	ListRoutes(ctx context.Context, filter RouteFilter) ([]*domain.Route, error)
	// Return one route with its stops, or domain.ErrNotFound.
	GetRoute(ctx context.Context, id string) (*domain.Route, error)
	// Persist a new route and all of its stops as one unit.
	CreateRoute(ctx context.Context, route *domain.Route) error
	// Persist route fields and a batch of stop changes as one unit.
	SaveRoute(ctx context.Context, route *domain.Route, changes StopChanges) error
	// Remove a route and its stops. Reports whether anything was removed.
	DeleteRoute(ctx context.Context, id string) (bool, error)
	// Return one stop, or domain.ErrNotFound.
	GetStop(ctx context.Context, id string) (*domain.RouteStop, error)
	// Persist a single stop.
	SaveStop(ctx context.Context, stop *domain.RouteStop) error
}
