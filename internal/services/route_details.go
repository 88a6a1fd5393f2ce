package services

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"fmt"

	"github.com/sourcegraph/conc/pool"
)

const detailLookupConcurrency = 8

// RouteDetails pairs a route with the display fields of its vehicle and driver.
// Either summary is nil when the directory does not know the id.
type RouteDetails struct {
	Route   *domain.Route
	Vehicle *domain.VehicleSummary
	Driver  *domain.DriverSummary
}

// DescribeRoutes looks up vehicle and driver summaries for each route concurrently.
// The result keeps the order of routes.
func DescribeRoutes(
	ctx context.Context,
	dir ports.FleetDirectory,
	routes []*domain.Route,
) ([]RouteDetails, error) {
	out := make([]RouteDetails, len(routes))
	for i, r := range routes {
		out[i].Route = r
	}
	if dir == nil || len(routes) == 0 {
		return out, nil
	}

	p := pool.New().
		WithErrors().
		WithContext(ctx).
		WithMaxGoroutines(detailLookupConcurrency)

	for i := range out {
		d := &out[i]

		p.Go(func(ctx context.Context) error {
			if d.Route.VehicleID == "" {
				return nil
			}
			v, err := dir.VehicleSummary(ctx, d.Route.VehicleID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("describe route %q: vehicle %q: %w", d.Route.ID, d.Route.VehicleID, err)
			}
			d.Vehicle = v
			return nil
		})

		p.Go(func(ctx context.Context) error {
			if d.Route.DriverID == "" {
				return nil
			}
			drv, err := dir.DriverSummary(ctx, d.Route.DriverID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("describe route %q: driver %q: %w", d.Route.ID, d.Route.DriverID, err)
			}
			d.Driver = drv
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
