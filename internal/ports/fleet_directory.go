package ports

import (
	"context"
	"fleet-route-service/internal/domain"
)

// Read-only lookups of display fields used to shape route responses.
type FleetDirectory interface {
	DriverSummary(ctx context.Context, id string) (*domain.DriverSummary, error)
	VehicleSummary(ctx context.Context, id string) (*domain.VehicleSummary, error)
}
