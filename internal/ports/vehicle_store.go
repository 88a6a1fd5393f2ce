package ports

import (
	"context"
	"fleet-route-service/internal/domain"
)

// Port: the part of the fleet's vehicle records route planning reads and writes.
type VehicleStore interface {
	// Return the vehicle, or domain.ErrNotFound.
	GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error)
	// Overwrite the vehicle status. Returns domain.ErrNotFound for unknown vehicles.
	UpdateVehicleStatus(ctx context.Context, id string, status domain.VehicleStatus) error
}
