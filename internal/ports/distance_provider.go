package ports

import "context"

// Contract for estimating the road distance of a single leg between two addresses.
type DistanceProvider interface {
	// Return the leg distance in kilometres.
	LegDistanceKm(ctx context.Context, origin string, destination string) (float64, error)
}
