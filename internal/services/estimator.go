package services

import (
	"context"
	"fleet-route-service/internal/ports"
	"fmt"
	"math"
	"strings"
)

const (
	citySpeedKmh        = 25.0
	highwaySpeedKmh     = 60.0
	highwayThresholdKm  = 50.0
	dwellMinutesPerStop = 15
)

// RouteEstimate is the heuristic distance and time for a location sequence.
type RouteEstimate struct {
	DistanceKm      float64
	DurationMinutes int
}

// Estimator turns an ordered address sequence into distance and travel time.
//
// Each leg picks a speed tier from its distance, converts to whole minutes,
// inflates by a distance-keyed traffic buffer and rounds up again. Every leg
// except the last also pays a fixed dwell at the stop it ends on.
// The result depends only on the addresses and the distance provider.
type Estimator struct {
	distances ports.DistanceProvider
}

func NewEstimator(distances ports.DistanceProvider) *Estimator {
	return &Estimator{distances: distances}
}

// Estimate covers start (optional) + stops + end (optional).
// A failed leg lookup fails the whole estimate.
func (e *Estimator) Estimate(
	ctx context.Context,
	startAddress *string,
	stopAddresses []string,
	endAddress *string,
) (RouteEstimate, error) {
	locations := RouteLocations(startAddress, stopAddresses, endAddress)
	if len(locations) < 2 {
		return RouteEstimate{}, nil
	}

	totalKm := 0.0
	totalMinutes := 0
	lastLeg := len(locations) - 2

	for i := 0; i <= lastLeg; i++ {
		km, err := e.distances.LegDistanceKm(ctx, locations[i], locations[i+1])
		if err != nil {
			return RouteEstimate{}, fmt.Errorf("estimate: leg %q -> %q: %w", locations[i], locations[i+1], err)
		}
		if km < 0 {
			km = 0
		}

		totalKm += km
		totalMinutes += LegTravelMinutes(km)

		// The final leg ends at the destination, not at a stop.
		if i < lastLeg {
			totalMinutes += dwellMinutesPerStop
		}
	}

	return RouteEstimate{
		DistanceKm:      roundTo(totalKm, 1),
		DurationMinutes: totalMinutes,
	}, nil
}

// RouteLocations builds the ordered location list, skipping blank start/end addresses.
func RouteLocations(startAddress *string, stopAddresses []string, endAddress *string) []string {
	locations := make([]string, 0, len(stopAddresses)+2)
	if startAddress != nil && strings.TrimSpace(*startAddress) != "" {
		locations = append(locations, *startAddress)
	}
	locations = append(locations, stopAddresses...)
	if endAddress != nil && strings.TrimSpace(*endAddress) != "" {
		locations = append(locations, *endAddress)
	}
	return locations
}

// LegSpeedKmh returns the average speed tier for a leg.
func LegSpeedKmh(km float64) float64 {
	if km > highwayThresholdKm {
		return highwaySpeedKmh
	}
	return citySpeedKmh
}

// TrafficBuffer returns the travel time multiplier for a leg; shorter legs are inflated more.
func TrafficBuffer(km float64) float64 {
	return float64(trafficBufferPercent(km)) / 100
}

func trafficBufferPercent(km float64) int {
	switch {
	case km < 10:
		return 125
	case km < 30:
		return 120
	case km < 60:
		return 115
	default:
		return 110
	}
}

// LegTravelMinutes excludes dwell time.
func LegTravelMinutes(km float64) int {
	raw := int(math.Ceil(km * 60 / LegSpeedKmh(km)))
	pct := trafficBufferPercent(km)
	// Integer ceiling keeps the buffered minutes exact.
	return (raw*pct + 99) / 100
}

// FuelEstimateLiters scales distance by a consumption rate, rounded to 2 decimals.
func FuelEstimateLiters(distanceKm float64, litersPer100Km float64) float64 {
	return roundTo(distanceKm*litersPer100Km/100, 2)
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
