package domain

import (
	"fmt"
	"strings"
	"time"
)

type RouteStatus string

const (
	RouteStatusPlanned    RouteStatus = "Planned"
	RouteStatusInProgress RouteStatus = "InProgress"
	RouteStatusCompleted  RouteStatus = "Completed"
	RouteStatusCancelled  RouteStatus = "Cancelled"
)

var routeStatuses = []RouteStatus{
	RouteStatusPlanned,
	RouteStatusInProgress,
	RouteStatusCompleted,
	RouteStatusCancelled,
}

// ParseRouteStatus matches case-insensitively against the known route statuses.
func ParseRouteStatus(s string) (RouteStatus, error) {
	for _, st := range routeStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown route status %q", s)}
}

// Represents a planned, ordered sequence of stops assigned to a vehicle/driver pair.
//
// Distance, duration and fuel are the estimates for the location sequence
// (StartAddress, Stops by StopOrder, EndAddress) at the moment they were last
// recomputed. Reordering alone does not refresh them.
type Route struct {
	ID                       string
	Name                     string
	Description              *string
	VehicleID                string
	DriverID                 string
	Status                   RouteStatus
	StartAddress             *string
	EndAddress               *string
	TotalDistanceKm          float64
	EstimatedDurationMinutes int
	FuelEstimateLiters       float64
	StartTime                *time.Time
	EndTime                  *time.Time
	ActualDurationMinutes    *int
	CreatedAt                time.Time
	CreatedBy                string
	ExternalMapLink          *string
	Stops                    []*RouteStop
}

// StopAddresses returns stop addresses in visiting order.
func (r *Route) StopAddresses() []string {
	out := make([]string, 0, len(r.Stops))
	for _, s := range SortedStops(r.Stops) {
		out = append(out, s.Address)
	}
	return out
}

// FindStop returns the stop with the given id, or nil.
func (r *Route) FindStop(id string) *RouteStop {
	for _, s := range r.Stops {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Clone returns a deep copy so callers can mutate a route without touching the original.
func (r *Route) Clone() *Route {
	if r == nil {
		return nil
	}
	c := *r
	c.Stops = make([]*RouteStop, 0, len(r.Stops))
	for _, s := range r.Stops {
		sc := *s
		c.Stops = append(c.Stops, &sc)
	}
	return &c
}
