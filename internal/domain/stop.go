package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type StopPriority string

const (
	StopPriorityLow      StopPriority = "Low"
	StopPriorityNormal   StopPriority = "Normal"
	StopPriorityHigh     StopPriority = "High"
	StopPriorityCritical StopPriority = "Critical"
)

var stopPriorities = []StopPriority{
	StopPriorityLow,
	StopPriorityNormal,
	StopPriorityHigh,
	StopPriorityCritical,
}

// ParseStopPriority returns Normal for an empty value.
func ParseStopPriority(s string) (StopPriority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StopPriorityNormal, nil
	}
	for _, p := range stopPriorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown stop priority %q", s)}
}

type StopStatus string

const (
	StopStatusPending   StopStatus = "Pending"
	StopStatusInTransit StopStatus = "InTransit"
	StopStatusArrived   StopStatus = "Arrived"
	StopStatusCompleted StopStatus = "Completed"
	StopStatusSkipped   StopStatus = "Skipped"
	StopStatusFailed    StopStatus = "Failed"
)

var stopStatuses = []StopStatus{
	StopStatusPending,
	StopStatusInTransit,
	StopStatusArrived,
	StopStatusCompleted,
	StopStatusSkipped,
	StopStatusFailed,
}

func ParseStopStatus(s string) (StopStatus, error) {
	for _, st := range stopStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown stop status %q", s)}
}

// Forward edges of the stop lifecycle. Completed, Skipped and Failed are terminal.
var stopTransitions = map[StopStatus][]StopStatus{
	StopStatusPending:   {StopStatusInTransit, StopStatusArrived, StopStatusSkipped, StopStatusFailed},
	StopStatusInTransit: {StopStatusArrived, StopStatusSkipped, StopStatusFailed},
	StopStatusArrived:   {StopStatusCompleted, StopStatusFailed},
}

// CanTransition reports whether the lifecycle allows moving from one status to another.
// Re-applying the current status is always allowed.
func (s StopStatus) CanTransition(to StopStatus) bool {
	if s == to {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	return slices.Contains(stopTransitions[s], to)
}

// IsTerminal reports whether no further status change is allowed.
// Unknown statuses count as terminal.
func (s StopStatus) IsTerminal() bool {
	return len(stopTransitions[s]) == 0
}

// Represents a waypoint on a route.
// A RouteStop refers to its route only by RouteID; the Route owns the stop slice.
type RouteStop struct {
	ID                 string
	RouteID            string
	StopOrder          int
	Address            string
	Lat                *float64
	Lng                *float64
	EstimatedArrival   *time.Time
	ActualArrival      *time.Time
	EstimatedDeparture *time.Time
	ActualDeparture    *time.Time
	Priority           StopPriority
	Status             StopStatus
	Notes              *string
	ContactName        *string
	ContactPhone       *string
}

// SortedStops returns a copy of stops ordered by StopOrder; ties keep input order.
func SortedStops(stops []*RouteStop) []*RouteStop {
	out := slices.Clone(stops)
	slices.SortStableFunc(out, func(a, b *RouteStop) int {
		return a.StopOrder - b.StopOrder
	})
	return out
}
