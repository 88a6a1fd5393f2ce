package services

import (
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"fmt"
	"strings"
)

// ReconcileStops computes the writes that turn the route's stop set into incoming.
//
//   - existing stops whose id is absent from incoming are deleted
//   - incoming stops with an existing id are updated in place
//   - incoming stops without an id are inserted as Pending
//
// Matched stops take order, address, priority, notes and contact fields from the
// input. Coordinates and estimated times are only refreshed when refreshDetails is set.
// The route's Stops slice is replaced with the reconciled set ordered by StopOrder.
// Nothing is written; any invalid input is reported before the route is touched.
func ReconcileStops(
	route *domain.Route,
	incoming []StopInput,
	newID func() string,
	refreshDetails bool,
) (ports.StopChanges, error) {
	if err := validateStopInputs(incoming); err != nil {
		return ports.StopChanges{}, err
	}

	priorities := make([]domain.StopPriority, len(incoming))
	keep := make(map[string]struct{}, len(incoming))
	for i, in := range incoming {
		p, err := domain.ParseStopPriority(in.Priority)
		if err != nil {
			return ports.StopChanges{}, err
		}
		priorities[i] = p

		if in.ID == nil {
			continue
		}
		id := *in.ID
		if route.FindStop(id) == nil {
			return ports.StopChanges{}, &domain.ValidationError{
				Field:  "stops",
				Reason: fmt.Sprintf("stop %q does not belong to route %q", id, route.ID),
			}
		}
		if _, dup := keep[id]; dup {
			return ports.StopChanges{}, &domain.ValidationError{
				Field:  "stops",
				Reason: fmt.Sprintf("stop %q appears more than once", id),
			}
		}
		keep[id] = struct{}{}
	}

	var changes ports.StopChanges
	for _, s := range route.Stops {
		if _, ok := keep[s.ID]; !ok {
			changes.Deleted = append(changes.Deleted, s.ID)
		}
	}

	next := make([]*domain.RouteStop, 0, len(incoming))
	for i, in := range incoming {
		if in.ID != nil {
			stop := route.FindStop(*in.ID)
			stop.StopOrder = in.StopOrder
			stop.Address = strings.TrimSpace(in.Address)
			stop.Priority = priorities[i]
			stop.Notes = in.Notes
			stop.ContactName = in.ContactName
			stop.ContactPhone = in.ContactPhone
			if refreshDetails {
				stop.Lat = in.Lat
				stop.Lng = in.Lng
				stop.EstimatedArrival = in.EstimatedArrival
				stop.EstimatedDeparture = in.EstimatedDeparture
			}

			changes.Updated = append(changes.Updated, stop)
			next = append(next, stop)
			continue
		}

		stop := newStop(route.ID, newID(), in, priorities[i])
		changes.Inserted = append(changes.Inserted, stop)
		next = append(next, stop)
	}

	route.Stops = domain.SortedStops(next)
	return changes, nil
}

func newStop(routeID, id string, in StopInput, priority domain.StopPriority) *domain.RouteStop {
	return &domain.RouteStop{
		ID:                 id,
		RouteID:            routeID,
		StopOrder:          in.StopOrder,
		Address:            strings.TrimSpace(in.Address),
		Lat:                in.Lat,
		Lng:                in.Lng,
		EstimatedArrival:   in.EstimatedArrival,
		EstimatedDeparture: in.EstimatedDeparture,
		Priority:           priority,
		Status:             domain.StopStatusPending,
		Notes:              in.Notes,
		ContactName:        in.ContactName,
		ContactPhone:       in.ContactPhone,
	}
}
