package services

import (
	"context"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fmt"
)

// UpdateStopStatus sets a stop's status and the optional actual times and notes.
// Only the stop is written; the route and its vehicle are left untouched.
//
// With StrictStopTransitions any change the stop lifecycle does not allow is
// rejected with a *domain.TransitionError. Otherwise every known status is accepted.
func (p *RoutePlanner) UpdateStopStatus(
	ctx context.Context,
	stopID string,
	req UpdateStopStatusRequest,
) (_ *domain.RouteStop, err error) {
	defer obs.Time(ctx, "planner.UpdateStopStatus")(&err)

	next, err := domain.ParseStopStatus(req.Status)
	if err != nil {
		return nil, err
	}

	stop, err := p.Routes.GetStop(ctx, stopID)
	if err != nil {
		return nil, fmt.Errorf("update stop %q: %w", stopID, err)
	}

	if p.Options.StrictStopTransitions && !stop.Status.CanTransition(next) {
		return nil, &domain.TransitionError{From: stop.Status, To: next}
	}

	stop.Status = next
	if req.ActualArrival != nil {
		stop.ActualArrival = req.ActualArrival
	}
	if req.ActualDeparture != nil {
		stop.ActualDeparture = req.ActualDeparture
	}
	if req.Notes != nil {
		stop.Notes = req.Notes
	}

	if err := p.Routes.SaveStop(ctx, stop); err != nil {
		return nil, fmt.Errorf("update stop %q: %w", stopID, err)
	}

	return stop, nil
}
