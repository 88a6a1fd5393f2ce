package services

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultFuelLitersPer100Km = 12.0

// PlannerOptions switch behaviors the fleet has not settled on.
// The zero value keeps the historical behavior.
type PlannerOptions struct {
	// Reject stop status changes the lifecycle does not allow.
	StrictStopTransitions bool
	// Recompute distance, duration and fuel after priority reordering.
	ReestimateOnOptimize bool
	// Overwrite coordinates and estimated times on matched stops during update.
	RefreshStopDetailsOnUpdate bool
	// Fuel consumption used for the fuel estimate; 0 means the default of 12.
	FuelLitersPer100Km float64
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// RoutePlanner creates and mutates routes and keeps vehicles and drivers in step.
//
// Every operation runs to completion within the caller's request. Store writes for one
// route happen in a single call so a failed save leaves nothing half applied. Concurrent
// updates to the same route are not serialized; the last save wins.
//
// Vehicle status sync runs after the route is saved. A vehicle store failure is returned
// to the caller, but the route change it follows is already committed; retrying the
// same update is safe.
type RoutePlanner struct {
	Routes    ports.RouteStore
	Vehicles  ports.VehicleStore
	Notifier  ports.NotificationSink
	Estimator *Estimator
	Clock     ports.Clock
	NewID     func() string
	Options   PlannerOptions
}

func NewRoutePlanner(
	routes ports.RouteStore,
	vehicles ports.VehicleStore,
	notifier ports.NotificationSink,
	estimator *Estimator,
	opts PlannerOptions,
) *RoutePlanner {
	return &RoutePlanner{
		Routes:    routes,
		Vehicles:  vehicles,
		Notifier:  notifier,
		Estimator: estimator,
		Clock:     systemClock{},
		NewID:     uuid.NewString,
		Options:   opts,
	}
}

func (p *RoutePlanner) now() time.Time {
	if p.Clock == nil {
		return time.Now().UTC()
	}
	return p.Clock.Now()
}

func (p *RoutePlanner) newID() string {
	if p.NewID == nil {
		return uuid.NewString()
	}
	return p.NewID()
}

func (p *RoutePlanner) ListRoutes(ctx context.Context) ([]*domain.Route, error) {
	return p.listRoutes(ctx, ports.RouteFilter{})
}

func (p *RoutePlanner) ListRoutesByVehicle(ctx context.Context, vehicleID string) ([]*domain.Route, error) {
	return p.listRoutes(ctx, ports.RouteFilter{VehicleID: &vehicleID})
}

func (p *RoutePlanner) ListRoutesByDriver(ctx context.Context, driverID string) ([]*domain.Route, error) {
	return p.listRoutes(ctx, ports.RouteFilter{DriverID: &driverID})
}

func (p *RoutePlanner) ListRoutesByStatus(ctx context.Context, status string) ([]*domain.Route, error) {
	st, err := domain.ParseRouteStatus(status)
	if err != nil {
		return nil, err
	}
	return p.listRoutes(ctx, ports.RouteFilter{Status: &st})
}

func (p *RoutePlanner) listRoutes(ctx context.Context, filter ports.RouteFilter) ([]*domain.Route, error) {
	routes, err := p.Routes.ListRoutes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

// GetRoute returns domain.ErrNotFound for unknown ids.
func (p *RoutePlanner) GetRoute(ctx context.Context, id string) (*domain.Route, error) {
	route, err := p.Routes.GetRoute(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get route %q: %w", id, err)
	}
	return route, nil
}

// CreateRoute validates the request, estimates the route and persists it with its stops.
// A driver assignment notification is emitted once the route is stored.
func (p *RoutePlanner) CreateRoute(
	ctx context.Context,
	req CreateRouteRequest,
	actingUserID string,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "planner.CreateRoute")(&err)

	if err := req.validate(); err != nil {
		return nil, err
	}

	routeID := p.newID()
	stops := make([]*domain.RouteStop, 0, len(req.Stops))
	for _, in := range req.Stops {
		priority, err := domain.ParseStopPriority(in.Priority)
		if err != nil {
			return nil, err
		}
		stops = append(stops, newStop(routeID, p.newID(), in, priority))
	}

	route := &domain.Route{
		ID:           routeID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		VehicleID:    strings.TrimSpace(req.VehicleID),
		DriverID:     strings.TrimSpace(req.DriverID),
		Status:       domain.RouteStatusPlanned,
		StartAddress: req.StartAddress,
		EndAddress:   req.DestinationAddress,
		StartTime:    req.StartTime,
		CreatedAt:    p.now(),
		CreatedBy:    actingUserID,
		Stops:        domain.SortedStops(stops),
	}
	if err := p.applyEstimate(ctx, route); err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}

	if err := p.Routes.CreateRoute(ctx, route); err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}

	if route.DriverID != "" && route.VehicleID != "" {
		p.notifyAssignment(ctx, route)
	}

	return route, nil
}

// UpdateRoute applies a field-level patch and, when a stop list is supplied,
// reconciles the stop set. Estimates are recomputed only when the supplied list
// has stops; an empty list removes every stop and keeps the prior estimates.
func (p *RoutePlanner) UpdateRoute(
	ctx context.Context,
	id string,
	req UpdateRouteRequest,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "planner.UpdateRoute")(&err)

	current, err := p.Routes.GetRoute(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update route %q: %w", id, err)
	}

	route := current.Clone()
	previousDriverID := route.DriverID

	if err := applyRoutePatch(route, req); err != nil {
		return nil, err
	}

	var changes ports.StopChanges
	if req.Stops != nil {
		changes, err = ReconcileStops(route, req.Stops, p.newID, p.Options.RefreshStopDetailsOnUpdate)
		if err != nil {
			return nil, err
		}
	}
	if len(req.Stops) > 0 {
		if err := p.applyEstimate(ctx, route); err != nil {
			return nil, fmt.Errorf("update route %q: %w", id, err)
		}
	}

	if req.EndTime != nil && route.StartTime != nil {
		if route.EndTime.Before(*route.StartTime) {
			return nil, &domain.ValidationError{Field: "endTime", Reason: "is before startTime"}
		}
		minutes := int(route.EndTime.Sub(*route.StartTime).Minutes())
		route.ActualDurationMinutes = &minutes
	}

	if err := p.Routes.SaveRoute(ctx, route, changes); err != nil {
		return nil, fmt.Errorf("update route %q: %w", id, err)
	}

	if err := p.syncVehicle(ctx, route); err != nil {
		return nil, fmt.Errorf("update route %q: sync vehicle: %w", id, err)
	}

	if route.DriverID != previousDriverID && route.DriverID != "" && route.VehicleID != "" {
		p.notifyAssignment(ctx, route)
	}

	return route, nil
}

// DeleteRoute removes the route and its stops. It reports false when nothing matched.
func (p *RoutePlanner) DeleteRoute(ctx context.Context, id string) (_ bool, err error) {
	defer obs.Time(ctx, "planner.DeleteRoute")(&err)

	deleted, err := p.Routes.DeleteRoute(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete route %q: %w", id, err)
	}
	return deleted, nil
}

// OptimizeRoute reorders stops by priority tier and renumbers them.
// Estimates are left as they were unless ReestimateOnOptimize is set.
func (p *RoutePlanner) OptimizeRoute(ctx context.Context, id string) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "planner.OptimizeRoute")(&err)

	current, err := p.Routes.GetRoute(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("optimize route %q: %w", id, err)
	}

	route := current.Clone()
	route.Stops = OrderByPriority(route.Stops)

	if p.Options.ReestimateOnOptimize {
		if err := p.applyEstimate(ctx, route); err != nil {
			return nil, fmt.Errorf("optimize route %q: %w", id, err)
		}
	}

	changes := ports.StopChanges{Updated: route.Stops}
	if err := p.Routes.SaveRoute(ctx, route, changes); err != nil {
		return nil, fmt.Errorf("optimize route %q: %w", id, err)
	}

	return route, nil
}

func applyRoutePatch(route *domain.Route, req UpdateRouteRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return &domain.ValidationError{Field: "name", Reason: "must not be empty"}
		}
		route.Name = name
	}
	if req.Description != nil {
		route.Description = req.Description
	}
	if req.VehicleID != nil {
		route.VehicleID = strings.TrimSpace(*req.VehicleID)
	}
	if req.DriverID != nil {
		route.DriverID = strings.TrimSpace(*req.DriverID)
	}
	if req.Status != nil {
		st, err := domain.ParseRouteStatus(*req.Status)
		if err != nil {
			return err
		}
		route.Status = st
	}
	if req.StartAddress != nil {
		route.StartAddress = req.StartAddress
	}
	if req.DestinationAddress != nil {
		route.EndAddress = req.DestinationAddress
	}
	if req.StartTime != nil {
		route.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		route.EndTime = req.EndTime
	}
	return nil
}

// applyEstimate refreshes distance, duration, fuel and the map link from the current locations.
func (p *RoutePlanner) applyEstimate(ctx context.Context, route *domain.Route) error {
	stops := route.StopAddresses()
	est, err := p.Estimator.Estimate(ctx, route.StartAddress, stops, route.EndAddress)
	if err != nil {
		return err
	}

	rate := p.Options.FuelLitersPer100Km
	if rate <= 0 {
		rate = defaultFuelLitersPer100Km
	}

	route.TotalDistanceKm = est.DistanceKm
	route.EstimatedDurationMinutes = est.DurationMinutes
	route.FuelEstimateLiters = FuelEstimateLiters(est.DistanceKm, rate)
	route.ExternalMapLink = DirectionsLink(RouteLocations(route.StartAddress, stops, route.EndAddress))
	return nil
}

// syncVehicle mirrors the route status onto its vehicle. Unknown vehicles are skipped.
func (p *RoutePlanner) syncVehicle(ctx context.Context, route *domain.Route) error {
	status, ok := domain.SyncedVehicleStatus(route.Status)
	if !ok || route.VehicleID == "" || p.Vehicles == nil {
		return nil
	}

	err := p.Vehicles.UpdateVehicleStatus(ctx, route.VehicleID, status)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn().
			Str("route", route.ID).
			Str("vehicle", route.VehicleID).
			Msg("Vehicle for route not found, status not synced")
		return nil
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("route", route.ID).
		Str("vehicle", route.VehicleID).
		Str("status", string(status)).
		Msg("Synced vehicle status")
	return nil
}

// notifyAssignment hands a trip assignment to the notification sink.
// Failures are logged; delivery is not part of the route operation.
func (p *RoutePlanner) notifyAssignment(ctx context.Context, route *domain.Route) {
	if p.Notifier == nil {
		return
	}

	vehicleLabel := route.VehicleID
	if p.Vehicles != nil {
		if v, err := p.Vehicles.GetVehicle(ctx, route.VehicleID); err == nil && v.LicensePlate != "" {
			vehicleLabel = v.LicensePlate
		}
	}

	n := AssignmentNotification(route, vehicleLabel, p.newID(), p.now())
	if err := p.Notifier.Send(ctx, n); err != nil {
		log.Error().
			Err(err).
			Str("route", route.ID).
			Str("driver", route.DriverID).
			Msg("Failed to send trip assignment notification")
		return
	}

	log.Info().
		Str("route", route.ID).
		Str("driver", route.DriverID).
		Msg("Sent trip assignment notification")
}

// AssignmentNotification builds the trip assignment record for a route's driver.
func AssignmentNotification(route *domain.Route, vehicleLabel string, id string, now time.Time) domain.Notification {
	message := fmt.Sprintf("You have been assigned to route %q with vehicle %s.", route.Name, vehicleLabel)
	if route.StartTime != nil {
		message += fmt.Sprintf(" Scheduled start: %s.", route.StartTime.Format("2006-01-02 15:04"))
	}

	return domain.Notification{
		ID:                id,
		UserID:            route.DriverID,
		Title:             "New Trip Assignment",
		Message:           message,
		Category:          domain.NotificationCategoryTripAssignment,
		RelatedEntityType: domain.NotificationEntityRoute,
		RelatedEntityID:   route.ID,
		SendEmail:         true,
		SendSms:           false,
		CreatedAt:         now,
	}
}
