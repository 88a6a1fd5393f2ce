package services

import (
	"fleet-route-service/internal/domain"
	"fmt"
	"strings"
	"time"
)

// StopInput describes a desired stop. ID is nil for new stops.
type StopInput struct {
	ID                 *string
	StopOrder          int
	Address            string
	Lat                *float64
	Lng                *float64
	EstimatedArrival   *time.Time
	EstimatedDeparture *time.Time
	Priority           string
	Notes              *string
	ContactName        *string
	ContactPhone       *string
}

type CreateRouteRequest struct {
	Name               string
	Description        *string
	VehicleID          string
	DriverID           string
	StartAddress       *string
	DestinationAddress *string
	StartTime          *time.Time
	Stops              []StopInput
}

// UpdateRouteRequest is a field-level patch: nil fields keep their stored value.
// A non-nil Stops (even empty) replaces the stop set through reconciliation.
type UpdateRouteRequest struct {
	Name               *string
	Description        *string
	VehicleID          *string
	DriverID           *string
	Status             *string
	StartAddress       *string
	DestinationAddress *string
	StartTime          *time.Time
	EndTime            *time.Time
	Stops              []StopInput
}

type UpdateStopStatusRequest struct {
	Status          string
	ActualArrival   *time.Time
	ActualDeparture *time.Time
	Notes           *string
}

func (r CreateRouteRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(r.VehicleID) == "" {
		return &domain.ValidationError{Field: "vehicleId", Reason: "is required"}
	}
	if strings.TrimSpace(r.DriverID) == "" {
		return &domain.ValidationError{Field: "driverId", Reason: "is required"}
	}
	if len(r.Stops) == 0 {
		return &domain.ValidationError{Field: "stops", Reason: "at least one stop is required"}
	}
	return validateStopInputs(r.Stops)
}

func validateStopInputs(stops []StopInput) error {
	for i, s := range stops {
		if strings.TrimSpace(s.Address) == "" {
			return &domain.ValidationError{Field: "stops", Reason: fmt.Sprintf("stop #%d has an empty address", i+1)}
		}
	}
	return nil
}
