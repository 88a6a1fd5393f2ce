package dto

import (
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/services"
	"time"
)

// Response groups selected with ?view=.
const (
	GroupSummary = "summary"
	GroupDetail  = "detail"
)

type StopRequest struct {
	ID                 *string    `json:"id"`
	StopOrder          int        `json:"stop_order"`
	Address            string     `json:"address"`
	Lat                *float64   `json:"lat"`
	Lng                *float64   `json:"lng"`
	EstimatedArrival   *time.Time `json:"estimated_arrival"`
	EstimatedDeparture *time.Time `json:"estimated_departure"`
	Priority           string     `json:"priority"`
	Notes              *string    `json:"notes"`
	ContactName        *string    `json:"contact_name"`
	ContactPhone       *string    `json:"contact_phone"`
}

type CreateRouteRequest struct {
	Name               string        `json:"name"`
	Description        *string       `json:"description"`
	VehicleID          string        `json:"vehicle_id"`
	DriverID           string        `json:"driver_id"`
	StartAddress       *string       `json:"start_address"`
	DestinationAddress *string       `json:"destination_address"`
	StartTime          *time.Time    `json:"start_time"`
	Stops              []StopRequest `json:"stops"`
}

// UpdateRouteRequest mirrors services.UpdateRouteRequest: omitted fields are left alone.
type UpdateRouteRequest struct {
	Name               *string       `json:"name"`
	Description        *string       `json:"description"`
	VehicleID          *string       `json:"vehicle_id"`
	DriverID           *string       `json:"driver_id"`
	Status             *string       `json:"status"`
	StartAddress       *string       `json:"start_address"`
	DestinationAddress *string       `json:"destination_address"`
	StartTime          *time.Time    `json:"start_time"`
	EndTime            *time.Time    `json:"end_time"`
	Stops              []StopRequest `json:"stops"`
}

type UpdateStopStatusRequest struct {
	Status          string     `json:"status"`
	ActualArrival   *time.Time `json:"actual_arrival"`
	ActualDeparture *time.Time `json:"actual_departure"`
	Notes           *string    `json:"notes"`
}

type StopResponse struct {
	ID                 string     `json:"id" groups:"summary,detail"`
	RouteID            string     `json:"route_id" groups:"detail"`
	StopOrder          int        `json:"stop_order" groups:"summary,detail"`
	Address            string     `json:"address" groups:"summary,detail"`
	Lat                *float64   `json:"lat" groups:"detail"`
	Lng                *float64   `json:"lng" groups:"detail"`
	EstimatedArrival   *time.Time `json:"estimated_arrival" groups:"detail"`
	ActualArrival      *time.Time `json:"actual_arrival" groups:"detail"`
	EstimatedDeparture *time.Time `json:"estimated_departure" groups:"detail"`
	ActualDeparture    *time.Time `json:"actual_departure" groups:"detail"`
	Priority           string     `json:"priority" groups:"summary,detail"`
	Status             string     `json:"status" groups:"summary,detail"`
	Notes              *string    `json:"notes" groups:"detail"`
	ContactName        *string    `json:"contact_name" groups:"detail"`
	ContactPhone       *string    `json:"contact_phone" groups:"detail"`
}

type VehicleResponse struct {
	ID           string `json:"id" groups:"summary,detail"`
	LicensePlate string `json:"license_plate" groups:"summary,detail"`
	Make         string `json:"make" groups:"detail"`
	Model        string `json:"model" groups:"detail"`
}

type DriverResponse struct {
	ID   string `json:"id" groups:"summary,detail"`
	Name string `json:"name" groups:"summary,detail"`
}

type RouteResponse struct {
	ID                       string           `json:"id" groups:"summary,detail"`
	Name                     string           `json:"name" groups:"summary,detail"`
	Description              *string          `json:"description" groups:"detail"`
	VehicleID                string           `json:"vehicle_id" groups:"summary,detail"`
	DriverID                 string           `json:"driver_id" groups:"summary,detail"`
	Vehicle                  *VehicleResponse `json:"vehicle" groups:"detail"`
	Driver                   *DriverResponse  `json:"driver" groups:"detail"`
	Status                   string           `json:"status" groups:"summary,detail"`
	StartAddress             *string          `json:"start_address" groups:"detail"`
	EndAddress               *string          `json:"end_address" groups:"detail"`
	TotalDistanceKm          float64          `json:"total_distance_km" groups:"summary,detail"`
	EstimatedDurationMinutes int              `json:"estimated_duration_minutes" groups:"summary,detail"`
	FuelEstimateLiters       float64          `json:"fuel_estimate_liters" groups:"summary,detail"`
	StartTime                *time.Time       `json:"start_time" groups:"summary,detail"`
	EndTime                  *time.Time       `json:"end_time" groups:"detail"`
	ActualDurationMinutes    *int             `json:"actual_duration_minutes" groups:"detail"`
	CreatedAt                time.Time        `json:"created_at" groups:"detail"`
	CreatedBy                string           `json:"created_by" groups:"detail"`
	ExternalMapLink          *string          `json:"external_map_link" groups:"detail"`
	StopCount                int              `json:"stop_count" groups:"summary,detail"`
	Stops                    []StopResponse   `json:"stops" groups:"detail"`
}

func NewStopResponse(s *domain.RouteStop) StopResponse {
	return StopResponse{
		ID:                 s.ID,
		RouteID:            s.RouteID,
		StopOrder:          s.StopOrder,
		Address:            s.Address,
		Lat:                s.Lat,
		Lng:                s.Lng,
		EstimatedArrival:   s.EstimatedArrival,
		ActualArrival:      s.ActualArrival,
		EstimatedDeparture: s.EstimatedDeparture,
		ActualDeparture:    s.ActualDeparture,
		Priority:           string(s.Priority),
		Status:             string(s.Status),
		Notes:              s.Notes,
		ContactName:        s.ContactName,
		ContactPhone:       s.ContactPhone,
	}
}

func NewRouteResponse(d services.RouteDetails) RouteResponse {
	r := d.Route
	res := RouteResponse{
		ID:                       r.ID,
		Name:                     r.Name,
		Description:              r.Description,
		VehicleID:                r.VehicleID,
		DriverID:                 r.DriverID,
		Status:                   string(r.Status),
		StartAddress:             r.StartAddress,
		EndAddress:               r.EndAddress,
		TotalDistanceKm:          r.TotalDistanceKm,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		FuelEstimateLiters:       r.FuelEstimateLiters,
		StartTime:                r.StartTime,
		EndTime:                  r.EndTime,
		ActualDurationMinutes:    r.ActualDurationMinutes,
		CreatedAt:                r.CreatedAt,
		CreatedBy:                r.CreatedBy,
		ExternalMapLink:          r.ExternalMapLink,
		StopCount:                len(r.Stops),
		Stops:                    make([]StopResponse, 0, len(r.Stops)),
	}

	for _, s := range domain.SortedStops(r.Stops) {
		res.Stops = append(res.Stops, NewStopResponse(s))
	}
	if d.Vehicle != nil {
		res.Vehicle = &VehicleResponse{
			ID:           d.Vehicle.ID,
			LicensePlate: d.Vehicle.LicensePlate,
			Make:         d.Vehicle.Make,
			Model:        d.Vehicle.Model,
		}
	}
	if d.Driver != nil {
		res.Driver = &DriverResponse{ID: d.Driver.ID, Name: d.Driver.Name}
	}

	return res
}
