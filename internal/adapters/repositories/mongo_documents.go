package repositories

import (
	"fleet-route-service/internal/domain"
	"time"
)

type stopDocument struct {
	ID                 string     `bson:"_id"`
	RouteID            string     `bson:"routeid"`
	StopOrder          int        `bson:"stoporder"`
	Address            string     `bson:"address"`
	Lat                *float64   `bson:"lat,omitempty"`
	Lng                *float64   `bson:"lng,omitempty"`
	EstimatedArrival   *time.Time `bson:"estimatedarrival,omitempty"`
	ActualArrival      *time.Time `bson:"actualarrival,omitempty"`
	EstimatedDeparture *time.Time `bson:"estimateddeparture,omitempty"`
	ActualDeparture    *time.Time `bson:"actualdeparture,omitempty"`
	Priority           string     `bson:"priority"`
	Status             string     `bson:"status"`
	Notes              *string    `bson:"notes,omitempty"`
	ContactName        *string    `bson:"contactname,omitempty"`
	ContactPhone       *string    `bson:"contactphone,omitempty"`
}

// routeDocument stores a route with its stops embedded, so one document write covers both.
type routeDocument struct {
	ID                       string         `bson:"_id"`
	Name                     string         `bson:"name"`
	Description              *string        `bson:"description,omitempty"`
	VehicleID                string         `bson:"vehicleid"`
	DriverID                 string         `bson:"driverid"`
	Status                   string         `bson:"status"`
	StartAddress             *string        `bson:"startaddress,omitempty"`
	EndAddress               *string        `bson:"endaddress,omitempty"`
	TotalDistanceKm          float64        `bson:"totaldistancekm"`
	EstimatedDurationMinutes int            `bson:"estimateddurationminutes"`
	FuelEstimateLiters       float64        `bson:"fuelestimateliters"`
	StartTime                *time.Time     `bson:"starttime,omitempty"`
	EndTime                  *time.Time     `bson:"endtime,omitempty"`
	ActualDurationMinutes    *int           `bson:"actualdurationminutes,omitempty"`
	CreatedAt                time.Time      `bson:"createdat"`
	CreatedBy                string         `bson:"createdby"`
	ExternalMapLink          *string        `bson:"externalmaplink,omitempty"`
	Stops                    []stopDocument `bson:"stops"`
}

type vehicleDocument struct {
	ID           string `bson:"_id"`
	LicensePlate string `bson:"licenseplate"`
	Make         string `bson:"make"`
	Model        string `bson:"model"`
	Status       string `bson:"status"`
}

type driverDocument struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func toStopDocument(s *domain.RouteStop) stopDocument {
	return stopDocument{
		ID:                 s.ID,
		RouteID:            s.RouteID,
		StopOrder:          s.StopOrder,
		Address:            s.Address,
		Lat:                s.Lat,
		Lng:                s.Lng,
		EstimatedArrival:   utcPtr(s.EstimatedArrival),
		ActualArrival:      utcPtr(s.ActualArrival),
		EstimatedDeparture: utcPtr(s.EstimatedDeparture),
		ActualDeparture:    utcPtr(s.ActualDeparture),
		Priority:           string(s.Priority),
		Status:             string(s.Status),
		Notes:              s.Notes,
		ContactName:        s.ContactName,
		ContactPhone:       s.ContactPhone,
	}
}

func (d stopDocument) toDomain() *domain.RouteStop {
	return &domain.RouteStop{
		ID:                 d.ID,
		RouteID:            d.RouteID,
		StopOrder:          d.StopOrder,
		Address:            d.Address,
		Lat:                d.Lat,
		Lng:                d.Lng,
		EstimatedArrival:   utcPtr(d.EstimatedArrival),
		ActualArrival:      utcPtr(d.ActualArrival),
		EstimatedDeparture: utcPtr(d.EstimatedDeparture),
		ActualDeparture:    utcPtr(d.ActualDeparture),
		Priority:           domain.StopPriority(d.Priority),
		Status:             domain.StopStatus(d.Status),
		Notes:              d.Notes,
		ContactName:        d.ContactName,
		ContactPhone:       d.ContactPhone,
	}
}

func toRouteDocument(r *domain.Route) routeDocument {
	stops := make([]stopDocument, 0, len(r.Stops))
	for _, s := range domain.SortedStops(r.Stops) {
		stops = append(stops, toStopDocument(s))
	}

	return routeDocument{
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
		StartTime:                utcPtr(r.StartTime),
		EndTime:                  utcPtr(r.EndTime),
		ActualDurationMinutes:    r.ActualDurationMinutes,
		CreatedAt:                r.CreatedAt.UTC(),
		CreatedBy:                r.CreatedBy,
		ExternalMapLink:          r.ExternalMapLink,
		Stops:                    stops,
	}
}

func (d routeDocument) toDomain() *domain.Route {
	stops := make([]*domain.RouteStop, 0, len(d.Stops))
	for _, s := range d.Stops {
		stops = append(stops, s.toDomain())
	}

	return &domain.Route{
		ID:                       d.ID,
		Name:                     d.Name,
		Description:              d.Description,
		VehicleID:                d.VehicleID,
		DriverID:                 d.DriverID,
		Status:                   domain.RouteStatus(d.Status),
		StartAddress:             d.StartAddress,
		EndAddress:               d.EndAddress,
		TotalDistanceKm:          d.TotalDistanceKm,
		EstimatedDurationMinutes: d.EstimatedDurationMinutes,
		FuelEstimateLiters:       d.FuelEstimateLiters,
		StartTime:                utcPtr(d.StartTime),
		EndTime:                  utcPtr(d.EndTime),
		ActualDurationMinutes:    d.ActualDurationMinutes,
		CreatedAt:                d.CreatedAt.UTC(),
		CreatedBy:                d.CreatedBy,
		ExternalMapLink:          d.ExternalMapLink,
		Stops:                    domain.SortedStops(stops),
	}
}
