package domain

// VehicleStatus is owned by the wider fleet system; only Ready and InRoute
// are written by route planning.
type VehicleStatus string

const (
	VehicleStatusReady   VehicleStatus = "Ready"
	VehicleStatusInRoute VehicleStatus = "InRoute"
)

// Vehicle as seen by route planning: identity, display fields and status.
type Vehicle struct {
	ID           string
	LicensePlate string
	Make         string
	Model        string
	Status       VehicleStatus
}

// VehicleSummary carries display fields for route responses.
type VehicleSummary struct {
	ID           string `json:"id"`
	LicensePlate string `json:"license_plate"`
	Make         string `json:"make"`
	Model        string `json:"model"`
}

// DriverSummary carries display fields for route responses.
type DriverSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SyncedVehicleStatus returns the vehicle status implied by a route status,
// and false when the route status leaves the vehicle untouched.
func SyncedVehicleStatus(rs RouteStatus) (VehicleStatus, bool) {
	switch rs {
	case RouteStatusInProgress:
		return VehicleStatusInRoute, true
	case RouteStatusCompleted, RouteStatusCancelled:
		return VehicleStatusReady, true
	default:
		return "", false
	}
}
