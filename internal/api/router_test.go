package api

import (
	"context"
	"encoding/json"
	"fleet-route-service/internal/adapters/distance"
	"fleet-route-service/internal/adapters/notify"
	"fleet-route-service/internal/adapters/repositories"
	"fleet-route-service/internal/platform/db"
	"fleet-route-service/internal/services"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app           *fiber.App
	fleet         *repositories.SQLFleetStore
	notifications *repositories.SQLNotificationStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repositories.InitSchema(ctx, conn, repositories.DialectSQLite))

	fleet := repositories.NewSQLFleetStore(conn, repositories.DialectSQLite)
	require.NoError(t, fleet.SeedFleet(ctx, &repositories.FleetSeed{
		Vehicles: []repositories.VehicleSeed{
			{ID: "VEH-1", LicensePlate: "ABC-123", Make: "Ford", Model: "Transit", Status: "Ready"},
		},
		Drivers: []repositories.DriverSeed{
			{ID: "D1", Name: "Dana Ortiz"},
			{ID: "D2", Name: "Lee Park"},
		},
	}))

	notifications := repositories.NewSQLNotificationStore(conn, repositories.DialectSQLite)
	planner := services.NewRoutePlanner(
		repositories.NewSQLRouteStore(conn, repositories.DialectSQLite),
		fleet,
		&notify.LogNotifier{Store: notifications},
		services.NewEstimator(distance.NewFixedDistanceProvider(25)),
		services.PlannerOptions{},
	)

	return &testServer{app: NewRouter(planner, fleet), fleet: fleet, notifications: notifications}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) (int, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	res, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return res.StatusCode, out
}

const createBody = `{
	"name": "Morning Delivery",
	"vehicle_id": "VEH-1",
	"driver_id": "D1",
	"start_address": "Depot",
	"destination_address": "Depot",
	"stops": [
		{"stop_order": 1, "address": "Stop A"},
		{"stop_order": 2, "address": "Stop B", "priority": "High"},
		{"stop_order": 3, "address": "Stop C", "priority": "Low"}
	]
}`

func createRoute(t *testing.T, s *testServer) map[string]any {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/routes", createBody, "X-User-ID", "admin-1")
	require.Equal(t, http.StatusCreated, status, body)
	return body
}

func stopsOf(t *testing.T, route map[string]any) []map[string]any {
	t.Helper()
	raw, ok := route["stops"].([]any)
	require.True(t, ok, "stops missing from %v", route)

	out := make([]map[string]any, 0, len(raw))
	for _, s := range raw {
		out = append(out, s.(map[string]any))
	}
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestCreateRoute(t *testing.T) {
	s := newTestServer(t)
	route := createRoute(t, s)

	assert.Equal(t, "Morning Delivery", route["name"])
	assert.Equal(t, "Planned", route["status"])
	assert.Equal(t, 100.0, route["total_distance_km"])
	assert.Equal(t, float64(4*72+3*15), route["estimated_duration_minutes"])
	assert.Equal(t, 12.0, route["fuel_estimate_liters"])
	assert.Equal(t, "admin-1", route["created_by"])
	assert.Contains(t, route["external_map_link"], "https://www.google.com/maps/dir/Depot/")

	vehicle := route["vehicle"].(map[string]any)
	assert.Equal(t, "ABC-123", vehicle["license_plate"])
	driver := route["driver"].(map[string]any)
	assert.Equal(t, "Dana Ortiz", driver["name"])

	stops := stopsOf(t, route)
	require.Len(t, stops, 3)
	assert.Equal(t, "Pending", stops[0]["status"])
	assert.Equal(t, "Normal", stops[0]["priority"])

	sent, err := s.notifications.ListNotifications(context.Background(), "D1")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Message, "ABC-123")
}

func TestCreateRouteRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/routes", createBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "X-User-ID")

	status, _ = s.do(t, http.MethodPost, "/routes", `{"name": "x", "unknown": 1}`, "X-User-ID", "a")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.do(t, http.MethodPost, "/routes", `{"name": "x", "vehicle_id": "V", "driver_id": "D", "stops": []}`, "X-User-ID", "a")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "stops")
}

func TestGetAndListRoutes(t *testing.T) {
	s := newTestServer(t)
	id := createRoute(t, s)["id"].(string)

	status, route := s.do(t, http.MethodGet, "/routes/"+id, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, route["id"])
	assert.Len(t, stopsOf(t, route), 3)

	status, list := s.do(t, http.MethodGet, "/routes?vehicle_id=VEH-1", "")
	require.Equal(t, http.StatusOK, status)
	routes := list["routes"].([]any)
	require.Len(t, routes, 1)
	summary := routes[0].(map[string]any)
	assert.Equal(t, float64(3), summary["stop_count"])
	assert.NotContains(t, summary, "stops")
	assert.NotContains(t, summary, "created_by")

	status, list = s.do(t, http.MethodGet, "/routes?driver_id=D2", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, list["routes"])

	status, list = s.do(t, http.MethodGet, "/routes?status=planned&view=detail", "")
	require.Equal(t, http.StatusOK, status)
	detailed := list["routes"].([]any)[0].(map[string]any)
	assert.Contains(t, detailed, "stops")

	status, _ = s.do(t, http.MethodGet, "/routes?status=Paused", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodGet, "/routes?status=Planned&driver_id=D1", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodGet, "/routes/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdateRouteReconcilesAndSyncsVehicle(t *testing.T) {
	s := newTestServer(t)
	route := createRoute(t, s)
	id := route["id"].(string)
	stops := stopsOf(t, route)
	keep := stops[1]["id"].(string)

	body := `{
		"status": "InProgress",
		"driver_id": "D2",
		"stops": [
			{"id": "` + keep + `", "stop_order": 1, "address": "Stop B", "priority": "High", "notes": "dock 4"},
			{"stop_order": 2, "address": "Stop D"}
		]
	}`
	status, updated := s.do(t, http.MethodPut, "/routes/"+id, body)
	require.Equal(t, http.StatusOK, status, updated)

	got := stopsOf(t, updated)
	require.Len(t, got, 2)
	assert.Equal(t, keep, got[0]["id"])
	assert.Equal(t, "dock 4", got[0]["notes"])
	assert.Equal(t, "Stop D", got[1]["address"])
	assert.Equal(t, "InProgress", updated["status"])
	assert.Equal(t, 75.0, updated["total_distance_km"])

	v, err := s.fleet.GetVehicle(context.Background(), "VEH-1")
	require.NoError(t, err)
	assert.Equal(t, "InRoute", string(v.Status))

	sent, err := s.notifications.ListNotifications(context.Background(), "D2")
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	status, _ = s.do(t, http.MethodPut, "/routes/"+id, `{"stops": [{"id": "foreign", "stop_order": 1, "address": "X"}]}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPut, "/routes/missing", `{"name": "x"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdateRouteWithoutStopsKeepsThem(t *testing.T) {
	s := newTestServer(t)
	id := createRoute(t, s)["id"].(string)

	status, updated := s.do(t, http.MethodPut, "/routes/"+id, `{"name": "Renamed"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Renamed", updated["name"])
	assert.Len(t, stopsOf(t, updated), 3)

	status, updated = s.do(t, http.MethodPut, "/routes/"+id, `{"stops": []}`)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, stopsOf(t, updated))
	assert.Equal(t, 100.0, updated["total_distance_km"])
	assert.Equal(t, float64(4*72+3*15), updated["estimated_duration_minutes"])
}

func TestOptimizeRoute(t *testing.T) {
	s := newTestServer(t)
	route := createRoute(t, s)
	id := route["id"].(string)

	status, optimized := s.do(t, http.MethodPost, "/routes/"+id+"/optimize", "")
	require.Equal(t, http.StatusOK, status)

	stops := stopsOf(t, optimized)
	require.Len(t, stops, 3)
	assert.Equal(t, []any{"Stop B", "Stop A", "Stop C"}, []any{stops[0]["address"], stops[1]["address"], stops[2]["address"]})
	assert.Equal(t, float64(1), stops[0]["stop_order"])
	assert.Equal(t, route["total_distance_km"], optimized["total_distance_km"])

	status, _ = s.do(t, http.MethodPost, "/routes/missing/optimize", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdateStopStatus(t *testing.T) {
	s := newTestServer(t)
	stop := stopsOf(t, createRoute(t, s))[0]
	stopID := stop["id"].(string)

	status, body := s.do(t, http.MethodPatch, "/stops/"+stopID+"/status",
		`{"status": "Arrived", "actual_arrival": "2026-03-02T09:15:00Z", "notes": "signed"}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Arrived", body["status"])
	assert.Equal(t, "signed", body["notes"])
	assert.Equal(t, "2026-03-02T09:15:00Z", body["actual_arrival"])

	status, _ = s.do(t, http.MethodPatch, "/stops/"+stopID+"/status", `{"status": "Lost"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPatch, "/stops/missing/status", `{"status": "Arrived"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteRoute(t *testing.T) {
	s := newTestServer(t)
	id := createRoute(t, s)["id"].(string)

	status, _ := s.do(t, http.MethodDelete, "/routes/"+id, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, http.MethodDelete, "/routes/"+id, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	res, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Header.Get("X-Request-ID"))

	res, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}
