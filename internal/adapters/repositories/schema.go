package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// InitSchema creates the route planning tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	types := strings.NewReplacer(
		"{{ts}}", dialect.timestampType(),
		"{{float}}", dialect.floatType(),
	)

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		vehicle_id TEXT NOT NULL,
		driver_id TEXT NOT NULL,
		status TEXT NOT NULL,
		start_address TEXT,
		end_address TEXT,
		total_distance_km {{float}} NOT NULL DEFAULT 0,
		estimated_duration_minutes INTEGER NOT NULL DEFAULT 0,
		fuel_estimate_liters {{float}} NOT NULL DEFAULT 0,
		start_time {{ts}},
		end_time {{ts}},
		actual_duration_minutes INTEGER,
		created_at {{ts}} NOT NULL,
		created_by TEXT NOT NULL,
		external_map_link TEXT
	);
	`

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS route_stops (
		id TEXT PRIMARY KEY,
		route_id TEXT NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
		stop_order INTEGER NOT NULL,
		address TEXT NOT NULL,
		lat {{float}},
		lng {{float}},
		estimated_arrival {{ts}},
		actual_arrival {{ts}},
		estimated_departure {{ts}},
		actual_departure {{ts}},
		priority TEXT NOT NULL,
		status TEXT NOT NULL,
		notes TEXT,
		contact_name TEXT,
		contact_phone TEXT
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		license_plate TEXT NOT NULL,
		make TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL
	);
	`

	createDriversQuery := `
	CREATE TABLE IF NOT EXISTS drivers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);
	`

	createNotificationsQuery := `
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		category TEXT NOT NULL,
		related_entity_type TEXT NOT NULL,
		related_entity_id TEXT NOT NULL,
		send_email BOOLEAN NOT NULL,
		send_sms BOOLEAN NOT NULL,
		created_at {{ts}} NOT NULL
	);
	`

	statements := []string{
		createRoutesQuery,
		createStopsQuery,
		createVehiclesQuery,
		createDriversQuery,
		createNotificationsQuery,
		`CREATE INDEX IF NOT EXISTS idx_route_stops_route_order ON route_stops(route_id, stop_order);`,
		`CREATE INDEX IF NOT EXISTS idx_routes_vehicle ON routes(vehicle_id);`,
		`CREATE INDEX IF NOT EXISTS idx_routes_driver ON routes(driver_id);`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, types.Replace(stmt)); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
