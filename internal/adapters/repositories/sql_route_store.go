package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"fmt"
	"strings"
)

const routeColumns = `
		id,
		name,
		description,
		vehicle_id,
		driver_id,
		status,
		start_address,
		end_address,
		total_distance_km,
		estimated_duration_minutes,
		fuel_estimate_liters,
		start_time,
		end_time,
		actual_duration_minutes,
		created_at,
		created_by,
		external_map_link`

const stopColumns = `
		id,
		route_id,
		stop_order,
		address,
		lat,
		lng,
		estimated_arrival,
		actual_arrival,
		estimated_departure,
		actual_departure,
		priority,
		status,
		notes,
		contact_name,
		contact_phone`

// SQL-backed implementation of the RouteStore port, shared by sqlite and postgres.
type SQLRouteStore struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLRouteStore(db *sql.DB, dialect Dialect) *SQLRouteStore {
	return &SQLRouteStore{DB: db, Dialect: dialect}
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLRouteStore) ListRoutes(ctx context.Context, filter ports.RouteFilter) ([]*domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("sql route store: DB is nil")
	}

	var where []string
	var args []any
	if filter.VehicleID != nil {
		where = append(where, "vehicle_id = ?")
		args = append(args, *filter.VehicleID)
	}
	if filter.DriverID != nil {
		where = append(where, "driver_id = ?")
		args = append(args, *filter.DriverID)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filter.Status))
	}

	query := "SELECT" + routeColumns + "\n\tFROM routes"
	if len(where) > 0 {
		query += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\tORDER BY created_at DESC, id;"

	rows, err := s.DB.QueryContext(ctx, s.Dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]*domain.Route, 0, 16)
	byID := make(map[string]*domain.Route)
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("list routes: %w", err)
		}
		routes = append(routes, r)
		byID[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}
	rows.Close()

	if len(routes) == 0 {
		return routes, nil
	}

	ids := make([]any, 0, len(routes))
	for _, r := range routes {
		ids = append(ids, r.ID)
	}
	stops, err := s.queryStops(ctx, s.DB, "route_id IN ("+placeholders(len(ids))+")", ids...)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	for _, st := range stops {
		if r, ok := byID[st.RouteID]; ok {
			r.Stops = append(r.Stops, st)
		}
	}

	return routes, nil
}

func (s *SQLRouteStore) GetRoute(ctx context.Context, id string) (*domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("sql route store: DB is nil")
	}

	query := "SELECT" + routeColumns + "\n\tFROM routes\n\tWHERE id = ?;"
	route, err := scanRoute(s.DB.QueryRowContext(ctx, s.Dialect.rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}

	route.Stops, err = s.queryStops(ctx, s.DB, "route_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}

	return route, nil
}

func (s *SQLRouteStore) CreateRoute(ctx context.Context, route *domain.Route) error {
	if s.DB == nil {
		return errors.New("sql route store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create route: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO routes (` + routeColumns + `
	)
	VALUES (` + placeholders(17) + `);
	`
	_, err = tx.ExecContext(ctx, s.Dialect.rebind(query),
		route.ID,
		route.Name,
		nullString(route.Description),
		route.VehicleID,
		route.DriverID,
		string(route.Status),
		nullString(route.StartAddress),
		nullString(route.EndAddress),
		route.TotalDistanceKm,
		route.EstimatedDurationMinutes,
		route.FuelEstimateLiters,
		nullTime(route.StartTime),
		nullTime(route.EndTime),
		nullInt(route.ActualDurationMinutes),
		route.CreatedAt.UTC(),
		route.CreatedBy,
		nullString(route.ExternalMapLink),
	)
	if err != nil {
		return fmt.Errorf("create route: insert route id=%s: %w", route.ID, err)
	}

	for _, st := range route.Stops {
		if err := s.insertStop(ctx, tx, st); err != nil {
			return fmt.Errorf("create route: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create route: commit tx: %w", err)
	}

	return nil
}

// SaveRoute writes the route row and the stop batch in one transaction.
func (s *SQLRouteStore) SaveRoute(ctx context.Context, route *domain.Route, changes ports.StopChanges) error {
	if s.DB == nil {
		return errors.New("sql route store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save route: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	UPDATE routes SET
		name = ?,
		description = ?,
		vehicle_id = ?,
		driver_id = ?,
		status = ?,
		start_address = ?,
		end_address = ?,
		total_distance_km = ?,
		estimated_duration_minutes = ?,
		fuel_estimate_liters = ?,
		start_time = ?,
		end_time = ?,
		actual_duration_minutes = ?,
		external_map_link = ?
	WHERE id = ?;
	`
	res, err := tx.ExecContext(ctx, s.Dialect.rebind(query),
		route.Name,
		nullString(route.Description),
		route.VehicleID,
		route.DriverID,
		string(route.Status),
		nullString(route.StartAddress),
		nullString(route.EndAddress),
		route.TotalDistanceKm,
		route.EstimatedDurationMinutes,
		route.FuelEstimateLiters,
		nullTime(route.StartTime),
		nullTime(route.EndTime),
		nullInt(route.ActualDurationMinutes),
		nullString(route.ExternalMapLink),
		route.ID,
	)
	if err != nil {
		return fmt.Errorf("save route: update route id=%s: %w", route.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}

	deleteQuery := s.Dialect.rebind(`DELETE FROM route_stops WHERE id = ? AND route_id = ?;`)
	for _, id := range changes.Deleted {
		if _, err := tx.ExecContext(ctx, deleteQuery, id, route.ID); err != nil {
			return fmt.Errorf("save route: delete stop id=%s: %w", id, err)
		}
	}

	for _, st := range changes.Updated {
		if err := s.updateStop(ctx, tx, st); err != nil {
			return fmt.Errorf("save route: %w", err)
		}
	}

	for _, st := range changes.Inserted {
		if err := s.insertStop(ctx, tx, st); err != nil {
			return fmt.Errorf("save route: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save route: commit tx: %w", err)
	}

	return nil
}

// DeleteRoute removes stops explicitly so sqlite databases opened without foreign keys behave the same.
func (s *SQLRouteStore) DeleteRoute(ctx context.Context, id string) (bool, error) {
	if s.DB == nil {
		return false, errors.New("sql route store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("delete route: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.Dialect.rebind(`DELETE FROM route_stops WHERE route_id = ?;`), id); err != nil {
		return false, fmt.Errorf("delete route: delete stops route_id=%s: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, s.Dialect.rebind(`DELETE FROM routes WHERE id = ?;`), id)
	if err != nil {
		return false, fmt.Errorf("delete route: delete route id=%s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete route: rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("delete route: commit tx: %w", err)
	}

	return n > 0, nil
}

func (s *SQLRouteStore) GetStop(ctx context.Context, id string) (*domain.RouteStop, error) {
	if s.DB == nil {
		return nil, errors.New("sql route store: DB is nil")
	}

	stops, err := s.queryStops(ctx, s.DB, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get stop: %w", err)
	}
	if len(stops) == 0 {
		return nil, domain.ErrNotFound
	}
	return stops[0], nil
}

func (s *SQLRouteStore) SaveStop(ctx context.Context, stop *domain.RouteStop) error {
	if s.DB == nil {
		return errors.New("sql route store: DB is nil")
	}

	if err := s.updateStop(ctx, s.DB, stop); err != nil {
		return fmt.Errorf("save stop: %w", err)
	}
	return nil
}

func (s *SQLRouteStore) queryStops(ctx context.Context, q queryer, where string, args ...any) ([]*domain.RouteStop, error) {
	query := "SELECT" + stopColumns + "\n\tFROM route_stops\n\tWHERE " + where + "\n\tORDER BY route_id, stop_order, id;"

	rows, err := q.QueryContext(ctx, s.Dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query route_stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]*domain.RouteStop, 0, 8)
	for rows.Next() {
		st, err := scanStop(rows)
		if err != nil {
			return nil, err
		}
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stop row iteration: %w", err)
	}

	return stops, nil
}

func (s *SQLRouteStore) insertStop(ctx context.Context, q queryer, st *domain.RouteStop) error {
	query := `
	INSERT INTO route_stops (` + stopColumns + `
	)
	VALUES (` + placeholders(15) + `);
	`
	_, err := q.ExecContext(ctx, s.Dialect.rebind(query),
		st.ID,
		st.RouteID,
		st.StopOrder,
		st.Address,
		nullFloat(st.Lat),
		nullFloat(st.Lng),
		nullTime(st.EstimatedArrival),
		nullTime(st.ActualArrival),
		nullTime(st.EstimatedDeparture),
		nullTime(st.ActualDeparture),
		string(st.Priority),
		string(st.Status),
		nullString(st.Notes),
		nullString(st.ContactName),
		nullString(st.ContactPhone),
	)
	if err != nil {
		return fmt.Errorf("insert stop id=%s: %w", st.ID, err)
	}
	return nil
}

func (s *SQLRouteStore) updateStop(ctx context.Context, q queryer, st *domain.RouteStop) error {
	query := `
	UPDATE route_stops SET
		stop_order = ?,
		address = ?,
		lat = ?,
		lng = ?,
		estimated_arrival = ?,
		actual_arrival = ?,
		estimated_departure = ?,
		actual_departure = ?,
		priority = ?,
		status = ?,
		notes = ?,
		contact_name = ?,
		contact_phone = ?
	WHERE id = ?;
	`
	res, err := q.ExecContext(ctx, s.Dialect.rebind(query),
		st.StopOrder,
		st.Address,
		nullFloat(st.Lat),
		nullFloat(st.Lng),
		nullTime(st.EstimatedArrival),
		nullTime(st.ActualArrival),
		nullTime(st.EstimatedDeparture),
		nullTime(st.ActualDeparture),
		string(st.Priority),
		string(st.Status),
		nullString(st.Notes),
		nullString(st.ContactName),
		nullString(st.ContactPhone),
		st.ID,
	)
	if err != nil {
		return fmt.Errorf("update stop id=%s: %w", st.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanRoute(row rowScanner) (*domain.Route, error) {
	var (
		r                               domain.Route
		status                          string
		description, startAddr, endAddr sql.NullString
		mapLink                         sql.NullString
		startTime, endTime              sql.NullTime
		actualDuration                  sql.NullInt64
	)

	err := row.Scan(
		&r.ID,
		&r.Name,
		&description,
		&r.VehicleID,
		&r.DriverID,
		&status,
		&startAddr,
		&endAddr,
		&r.TotalDistanceKm,
		&r.EstimatedDurationMinutes,
		&r.FuelEstimateLiters,
		&startTime,
		&endTime,
		&actualDuration,
		&r.CreatedAt,
		&r.CreatedBy,
		&mapLink,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan route row: %w", err)
	}

	r.Status = domain.RouteStatus(status)
	r.Description = stringPtr(description)
	r.StartAddress = stringPtr(startAddr)
	r.EndAddress = stringPtr(endAddr)
	r.ExternalMapLink = stringPtr(mapLink)
	r.StartTime = timePtr(startTime)
	r.EndTime = timePtr(endTime)
	r.ActualDurationMinutes = intPtr(actualDuration)
	r.CreatedAt = r.CreatedAt.UTC()
	r.Stops = []*domain.RouteStop{}

	return &r, nil
}

func scanStop(row rowScanner) (*domain.RouteStop, error) {
	var (
		st                                           domain.RouteStop
		priority, status                             string
		lat, lng                                     sql.NullFloat64
		estArrival, actArrival, estDepart, actDepart sql.NullTime
		notes, contactName, contactPhone             sql.NullString
	)

	err := row.Scan(
		&st.ID,
		&st.RouteID,
		&st.StopOrder,
		&st.Address,
		&lat,
		&lng,
		&estArrival,
		&actArrival,
		&estDepart,
		&actDepart,
		&priority,
		&status,
		&notes,
		&contactName,
		&contactPhone,
	)
	if err != nil {
		return nil, fmt.Errorf("scan stop row: %w", err)
	}

	st.Priority = domain.StopPriority(priority)
	st.Status = domain.StopStatus(status)
	st.Lat = floatPtr(lat)
	st.Lng = floatPtr(lng)
	st.EstimatedArrival = timePtr(estArrival)
	st.ActualArrival = timePtr(actArrival)
	st.EstimatedDeparture = timePtr(estDepart)
	st.ActualDeparture = timePtr(actDepart)
	st.Notes = stringPtr(notes)
	st.ContactName = stringPtr(contactName)
	st.ContactPhone = stringPtr(contactPhone)

	return &st, nil
}
