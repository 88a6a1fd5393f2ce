package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fleet-route-service/internal/domain"
	"fmt"
)

// SQL-backed VehicleStore and FleetDirectory over the vehicles and drivers tables.
type SQLFleetStore struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLFleetStore(db *sql.DB, dialect Dialect) *SQLFleetStore {
	return &SQLFleetStore{DB: db, Dialect: dialect}
}

func (s *SQLFleetStore) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("sql fleet store: DB is nil")
	}

	query := `
	SELECT
		id,
		license_plate,
		make,
		model,
		status
	FROM vehicles
	WHERE id = ?;
	`
	var v domain.Vehicle
	var status string
	err := s.DB.QueryRowContext(ctx, s.Dialect.rebind(query), id).
		Scan(&v.ID, &v.LicensePlate, &v.Make, &v.Model, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle: scan row: %w", err)
	}
	v.Status = domain.VehicleStatus(status)

	return &v, nil
}

func (s *SQLFleetStore) UpdateVehicleStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	if s.DB == nil {
		return errors.New("sql fleet store: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, s.Dialect.rebind(`UPDATE vehicles SET status = ? WHERE id = ?;`), string(status), id)
	if err != nil {
		return fmt.Errorf("update vehicle status: id=%s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update vehicle status: rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (s *SQLFleetStore) VehicleSummary(ctx context.Context, id string) (*domain.VehicleSummary, error) {
	v, err := s.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.VehicleSummary{ID: v.ID, LicensePlate: v.LicensePlate, Make: v.Make, Model: v.Model}, nil
}

func (s *SQLFleetStore) DriverSummary(ctx context.Context, id string) (*domain.DriverSummary, error) {
	if s.DB == nil {
		return nil, errors.New("sql fleet store: DB is nil")
	}

	var d domain.DriverSummary
	err := s.DB.QueryRowContext(ctx, s.Dialect.rebind(`SELECT id, name FROM drivers WHERE id = ?;`), id).
		Scan(&d.ID, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("driver summary: scan row: %w", err)
	}

	return &d, nil
}

// SeedFleet upserts vehicles and drivers in one transaction.
func (s *SQLFleetStore) SeedFleet(ctx context.Context, seed *FleetSeed) error {
	if s.DB == nil {
		return errors.New("seed fleet: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed fleet: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	vehicleQuery := `
	INSERT INTO vehicles (
		id,
		license_plate,
		make,
		model,
		status
	)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		license_plate = excluded.license_plate,
		make = excluded.make,
		model = excluded.model,
		status = excluded.status;
	`
	vehicleStmt, err := tx.PrepareContext(ctx, s.Dialect.rebind(vehicleQuery))
	if err != nil {
		return fmt.Errorf("seed fleet: prepare vehicle upsert: %w", err)
	}
	defer vehicleStmt.Close()

	for _, v := range seed.Vehicles {
		if _, err := vehicleStmt.ExecContext(ctx, v.ID, v.LicensePlate, v.Make, v.Model, v.Status); err != nil {
			return fmt.Errorf("seed fleet: upsert vehicle id=%s: %w", v.ID, err)
		}
	}

	driverQuery := `
	INSERT INTO drivers (
		id,
		name
	)
	VALUES (?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name;
	`
	driverStmt, err := tx.PrepareContext(ctx, s.Dialect.rebind(driverQuery))
	if err != nil {
		return fmt.Errorf("seed fleet: prepare driver upsert: %w", err)
	}
	defer driverStmt.Close()

	for _, d := range seed.Drivers {
		if _, err := driverStmt.ExecContext(ctx, d.ID, d.Name); err != nil {
			return fmt.Errorf("seed fleet: upsert driver id=%s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed fleet: commit tx: %w", err)
	}

	return nil
}
