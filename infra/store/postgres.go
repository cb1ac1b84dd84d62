package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MrSiJo/plugtrack/core/model"
	corestore "github.com/MrSiJo/plugtrack/core/store"
)

// PostgresStore serves the engine from a Postgres database via pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pool and runs the embedded migrations.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() { s.pool.Close() }

func (s *PostgresStore) migrate(ctx context.Context) error {
	for _, m := range []string{migrationCreateVehicles, migrationCreateEvents} {
		if _, err := s.pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

const eventColumns = `id, vehicle_id, user_id, date, odometer, charge_type, charge_speed_kw,
	location_label, charge_network, energy_kwh, duration_mins, cost_per_kwh,
	soc_from, soc_to, ambient_temp_c, preconditioning, notes, created_at`

func scanEvent(row pgx.Row) (model.ChargingEvent, error) {
	var e model.ChargingEvent
	var precond int
	err := row.Scan(&e.ID, &e.VehicleID, &e.UserID, &e.Date, &e.Odometer, &e.ChargeType,
		&e.ChargeSpeedKW, &e.Location, &e.Network, &e.EnergyKWh, &e.DurationMins,
		&e.CostPerKWh, &e.SocFrom, &e.SocTo, &e.AmbientTempC, &precond, &e.Notes, &e.CreatedAt)
	e.Preconditioning = model.Preconditioning(precond)
	return e, err
}

func (s *PostgresStore) Event(ctx context.Context, id int64) (model.ChargingEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM charging_events WHERE id = $1`
	e, err := scanEvent(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ChargingEvent{}, corestore.ErrNotFound
	}
	if err != nil {
		return model.ChargingEvent{}, fmt.Errorf("get event %d: %w", id, err)
	}
	return e, nil
}

func (s *PostgresStore) History(ctx context.Context, vehicleID int64, until time.Time) ([]model.ChargingEvent, error) {
	query := `SELECT ` + eventColumns + `
		FROM charging_events WHERE vehicle_id = $1 AND date <= $2
		ORDER BY date ASC, id ASC`
	return s.queryEvents(ctx, query, vehicleID, until)
}

func (s *PostgresStore) Events(ctx context.Context, vehicleID int64, f corestore.Filter) ([]model.ChargingEvent, error) {
	query := `SELECT ` + eventColumns + `
		FROM charging_events WHERE vehicle_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		  AND ($4::text = '' OR location_label = $4)
		  AND ($5::text = '' OR charge_type = $5)
		ORDER BY date ASC, id ASC`
	var from, to *time.Time
	if !f.From.IsZero() {
		from = &f.From
	}
	if !f.To.IsZero() {
		to = &f.To
	}
	return s.queryEvents(ctx, query, vehicleID, from, to, f.Location, string(f.ChargeType))
}

func (s *PostgresStore) LatestEvent(ctx context.Context, vehicleID int64) (model.ChargingEvent, error) {
	query := `SELECT ` + eventColumns + `
		FROM charging_events WHERE vehicle_id = $1
		ORDER BY date DESC, id DESC LIMIT 1`
	e, err := scanEvent(s.pool.QueryRow(ctx, query, vehicleID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ChargingEvent{}, corestore.ErrNotFound
	}
	if err != nil {
		return model.ChargingEvent{}, fmt.Errorf("latest event for vehicle %d: %w", vehicleID, err)
	}
	return e, nil
}

func (s *PostgresStore) queryEvents(ctx context.Context, query string, args ...any) ([]model.ChargingEvent, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()
	var out []model.ChargingEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Vehicle(ctx context.Context, id int64) (model.Vehicle, error) {
	query := `SELECT id, user_id, make, model, battery_kwh, efficiency_mi_per_kwh, active,
		full_charge_enabled, full_charge_value, full_charge_unit
		FROM vehicles WHERE id = $1`
	v, err := scanVehicle(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Vehicle{}, corestore.ErrNotFound
	}
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("get vehicle %d: %w", id, err)
	}
	return v, nil
}

func (s *PostgresStore) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
	query := `SELECT id, user_id, make, model, battery_kwh, efficiency_mi_per_kwh, active,
		full_charge_enabled, full_charge_value, full_charge_unit
		FROM vehicles ORDER BY id ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}
	defer rows.Close()
	var out []model.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVehicle(row pgx.Row) (model.Vehicle, error) {
	var v model.Vehicle
	var unit string
	err := row.Scan(&v.ID, &v.UserID, &v.Make, &v.Model, &v.BatteryKWh, &v.EfficiencyMiPerKWh,
		&v.Active, &v.FullCharge.Enabled, &v.FullCharge.Value, &unit)
	v.FullCharge.Unit = model.CadenceUnit(unit)
	return v, err
}

const migrationCreateVehicles = `
CREATE TABLE IF NOT EXISTS vehicles (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    make VARCHAR(100) NOT NULL DEFAULT '',
    model VARCHAR(100) NOT NULL DEFAULT '',
    battery_kwh DOUBLE PRECISION NOT NULL,
    efficiency_mi_per_kwh DOUBLE PRECISION NOT NULL DEFAULT 0,
    active BOOLEAN NOT NULL DEFAULT true,
    full_charge_enabled BOOLEAN NOT NULL DEFAULT false,
    full_charge_value INT NOT NULL DEFAULT 0,
    full_charge_unit VARCHAR(10) NOT NULL DEFAULT 'days'
);
`

const migrationCreateEvents = `
CREATE TABLE IF NOT EXISTS charging_events (
    id BIGSERIAL PRIMARY KEY,
    vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
    user_id BIGINT NOT NULL,
    date TIMESTAMP WITH TIME ZONE NOT NULL,
    odometer DOUBLE PRECISION NOT NULL,
    charge_type VARCHAR(10) NOT NULL,
    charge_speed_kw DOUBLE PRECISION NOT NULL DEFAULT 0,
    location_label VARCHAR(200) NOT NULL DEFAULT '',
    charge_network VARCHAR(100) NOT NULL DEFAULT '',
    energy_kwh DOUBLE PRECISION NOT NULL,
    duration_mins INT NOT NULL DEFAULT 0,
    cost_per_kwh DOUBLE PRECISION NOT NULL DEFAULT 0,
    soc_from INT NOT NULL,
    soc_to INT NOT NULL,
    ambient_temp_c DOUBLE PRECISION,
    preconditioning INT NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_charging_events_vehicle_date ON charging_events(vehicle_id, date);
`
