package route

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound       = errors.New("route not found")
	ErrDriverAssigned = errors.New("route already has a driver")
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const selectRouteBase = `
SELECT r.*, p.name AS passenger_name, p.contact_info AS passenger_contact
FROM routes r
LEFT JOIN passengers p ON r.passenger_id = p.id
`

// CreateParams describes a driver-opened route. Driver name and contact may
// be omitted by older callers; id and plate are always required.
type CreateParams struct {
	DriverID        uuid.UUID
	PlateNumber     string
	DriverName      string
	DriverContact   string
	DepartureName   string
	DepartureTime   time.Time
	DestinationName string
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Route, error) {
	id := uuid.New()
	_, err := r.db.ExecContext(ctx, createRouteQuery,
		id, params.DriverID, params.PlateNumber,
		nullIfEmpty(params.DriverName), nullIfEmpty(params.DriverContact),
		params.DepartureName, params.DepartureTime, params.DestinationName)
	if err != nil {
		return Route{}, err
	}
	return r.GetByID(ctx, id)
}

const createRouteQuery = `
INSERT INTO routes (id, driver_id, plate_number, driver_name, driver_contact,
                    departure_location_name, departure_time, destination_location_name,
                    confirm_onboard, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, now(), now())
`

// CreatePassengerInitiated opens a route with no driver attached. The
// passenger row must already exist; its name and contact are never copied
// onto the route.
func (r *Repository) CreatePassengerInitiated(ctx context.Context, passengerID uuid.UUID, departureName string, departureTime time.Time, destinationName string) (Route, error) {
	id := uuid.New()
	_, err := r.db.ExecContext(ctx, createPassengerRouteQuery,
		id, passengerID, departureName, departureTime, destinationName)
	if err != nil {
		return Route{}, err
	}
	return r.GetByID(ctx, id)
}

const createPassengerRouteQuery = `
INSERT INTO routes (id, passenger_id, departure_location_name, departure_time,
                    destination_location_name, confirm_onboard, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, false, now(), now())
`

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Route, error) {
	var rt Route
	err := r.db.GetContext(ctx, &rt, selectRouteBase+`WHERE r.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Route{}, ErrNotFound
	}
	return rt, err
}

// Filter holds optional search predicates. Nil fields are ignored; supplied
// fields AND together. StartTime and EndTime bound departure_time
// inclusively.
type Filter struct {
	DriverID        *uuid.UUID
	StartTime       *time.Time
	EndTime         *time.Time
	DepartureName   *string
	DestinationName *string
}

func (r *Repository) Find(ctx context.Context, f Filter) ([]Route, error) {
	query := selectRouteBase
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.DriverID != nil {
		add("r.driver_id = $%d", *f.DriverID)
	}
	if f.StartTime != nil {
		add("r.departure_time >= $%d", *f.StartTime)
	}
	if f.EndTime != nil {
		add("r.departure_time <= $%d", *f.EndTime)
	}
	if f.DepartureName != nil {
		add("r.departure_location_name = $%d", *f.DepartureName)
	}
	if f.DestinationName != nil {
		add("r.destination_location_name = $%d", *f.DestinationName)
	}
	if len(conds) > 0 {
		query += "WHERE " + strings.Join(conds, " AND ") + "\n"
	}
	query += "ORDER BY r.created_at ASC"

	var routes []Route
	err := r.db.SelectContext(ctx, &routes, query, args...)
	return routes, err
}

// UpdateParams covers the mutable route fields. The id, the driver
// assignment and the timestamps other than updated_at are never touched.
type UpdateParams struct {
	PlateNumber     string
	DepartureName   string
	DepartureTime   time.Time
	DestinationName string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Route, error) {
	res, err := r.db.ExecContext(ctx, updateRouteQuery,
		nullIfEmpty(params.PlateNumber), params.DepartureName, params.DepartureTime, params.DestinationName, id)
	if err != nil {
		return Route{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return Route{}, err
	} else if n == 0 {
		return Route{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

const updateRouteQuery = `
UPDATE routes
SET plate_number = $1,
    departure_location_name = $2,
    departure_time = $3,
    destination_location_name = $4,
    updated_at = now()
WHERE id = $5
`

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteRouteQuery, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

const deleteRouteQuery = `DELETE FROM routes WHERE id = $1`

// InvolveDriverParams fills the driver side of a passenger-initiated route.
// All four fields are required; partial assignment never persists.
type InvolveDriverParams struct {
	DriverID      uuid.UUID
	PlateNumber   string
	DriverName    string
	DriverContact string
}

// InvolveDriver attaches a driver to an unassigned route and confirms
// onboarding. The row is locked for the check so two drivers cannot claim
// the same route.
func (r *Repository) InvolveDriver(ctx context.Context, id uuid.UUID, params InvolveDriverParams) (Route, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return Route{}, err
	}
	defer tx.Rollback()

	var driverID uuid.NullUUID
	err = tx.GetContext(ctx, &driverID, lockRouteDriverQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Route{}, ErrNotFound
	}
	if err != nil {
		return Route{}, err
	}
	if driverID.Valid {
		return Route{}, ErrDriverAssigned
	}

	_, err = tx.ExecContext(ctx, involveDriverQuery,
		params.DriverID, params.PlateNumber, params.DriverName, params.DriverContact, id)
	if err != nil {
		return Route{}, err
	}
	if err := tx.Commit(); err != nil {
		return Route{}, err
	}

	return r.GetByID(ctx, id)
}

const lockRouteDriverQuery = `SELECT driver_id FROM routes WHERE id = $1 FOR UPDATE`

const involveDriverQuery = `
UPDATE routes
SET driver_id = $1,
    plate_number = $2,
    driver_name = $3,
    driver_contact = $4,
    confirm_onboard = true,
    updated_at = now()
WHERE id = $5
`

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
