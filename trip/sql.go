package trip

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

var ErrNotFound = errors.New("trip not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a trip in the pending state. Referential checks against
// routes and passengers belong to the caller; the ledger only records.
func (r *Repository) Create(ctx context.Context, routeID, passengerID uuid.UUID, pickupLocationName string, pickupTime time.Time) (Trip, error) {
	var t Trip
	err := r.db.GetContext(ctx, &t, createTripQuery,
		uuid.New(), routeID, passengerID, pickupLocationName, pickupTime)
	return t, err
}

const createTripQuery = `
INSERT INTO trips (id, route_id, passenger_id, pickup_location_name, pickup_time,
                   is_approved, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, false, now(), now())
RETURNING *
`

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Trip, error) {
	var t Trip
	err := r.db.GetContext(ctx, &t, getTripByIDQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Trip{}, ErrNotFound
	}
	return t, err
}

const getTripByIDQuery = `SELECT * FROM trips WHERE id = $1`

// Filter holds optional search predicates with AND semantics. IsApproved is
// a pointer so that an explicit false filters on unapproved trips while nil
// means the field is ignored.
type Filter struct {
	RouteID     *uuid.UUID
	PassengerID *uuid.UUID
	IsApproved  *bool
}

func (r *Repository) Find(ctx context.Context, f Filter) ([]Trip, error) {
	query := `SELECT * FROM trips`
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.RouteID != nil {
		add("route_id = $%d", *f.RouteID)
	}
	if f.PassengerID != nil {
		add("passenger_id = $%d", *f.PassengerID)
	}
	if f.IsApproved != nil {
		add("is_approved = $%d", *f.IsApproved)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at ASC"

	var trips []Trip
	err := r.db.SelectContext(ctx, &trips, query, args...)
	return trips, err
}

// Approve flips the approval flag. Approving an already-approved trip is a
// no-op that returns the same approved state.
func (r *Repository) Approve(ctx context.Context, id uuid.UUID) (Trip, error) {
	var t Trip
	err := r.db.GetContext(ctx, &t, approveTripQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Trip{}, ErrNotFound
	}
	return t, err
}

const approveTripQuery = `
UPDATE trips SET is_approved = true, updated_at = now() WHERE id = $1 RETURNING *
`
