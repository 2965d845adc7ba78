package route

import (
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Assignment is the driver-assignment state of a route, derived from its
// driver fields rather than stored.
type Assignment int

const (
	Unassigned Assignment = iota
	Assigned
)

func (a Assignment) String() string {
	return [...]string{"unassigned", "assigned"}[a]
}

func (a Assignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// Route is a planned journey. Driver fields are either all null (the route
// was opened by a passenger and is waiting for a driver) or all set.
type Route struct {
	ID              uuid.UUID
	DriverID        uuid.NullUUID  `db:"driver_id"`
	DriverName      sql.NullString `db:"driver_name"`
	DriverContact   sql.NullString `db:"driver_contact"`
	PlateNumber     sql.NullString `db:"plate_number"`
	DepartureName   string         `db:"departure_location_name"`
	DepartureTime   time.Time      `db:"departure_time"`
	DestinationName string         `db:"destination_location_name"`
	ConfirmOnboard  bool           `db:"confirm_onboard"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`

	// PassengerID references the passenger that opened the route, when it
	// was passenger-initiated. Name and contact are projected from the
	// passengers table at read time.
	PassengerID      uuid.NullUUID  `db:"passenger_id"`
	PassengerName    sql.NullString `db:"passenger_name"`
	PassengerContact sql.NullString `db:"passenger_contact"`
}

// Assignment reports whether a driver has been attached yet.
func (r Route) Assignment() Assignment {
	if r.DriverID.Valid {
		return Assigned
	}
	return Unassigned
}
