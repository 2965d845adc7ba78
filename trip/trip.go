package trip

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Status is derived from the approval flag; it is never stored.
type Status int

const (
	Pending Status = iota
	Approved
)

func (s Status) String() string {
	return [...]string{"pending", "approved"}[s]
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Trip is a ride request binding one passenger to one route. The pickup
// location is free text and may differ from the route's departure location
// (a mid-route pickup).
type Trip struct {
	ID                 uuid.UUID
	RouteID            uuid.UUID `db:"route_id"`
	PassengerID        uuid.UUID `db:"passenger_id"`
	PickupLocationName string    `db:"pickup_location_name"`
	PickupTime         time.Time `db:"pickup_time"`
	IsApproved         bool      `db:"is_approved"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (t Trip) Status() Status {
	if t.IsApproved {
		return Approved
	}
	return Pending
}
