package passenger

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Passenger is a registered rider. Nickname and PasswordHash are only set
// for passengers that signed up with credentials; passengers created on
// their behalf (e.g. via a passenger-initiated route) carry neither.
type Passenger struct {
	ID           uuid.UUID
	Name         string
	ContactInfo  string         `db:"contact_info"`
	Nickname     sql.NullString `db:"nickname"`
	PasswordHash sql.NullString `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
