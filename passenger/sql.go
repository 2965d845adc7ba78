package passenger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound      = errors.New("passenger not found")
	ErrNicknameTaken = errors.New("nickname already taken")
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// CreateParams carries the registration input. Nickname and Password are
// optional together: a passenger without credentials can still be referenced
// by routes and trips.
type CreateParams struct {
	Name        string
	ContactInfo string
	Nickname    string
	Password    string
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Passenger, error) {
	var nickname, passwordHash sql.NullString
	if params.Nickname != "" {
		nickname = sql.NullString{String: params.Nickname, Valid: true}
	}
	if params.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
		if err != nil {
			return Passenger{}, err
		}
		passwordHash = sql.NullString{String: string(hash), Valid: true}
	}

	var p Passenger
	err := r.db.GetContext(ctx, &p, createPassengerQuery,
		uuid.New(), params.Name, params.ContactInfo, nickname, passwordHash)
	if isUniqueViolation(err) {
		return Passenger{}, ErrNicknameTaken
	}
	return p, err
}

const createPassengerQuery = `
INSERT INTO passengers (id, name, contact_info, nickname, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
RETURNING *
`

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Passenger, error) {
	var p Passenger
	err := r.db.GetContext(ctx, &p, getPassengerByIDQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Passenger{}, ErrNotFound
	}
	return p, err
}

const getPassengerByIDQuery = `SELECT * FROM passengers WHERE id = $1`

func (r *Repository) GetByNickname(ctx context.Context, nickname string) (Passenger, error) {
	var p Passenger
	err := r.db.GetContext(ctx, &p, getPassengerByNicknameQuery, nickname)
	if errors.Is(err, sql.ErrNoRows) {
		return Passenger{}, ErrNotFound
	}
	return p, err
}

const getPassengerByNicknameQuery = `SELECT * FROM passengers WHERE nickname = $1`

// GetByContact resolves the most recently registered passenger with the
// given contact string. Contact info is not unique, so this is a best-effort
// lookup used when a passenger-initiated route names its caller.
func (r *Repository) GetByContact(ctx context.Context, contactInfo string) (Passenger, error) {
	var p Passenger
	err := r.db.GetContext(ctx, &p, getPassengerByContactQuery, contactInfo)
	if errors.Is(err, sql.ErrNoRows) {
		return Passenger{}, ErrNotFound
	}
	return p, err
}

const getPassengerByContactQuery = `
SELECT * FROM passengers WHERE contact_info = $1 ORDER BY created_at DESC LIMIT 1
`

// VerifyPassword checks a plaintext password against the stored hash.
func (p Passenger) VerifyPassword(password string) bool {
	if !p.PasswordHash.Valid {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash.String), []byte(password)) == nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
