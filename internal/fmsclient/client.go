// Package fmsclient is a typed client for the FMS REST surface. Agent tool
// wrappers call the backend through it instead of assembling requests by
// hand.
package fmsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("conflict")
)

// Route mirrors the backend's route representation.
type Route struct {
	ID                      uuid.UUID  `json:"id"`
	DriverID                *uuid.UUID `json:"driverId"`
	DriverName              *string    `json:"driverName"`
	DriverContact           *string    `json:"driverContact"`
	Plate                   *string    `json:"plate"`
	DepartureLocationName   string     `json:"departureLocationName"`
	DepartureTime           time.Time  `json:"departureTime"`
	DestinationLocationName string     `json:"destinationLocationName"`
	Assignment              string     `json:"assignment"`
	ConfirmOnboard          bool       `json:"confirmOnboard"`
	PassengerID             *uuid.UUID `json:"passengerId,omitempty"`
	PassengerName           *string    `json:"passengerName,omitempty"`
	PassengerContact        *string    `json:"passengerContact,omitempty"`
}

type Trip struct {
	ID                 uuid.UUID `json:"id"`
	RouteID            uuid.UUID `json:"routeId"`
	PassengerID        uuid.UUID `json:"passengerId"`
	PickupLocationName string    `json:"pickupLocationName"`
	PickupTime         time.Time `json:"pickupTime"`
	IsApproved         bool      `json:"isApproved"`
	Status             string    `json:"status"`
}

type Passenger struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactInfo string    `json:"contactInfo"`
	Nickname    *string   `json:"nickname,omitempty"`
}

// Client is the operation surface the agent wrappers depend on.
type Client interface {
	CreateRoute(ctx context.Context, req CreateRouteRequest) (Route, error)
	CreatePassengerRoute(ctx context.Context, req CreatePassengerRouteRequest) (Route, error)
	InvolveDriver(ctx context.Context, routeID uuid.UUID, req InvolveDriverRequest) (Route, error)
	GetRoute(ctx context.Context, routeID uuid.UUID) (Route, error)
	FindRoutes(ctx context.Context, filter RouteFilter) ([]Route, error)
	DeleteRoute(ctx context.Context, routeID uuid.UUID) error
	CreateTrip(ctx context.Context, req CreateTripRequest) (Trip, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (Trip, error)
	FindTrips(ctx context.Context, filter TripFilter) ([]Trip, error)
	ApproveTrip(ctx context.Context, tripID uuid.UUID) (Trip, error)
	CreatePassenger(ctx context.Context, req CreatePassengerRequest) (Passenger, error)
}

type CreateRouteRequest struct {
	DriverID                uuid.UUID `json:"driverId"`
	Plate                   string    `json:"plate"`
	DriverName              string    `json:"driverName,omitempty"`
	DriverContact           string    `json:"driverContact,omitempty"`
	DepartureLocationName   string    `json:"departureLocationName"`
	DepartureTime           time.Time `json:"departureTime"`
	DestinationLocationName string    `json:"destinationLocationName"`
}

type CreatePassengerRouteRequest struct {
	DepartureLocationName   string    `json:"departureLocationName"`
	DepartureTime           time.Time `json:"departureTime"`
	DestinationLocationName string    `json:"destinationLocationName"`
	PassengerName           string    `json:"passengerName"`
	PassengerContact        string    `json:"passengerContact"`
}

type InvolveDriverRequest struct {
	DriverID      uuid.UUID `json:"driverId"`
	Plate         string    `json:"plate"`
	DriverName    string    `json:"driverName"`
	DriverContact string    `json:"driverContact"`
}

type RouteFilter struct {
	DriverID        *uuid.UUID
	StartTime       *time.Time
	EndTime         *time.Time
	DepartureName   *string
	DestinationName *string
}

type CreateTripRequest struct {
	RouteID            uuid.UUID `json:"routeId"`
	PassengerID        uuid.UUID `json:"passengerId"`
	PickupLocationName string    `json:"pickupLocationName"`
	PickupTime         time.Time `json:"pickupTime"`
}

type TripFilter struct {
	RouteID     *uuid.UUID
	PassengerID *uuid.UUID
	IsApproved  *bool
}

type CreatePassengerRequest struct {
	Name        string `json:"name"`
	ContactInfo string `json:"contactInfo"`
	Nickname    string `json:"nickname,omitempty"`
	Password    string `json:"password,omitempty"`
}

// HTTPClient implements Client against a running backend.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return ErrConflict
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) CreateRoute(ctx context.Context, req CreateRouteRequest) (Route, error) {
	var r Route
	err := c.do(ctx, http.MethodPost, "/fms/routes", wireCreateRoute(req), &r)
	return r, err
}

// The wire format carries times as RFC 3339 strings.
func wireCreateRoute(req CreateRouteRequest) map[string]any {
	return map[string]any{
		"driverId":                req.DriverID.String(),
		"plate":                   req.Plate,
		"driverName":              req.DriverName,
		"driverContact":           req.DriverContact,
		"departureLocationName":   req.DepartureLocationName,
		"departureTime":           req.DepartureTime.Format(time.RFC3339),
		"destinationLocationName": req.DestinationLocationName,
	}
}

func (c *HTTPClient) CreatePassengerRoute(ctx context.Context, req CreatePassengerRouteRequest) (Route, error) {
	var r Route
	body := map[string]any{
		"departureLocationName":   req.DepartureLocationName,
		"departureTime":           req.DepartureTime.Format(time.RFC3339),
		"destinationLocationName": req.DestinationLocationName,
		"passengerName":           req.PassengerName,
		"passengerContact":        req.PassengerContact,
	}
	err := c.do(ctx, http.MethodPost, "/fms/routes/passenger-initiated", body, &r)
	return r, err
}

func (c *HTTPClient) InvolveDriver(ctx context.Context, routeID uuid.UUID, req InvolveDriverRequest) (Route, error) {
	var r Route
	body := map[string]any{
		"driverId":      req.DriverID.String(),
		"plate":         req.Plate,
		"driverName":    req.DriverName,
		"driverContact": req.DriverContact,
	}
	err := c.do(ctx, http.MethodPut, "/fms/routes/"+routeID.String()+"/involve-driver", body, &r)
	return r, err
}

func (c *HTTPClient) GetRoute(ctx context.Context, routeID uuid.UUID) (Route, error) {
	var r Route
	err := c.do(ctx, http.MethodGet, "/fms/routes/"+routeID.String(), nil, &r)
	return r, err
}

func (c *HTTPClient) FindRoutes(ctx context.Context, filter RouteFilter) ([]Route, error) {
	q := url.Values{}
	if filter.DriverID != nil {
		q.Set("driverId", filter.DriverID.String())
	}
	if filter.StartTime != nil {
		q.Set("startTime", filter.StartTime.Format(time.RFC3339))
	}
	if filter.EndTime != nil {
		q.Set("endTime", filter.EndTime.Format(time.RFC3339))
	}
	if filter.DepartureName != nil {
		q.Set("departureLocationName", *filter.DepartureName)
	}
	if filter.DestinationName != nil {
		q.Set("destinationLocationName", *filter.DestinationName)
	}
	path := "/fms/routes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var routes []Route
	err := c.do(ctx, http.MethodGet, path, nil, &routes)
	return routes, err
}

func (c *HTTPClient) DeleteRoute(ctx context.Context, routeID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/fms/routes/"+routeID.String(), nil, nil)
}

func (c *HTTPClient) CreateTrip(ctx context.Context, req CreateTripRequest) (Trip, error) {
	var t Trip
	body := map[string]any{
		"routeId":            req.RouteID.String(),
		"passengerId":        req.PassengerID.String(),
		"pickupLocationName": req.PickupLocationName,
		"pickupTime":         req.PickupTime.Format(time.RFC3339),
	}
	err := c.do(ctx, http.MethodPost, "/fms/trips", body, &t)
	return t, err
}

func (c *HTTPClient) GetTrip(ctx context.Context, tripID uuid.UUID) (Trip, error) {
	var t Trip
	err := c.do(ctx, http.MethodGet, "/fms/trips/"+tripID.String(), nil, &t)
	return t, err
}

func (c *HTTPClient) FindTrips(ctx context.Context, filter TripFilter) ([]Trip, error) {
	q := url.Values{}
	if filter.RouteID != nil {
		q.Set("routeId", filter.RouteID.String())
	}
	if filter.PassengerID != nil {
		q.Set("passengerId", filter.PassengerID.String())
	}
	if filter.IsApproved != nil {
		q.Set("isApproved", fmt.Sprintf("%t", *filter.IsApproved))
	}
	path := "/fms/trips"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var trips []Trip
	err := c.do(ctx, http.MethodGet, path, nil, &trips)
	return trips, err
}

func (c *HTTPClient) ApproveTrip(ctx context.Context, tripID uuid.UUID) (Trip, error) {
	var t Trip
	err := c.do(ctx, http.MethodPut, "/fms/trips/"+tripID.String()+"/approve", nil, &t)
	return t, err
}

func (c *HTTPClient) CreatePassenger(ctx context.Context, req CreatePassengerRequest) (Passenger, error) {
	var p Passenger
	err := c.do(ctx, http.MethodPost, "/fms/passengers", req, &p)
	return p, err
}
