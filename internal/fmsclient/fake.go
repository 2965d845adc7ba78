package fmsclient

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// FakeClient is an in-memory Client for tests.
type FakeClient struct {
	mu         sync.Mutex
	Routes     map[uuid.UUID]Route
	Trips      map[uuid.UUID]Trip
	Passengers map[uuid.UUID]Passenger
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		Routes:     make(map[uuid.UUID]Route),
		Trips:      make(map[uuid.UUID]Trip),
		Passengers: make(map[uuid.UUID]Passenger),
	}
}

func (c *FakeClient) CreateRoute(ctx context.Context, req CreateRouteRequest) (Route, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	driverID := req.DriverID
	r := Route{
		ID:                      uuid.New(),
		DriverID:                &driverID,
		Plate:                   &req.Plate,
		DepartureLocationName:   req.DepartureLocationName,
		DepartureTime:           req.DepartureTime,
		DestinationLocationName: req.DestinationLocationName,
		Assignment:              "assigned",
	}
	if req.DriverName != "" {
		r.DriverName = &req.DriverName
	}
	if req.DriverContact != "" {
		r.DriverContact = &req.DriverContact
	}
	c.Routes[r.ID] = r
	return r, nil
}

func (c *FakeClient) CreatePassengerRoute(ctx context.Context, req CreatePassengerRouteRequest) (Route, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	passengerID := uuid.New()
	r := Route{
		ID:                      uuid.New(),
		DepartureLocationName:   req.DepartureLocationName,
		DepartureTime:           req.DepartureTime,
		DestinationLocationName: req.DestinationLocationName,
		Assignment:              "unassigned",
		PassengerID:             &passengerID,
		PassengerName:           &req.PassengerName,
		PassengerContact:        &req.PassengerContact,
	}
	c.Routes[r.ID] = r
	return r, nil
}

func (c *FakeClient) InvolveDriver(ctx context.Context, routeID uuid.UUID, req InvolveDriverRequest) (Route, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.Routes[routeID]
	if !ok {
		return Route{}, ErrNotFound
	}
	if r.DriverID != nil {
		return Route{}, ErrConflict
	}
	driverID := req.DriverID
	r.DriverID = &driverID
	r.Plate = &req.Plate
	r.DriverName = &req.DriverName
	r.DriverContact = &req.DriverContact
	r.Assignment = "assigned"
	r.ConfirmOnboard = true
	c.Routes[routeID] = r
	return r, nil
}

func (c *FakeClient) GetRoute(ctx context.Context, routeID uuid.UUID) (Route, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.Routes[routeID]
	if !ok {
		return Route{}, ErrNotFound
	}
	return r, nil
}

func (c *FakeClient) FindRoutes(ctx context.Context, filter RouteFilter) ([]Route, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var routes []Route
	for _, r := range c.Routes {
		if filter.DriverID != nil && (r.DriverID == nil || *r.DriverID != *filter.DriverID) {
			continue
		}
		if filter.StartTime != nil && r.DepartureTime.Before(*filter.StartTime) {
			continue
		}
		if filter.EndTime != nil && r.DepartureTime.After(*filter.EndTime) {
			continue
		}
		if filter.DepartureName != nil && r.DepartureLocationName != *filter.DepartureName {
			continue
		}
		if filter.DestinationName != nil && r.DestinationLocationName != *filter.DestinationName {
			continue
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func (c *FakeClient) DeleteRoute(ctx context.Context, routeID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.Routes, routeID)
	return nil
}

func (c *FakeClient) CreateTrip(ctx context.Context, req CreateTripRequest) (Trip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := Trip{
		ID:                 uuid.New(),
		RouteID:            req.RouteID,
		PassengerID:        req.PassengerID,
		PickupLocationName: req.PickupLocationName,
		PickupTime:         req.PickupTime,
		Status:             "pending",
	}
	c.Trips[t.ID] = t
	return t, nil
}

func (c *FakeClient) GetTrip(ctx context.Context, tripID uuid.UUID) (Trip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.Trips[tripID]
	if !ok {
		return Trip{}, ErrNotFound
	}
	return t, nil
}

func (c *FakeClient) FindTrips(ctx context.Context, filter TripFilter) ([]Trip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var trips []Trip
	for _, t := range c.Trips {
		if filter.RouteID != nil && t.RouteID != *filter.RouteID {
			continue
		}
		if filter.PassengerID != nil && t.PassengerID != *filter.PassengerID {
			continue
		}
		if filter.IsApproved != nil && t.IsApproved != *filter.IsApproved {
			continue
		}
		trips = append(trips, t)
	}
	return trips, nil
}

func (c *FakeClient) ApproveTrip(ctx context.Context, tripID uuid.UUID) (Trip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.Trips[tripID]
	if !ok {
		return Trip{}, ErrNotFound
	}
	t.IsApproved = true
	t.Status = "approved"
	c.Trips[tripID] = t
	return t, nil
}

func (c *FakeClient) CreatePassenger(ctx context.Context, req CreatePassengerRequest) (Passenger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := Passenger{
		ID:          uuid.New(),
		Name:        req.Name,
		ContactInfo: req.ContactInfo,
	}
	if req.Nickname != "" {
		for _, existing := range c.Passengers {
			if existing.Nickname != nil && *existing.Nickname == req.Nickname {
				return Passenger{}, ErrConflict
			}
		}
		p.Nickname = &req.Nickname
	}
	c.Passengers[p.ID] = p
	return p, nil
}
