package fmsclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHTTPClient_CreateRoute(t *testing.T) {
	driverID := uuid.New()
	routeID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/fms/routes" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("expected bearer token, got %q", got)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if body["driverId"] != driverID.String() {
			t.Errorf("expected driverId %s, got %v", driverID, body["driverId"])
		}
		if body["departureTime"] != "2025-07-05T10:00:00Z" {
			t.Errorf("expected RFC 3339 departure time, got %v", body["departureTime"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":                      routeID.String(),
			"driverId":                driverID.String(),
			"plate":                   "12-AB-3456",
			"departureLocationName":   "Seoul Station",
			"departureTime":           "2025-07-05T10:00:00Z",
			"destinationLocationName": "Busan Station",
			"assignment":              "assigned",
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sekrit")
	route, err := c.CreateRoute(context.Background(), CreateRouteRequest{
		DriverID:                driverID,
		Plate:                   "12-AB-3456",
		DepartureLocationName:   "Seoul Station",
		DepartureTime:           time.Date(2025, 7, 5, 10, 0, 0, 0, time.UTC),
		DestinationLocationName: "Busan Station",
	})
	if err != nil {
		t.Fatalf("CreateRoute failed: %v", err)
	}
	if route.ID != routeID || route.Assignment != "assigned" {
		t.Errorf("unexpected route: %+v", route)
	}
}

func TestHTTPClient_FindRoutesQuery(t *testing.T) {
	driverID := uuid.New()
	departure := "Seoul Station"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("driverId") != driverID.String() {
			t.Errorf("expected driverId in query, got %q", q.Get("driverId"))
		}
		if q.Get("departureLocationName") != departure {
			t.Errorf("expected departure name in query, got %q", q.Get("departureLocationName"))
		}
		if q.Has("startTime") || q.Has("endTime") || q.Has("destinationLocationName") {
			t.Errorf("unset filters must not appear in the query: %v", q)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	routes, err := c.FindRoutes(context.Background(), RouteFilter{
		DriverID:      &driverID,
		DepartureName: &departure,
	})
	if err != nil {
		t.Fatalf("FindRoutes failed: %v", err)
	}
	if len(routes) != 0 {
		t.Errorf("expected no routes, got %v", routes)
	}
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fms/routes/" + missingID.String():
			w.WriteHeader(http.StatusNotFound)
		case "/fms/routes/" + takenID.String() + "/involve-driver":
			w.WriteHeader(http.StatusConflict)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	ctx := context.Background()

	if _, err := c.GetRoute(ctx, missingID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.InvolveDriver(ctx, takenID, InvolveDriverRequest{
		DriverID: uuid.New(),
		Plate:    "12-AB-3456",
	}); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if _, err := c.CreateTrip(ctx, CreateTripRequest{}); err == nil ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		t.Errorf("expected a plain error for 400, got %v", err)
	}
}

var (
	missingID = uuid.New()
	takenID   = uuid.New()
)

func TestHTTPClient_ApproveTrip(t *testing.T) {
	tripID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/fms/trips/"+tripID.String()+"/approve" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":         tripID.String(),
			"routeId":    uuid.NewString(),
			"isApproved": true,
			"status":     "approved",
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	trip, err := c.ApproveTrip(context.Background(), tripID)
	if err != nil {
		t.Fatalf("ApproveTrip failed: %v", err)
	}
	if !trip.IsApproved || trip.Status != "approved" {
		t.Errorf("unexpected trip: %+v", trip)
	}
}

func TestHTTPClient_DeleteRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	if err := c.DeleteRoute(context.Background(), uuid.New()); err != nil {
		t.Fatalf("DeleteRoute failed: %v", err)
	}
}
