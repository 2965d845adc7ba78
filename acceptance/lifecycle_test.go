package acceptance

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

// TestPassengerRouteLifecycle walks the full passenger-initiated flow:
// open a route without a driver, attach one, request a trip on it, approve.
func TestPassengerRouteLifecycle(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	w := ts.POST("/fms/routes/passenger-initiated", map[string]any{
		"departureLocationName":   "Seoul Station",
		"departureTime":           "2025-07-05T10:00:00Z",
		"destinationLocationName": "Busan Station",
		"passengerName":           "Kim",
		"passengerContact":        "010-0000-0000",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating passenger route, got %d: %s", w.Code, w.Body.String())
	}

	var created map[string]any
	decode(t, w, &created)
	for _, field := range []string{"driverId", "driverName", "driverContact", "plate"} {
		if created[field] != nil {
			t.Errorf("expected %s to be null on a passenger route, got %v", field, created[field])
		}
	}
	if created["assignment"] != "unassigned" {
		t.Errorf("expected unassigned route, got %v", created["assignment"])
	}
	if created["passengerName"] != "Kim" || created["passengerContact"] != "010-0000-0000" {
		t.Errorf("expected passenger projection on the route, got %v", created)
	}
	routeID := created["id"].(string)
	passengerID := created["passengerId"].(string)

	driverID := uuid.NewString()
	w = ts.PUT("/fms/routes/"+routeID+"/involve-driver", map[string]any{
		"driverId":      driverID,
		"plate":         "12-AB-3456",
		"driverName":    "Lee",
		"driverContact": "010-1111-1111",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 involving driver, got %d: %s", w.Code, w.Body.String())
	}

	var assigned map[string]any
	decode(t, w, &assigned)
	if assigned["driverId"] != driverID || assigned["plate"] != "12-AB-3456" ||
		assigned["driverName"] != "Lee" || assigned["driverContact"] != "010-1111-1111" {
		t.Errorf("driver fields not fully populated: %v", assigned)
	}
	if assigned["confirmOnboard"] != true {
		t.Errorf("expected confirmOnboard true after involving driver, got %v", assigned["confirmOnboard"])
	}
	if assigned["assignment"] != "assigned" {
		t.Errorf("expected assigned route, got %v", assigned["assignment"])
	}

	w = ts.POST("/fms/trips", map[string]any{
		"routeId":            routeID,
		"passengerId":        passengerID,
		"pickupLocationName": "Seoul Station",
		"pickupTime":         "2025-07-05T10:00:00Z",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating trip, got %d: %s", w.Code, w.Body.String())
	}
	var trip map[string]any
	decode(t, w, &trip)
	if trip["isApproved"] != false {
		t.Errorf("expected unapproved trip, got %v", trip["isApproved"])
	}

	w = ts.PUT("/fms/trips/"+trip["id"].(string)+"/approve", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 approving trip, got %d: %s", w.Code, w.Body.String())
	}
	var approved map[string]any
	decode(t, w, &approved)
	if approved["isApproved"] != true {
		t.Errorf("expected approved trip, got %v", approved["isApproved"])
	}
}
