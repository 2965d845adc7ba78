package acceptance

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

func (ts *TestServer) createTestTrip(t *testing.T) (tripID, routeID, passengerID string) {
	t.Helper()

	r := ts.CreateTestRoute(t, "Seoul Station", "Busan Station", time.Now().Add(time.Hour).UTC())
	p := ts.CreateTestPassenger(t, "Kim", "010-0000-0000")

	w := ts.POST("/fms/trips", map[string]any{
		"routeId":            r["id"],
		"passengerId":        p["id"],
		"pickupLocationName": "Daejeon Station",
		"pickupTime":         time.Now().Add(90 * time.Minute).UTC().Format(time.RFC3339),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create trip: %d %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	decode(t, w, &resp)
	return resp["id"].(string), r["id"].(string), p["id"].(string)
}

func TestCreateTrip_StartsPending(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	r := ts.CreateTestRoute(t, "Seoul Station", "Busan Station", time.Now().Add(time.Hour).UTC())
	p := ts.CreateTestPassenger(t, "Kim", "010-0000-0000")

	w := ts.POST("/fms/trips", map[string]any{
		"routeId":            r["id"],
		"passengerId":        p["id"],
		"pickupLocationName": "Daejeon Station",
		"pickupTime":         "2025-07-05T11:30:00Z",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	decode(t, w, &resp)
	if resp["isApproved"] != false {
		t.Errorf("new trip must not be approved, got %v", resp["isApproved"])
	}
	if resp["status"] != "pending" {
		t.Errorf("expected pending status, got %v", resp["status"])
	}
	if resp["pickupLocationName"] != "Daejeon Station" {
		t.Errorf("expected pickup location to echo input, got %v", resp["pickupLocationName"])
	}
}

func TestCreateTrip_DanglingReferencesRejected(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	p := ts.CreateTestPassenger(t, "Kim", "010-0000-0000")

	w := ts.POST("/fms/trips", map[string]any{
		"routeId":            uuid.NewString(),
		"passengerId":        p["id"],
		"pickupLocationName": "Daejeon Station",
		"pickupTime":         "2025-07-05T11:30:00Z",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown route, got %d", w.Code)
	}

	r := ts.CreateTestRoute(t, "Seoul Station", "Busan Station", time.Now().Add(time.Hour).UTC())
	w = ts.POST("/fms/trips", map[string]any{
		"routeId":            r["id"],
		"passengerId":        uuid.NewString(),
		"pickupLocationName": "Daejeon Station",
		"pickupTime":         "2025-07-05T11:30:00Z",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown passenger, got %d", w.Code)
	}

	// Neither attempt may leave a trip behind.
	var trips []map[string]any
	decode(t, ts.GET("/fms/trips"), &trips)
	if len(trips) != 0 {
		t.Errorf("expected no trips after rejected creates, got %d", len(trips))
	}
}

func TestGetTrip(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	tripID, _, _ := ts.createTestTrip(t)

	w := ts.GET("/fms/trips/" + tripID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]any
	decode(t, w, &resp)
	if resp["id"] != tripID {
		t.Errorf("expected trip %s, got %v", tripID, resp["id"])
	}

	if w := ts.GET("/fms/trips/" + uuid.NewString()); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing trip, got %d", w.Code)
	}
}

func TestFindTrips_ApprovalFilterIsTriState(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	pendingID, routeID, passengerID := ts.createTestTrip(t)

	w := ts.POST("/fms/trips", map[string]any{
		"routeId":            routeID,
		"passengerId":        passengerID,
		"pickupLocationName": "Suwon Station",
		"pickupTime":         "2025-07-05T12:00:00Z",
	})
	var second map[string]any
	decode(t, w, &second)
	if w := ts.PUT("/fms/trips/"+second["id"].(string)+"/approve", nil); w.Code != http.StatusOK {
		t.Fatalf("failed to approve trip: %d", w.Code)
	}

	// Omitted filter returns both.
	var all []map[string]any
	decode(t, ts.GET("/fms/trips?routeId="+routeID), &all)
	if len(all) != 2 {
		t.Fatalf("expected 2 trips without approval filter, got %d", len(all))
	}

	// Explicit false returns only the pending one.
	var pending []map[string]any
	decode(t, ts.GET("/fms/trips?routeId="+routeID+"&isApproved=false"), &pending)
	if len(pending) != 1 || pending[0]["id"] != pendingID {
		t.Errorf("expected only the pending trip, got %v", pending)
	}

	var approved []map[string]any
	decode(t, ts.GET("/fms/trips?routeId="+routeID+"&isApproved=true"), &approved)
	if len(approved) != 1 || approved[0]["id"] != second["id"] {
		t.Errorf("expected only the approved trip, got %v", approved)
	}
}

func TestApproveTrip_Idempotent(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	tripID, _, _ := ts.createTestTrip(t)

	w := ts.PUT("/fms/trips/"+tripID+"/approve", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on first approve, got %d", w.Code)
	}
	var first map[string]any
	decode(t, w, &first)
	if first["isApproved"] != true {
		t.Errorf("expected approved trip, got %v", first["isApproved"])
	}

	// A second approve succeeds and reports the same state.
	w = ts.PUT("/fms/trips/"+tripID+"/approve", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat approve, got %d", w.Code)
	}
	var second map[string]any
	decode(t, w, &second)
	if second["isApproved"] != true || second["status"] != "approved" {
		t.Errorf("repeat approve changed state: %v", second)
	}
}

func TestApproveTrip_MissingReturns404(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	w := ts.PUT("/fms/trips/"+uuid.NewString()+"/approve", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
