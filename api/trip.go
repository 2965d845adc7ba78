package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tagocar/fms-backend/internal/middleware"
	"github.com/tagocar/fms-backend/passenger"
	"github.com/tagocar/fms-backend/route"
	"github.com/tagocar/fms-backend/trip"
)

type tripResponse struct {
	ID                 uuid.UUID   `json:"id"`
	RouteID            uuid.UUID   `json:"routeId"`
	PassengerID        uuid.UUID   `json:"passengerId"`
	PickupLocationName string      `json:"pickupLocationName"`
	PickupTime         time.Time   `json:"pickupTime"`
	IsApproved         bool        `json:"isApproved"`
	Status             trip.Status `json:"status"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

func toTripResponse(t trip.Trip) tripResponse {
	return tripResponse{
		ID:                 t.ID,
		RouteID:            t.RouteID,
		PassengerID:        t.PassengerID,
		PickupLocationName: t.PickupLocationName,
		PickupTime:         t.PickupTime,
		IsApproved:         t.IsApproved,
		Status:             t.Status(),
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

type createTripRequest struct {
	RouteID            string `json:"routeId" binding:"required"`
	PassengerID        string `json:"passengerId" binding:"required"`
	PickupLocationName string `json:"pickupLocationName" binding:"required"`
	PickupTime         string `json:"pickupTime" binding:"required"`
}

func (a *API) createTripHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req createTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}
	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid routeId"})
		return
	}
	passengerID, err := uuid.Parse(req.PassengerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid passengerId"})
		return
	}
	pickupTime, err := time.Parse(time.RFC3339, req.PickupTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid pickupTime format"})
		return
	}

	// A trip must not dangle: both references are checked before insert.
	if _, err := a.rr.GetByID(c, routeID); err != nil {
		if errors.Is(err, route.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"code": "UNKNOWN_ROUTE", "message": "Route does not exist"})
			return
		}
		logger.ErrorContext(c, "failed to verify route", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if _, err := a.pr.GetByID(c, passengerID); err != nil {
		if errors.Is(err, passenger.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"code": "UNKNOWN_PASSENGER", "message": "Passenger does not exist"})
			return
		}
		logger.ErrorContext(c, "failed to verify passenger", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	t, err := a.tr.Create(c, routeID, passengerID, req.PickupLocationName, pickupTime)
	if err != nil {
		logger.ErrorContext(c, "failed to create trip", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, toTripResponse(t))
}

func (a *API) getTripHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid trip id"})
		return
	}

	t, err := a.tr.GetByID(c, tripID)
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "TRIP_NOT_FOUND", "message": "Trip not found"})
			return
		}
		logger.ErrorContext(c, "failed to get trip", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toTripResponse(t))
}

func (a *API) findTripsHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var f trip.Filter
	if v := c.Query("routeId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid routeId"})
			return
		}
		f.RouteID = &id
	}
	if v := c.Query("passengerId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid passengerId"})
			return
		}
		f.PassengerID = &id
	}
	if v := c.Query("isApproved"); v != "" {
		approved, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid isApproved"})
			return
		}
		f.IsApproved = &approved
	}

	trips, err := a.tr.Find(c, f)
	if err != nil {
		logger.ErrorContext(c, "failed to find trips", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		responses = append(responses, toTripResponse(t))
	}
	c.JSON(http.StatusOK, responses)
}

func (a *API) approveTripHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid trip id"})
		return
	}

	t, err := a.tr.Approve(c, tripID)
	if err != nil {
		if errors.Is(err, trip.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "TRIP_NOT_FOUND", "message": "Trip not found"})
			return
		}
		logger.ErrorContext(c, "failed to approve trip", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toTripResponse(t))
}
