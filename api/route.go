package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tagocar/fms-backend/internal/middleware"
	"github.com/tagocar/fms-backend/passenger"
	"github.com/tagocar/fms-backend/route"
)

type routeResponse struct {
	ID                      uuid.UUID        `json:"id"`
	DriverID                *uuid.UUID       `json:"driverId"`
	DriverName              *string          `json:"driverName"`
	DriverContact           *string          `json:"driverContact"`
	Plate                   *string          `json:"plate"`
	DepartureLocationName   string           `json:"departureLocationName"`
	DepartureTime           time.Time        `json:"departureTime"`
	DestinationLocationName string           `json:"destinationLocationName"`
	Assignment              route.Assignment `json:"assignment"`
	ConfirmOnboard          bool             `json:"confirmOnboard"`
	PassengerID             *uuid.UUID       `json:"passengerId,omitempty"`
	PassengerName           *string          `json:"passengerName,omitempty"`
	PassengerContact        *string          `json:"passengerContact,omitempty"`
	CreatedAt               time.Time        `json:"createdAt"`
	UpdatedAt               time.Time        `json:"updatedAt"`
}

func toRouteResponse(r route.Route) routeResponse {
	resp := routeResponse{
		ID:                      r.ID,
		DriverName:              nullableString(r.DriverName),
		DriverContact:           nullableString(r.DriverContact),
		Plate:                   nullableString(r.PlateNumber),
		DepartureLocationName:   r.DepartureName,
		DepartureTime:           r.DepartureTime,
		DestinationLocationName: r.DestinationName,
		Assignment:              r.Assignment(),
		ConfirmOnboard:          r.ConfirmOnboard,
		PassengerName:           nullableString(r.PassengerName),
		PassengerContact:        nullableString(r.PassengerContact),
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}
	if r.DriverID.Valid {
		id := r.DriverID.UUID
		resp.DriverID = &id
	}
	if r.PassengerID.Valid {
		id := r.PassengerID.UUID
		resp.PassengerID = &id
	}
	return resp
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

type createRouteRequest struct {
	DriverID                string `json:"driverId" binding:"required"`
	Plate                   string `json:"plate" binding:"required"`
	DriverName              string `json:"driverName"`
	DriverContact           string `json:"driverContact"`
	DepartureLocationName   string `json:"departureLocationName" binding:"required"`
	DepartureTime           string `json:"departureTime" binding:"required"`
	DestinationLocationName string `json:"destinationLocationName" binding:"required"`
}

func (a *API) createRouteHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req createRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid driverId"})
		return
	}
	departureTime, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid departureTime format"})
		return
	}

	r, err := a.rr.Create(c, route.CreateParams{
		DriverID:        driverID,
		PlateNumber:     req.Plate,
		DriverName:      req.DriverName,
		DriverContact:   req.DriverContact,
		DepartureName:   req.DepartureLocationName,
		DepartureTime:   departureTime,
		DestinationName: req.DestinationLocationName,
	})
	if err != nil {
		logger.ErrorContext(c, "failed to create route", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, toRouteResponse(r))
}

type createPassengerRouteRequest struct {
	DepartureLocationName   string `json:"departureLocationName" binding:"required"`
	DepartureTime           string `json:"departureTime" binding:"required"`
	DestinationLocationName string `json:"destinationLocationName" binding:"required"`
	PassengerName           string `json:"passengerName" binding:"required"`
	PassengerContact        string `json:"passengerContact" binding:"required"`
}

func (a *API) createPassengerRouteHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req createPassengerRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}
	departureTime, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid departureTime format"})
		return
	}

	// Reuse the passenger row when the contact is already known, otherwise
	// register one on the caller's behalf. The route only ever stores the
	// passenger id.
	p, err := a.pr.GetByContact(c, req.PassengerContact)
	if errors.Is(err, passenger.ErrNotFound) {
		p, err = a.pr.Create(c, passenger.CreateParams{
			Name:        req.PassengerName,
			ContactInfo: req.PassengerContact,
		})
	}
	if err != nil {
		logger.ErrorContext(c, "failed to resolve passenger for route", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	r, err := a.rr.CreatePassengerInitiated(c, p.ID, req.DepartureLocationName, departureTime, req.DestinationLocationName)
	if err != nil {
		logger.ErrorContext(c, "failed to create passenger route", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, toRouteResponse(r))
}

type involveDriverRequest struct {
	DriverID      string `json:"driverId" binding:"required"`
	Plate         string `json:"plate" binding:"required"`
	DriverName    string `json:"driverName" binding:"required"`
	DriverContact string `json:"driverContact" binding:"required"`
}

func (a *API) involveDriverHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid route id"})
		return
	}
	var req involveDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid driverId"})
		return
	}

	r, err := a.rr.InvolveDriver(c, routeID, route.InvolveDriverParams{
		DriverID:      driverID,
		PlateNumber:   req.Plate,
		DriverName:    req.DriverName,
		DriverContact: req.DriverContact,
	})
	if err != nil {
		if errors.Is(err, route.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "ROUTE_NOT_FOUND", "message": "Route not found"})
			return
		}
		if errors.Is(err, route.ErrDriverAssigned) {
			c.JSON(http.StatusConflict, gin.H{"code": "DRIVER_ALREADY_ASSIGNED", "message": "Route already has a driver"})
			return
		}
		logger.ErrorContext(c, "failed to involve driver", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toRouteResponse(r))
}

func (a *API) getRouteHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid route id"})
		return
	}

	r, err := a.rr.GetByID(c, routeID)
	if err != nil {
		if errors.Is(err, route.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "ROUTE_NOT_FOUND", "message": "Route not found"})
			return
		}
		logger.ErrorContext(c, "failed to get route", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toRouteResponse(r))
}

func (a *API) findRoutesHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var f route.Filter
	if v := c.Query("driverId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid driverId"})
			return
		}
		f.DriverID = &id
	}
	if v := c.Query("startTime"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid startTime format"})
			return
		}
		f.StartTime = &t
	}
	if v := c.Query("endTime"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid endTime format"})
			return
		}
		f.EndTime = &t
	}
	if v := c.Query("departureLocationName"); v != "" {
		f.DepartureName = &v
	}
	if v := c.Query("destinationLocationName"); v != "" {
		f.DestinationName = &v
	}

	routes, err := a.rr.Find(c, f)
	if err != nil {
		logger.ErrorContext(c, "failed to find routes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]routeResponse, 0, len(routes))
	for _, r := range routes {
		responses = append(responses, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, responses)
}

type updateRouteRequest struct {
	Plate                   string `json:"plate"`
	DepartureLocationName   string `json:"departureLocationName" binding:"required"`
	DepartureTime           string `json:"departureTime" binding:"required"`
	DestinationLocationName string `json:"destinationLocationName" binding:"required"`
}

func (a *API) updateRouteHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid route id"})
		return
	}
	var req updateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}
	departureTime, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid departureTime format"})
		return
	}

	r, err := a.rr.Update(c, routeID, route.UpdateParams{
		PlateNumber:     req.Plate,
		DepartureName:   req.DepartureLocationName,
		DepartureTime:   departureTime,
		DestinationName: req.DestinationLocationName,
	})
	if err != nil {
		if errors.Is(err, route.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "ROUTE_NOT_FOUND", "message": "Route not found"})
			return
		}
		logger.ErrorContext(c, "failed to update route", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toRouteResponse(r))
}

func (a *API) deleteRouteHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid route id"})
		return
	}

	// Deleting a missing route is not an error at this boundary.
	err = a.rr.Delete(c, routeID)
	if err != nil && !errors.Is(err, route.ErrNotFound) {
		logger.ErrorContext(c, "failed to delete route", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}
