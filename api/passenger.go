package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tagocar/fms-backend/internal/middleware"
	"github.com/tagocar/fms-backend/passenger"
)

type passengerResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactInfo string    `json:"contactInfo"`
	Nickname    *string   `json:"nickname,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toPassengerResponse(p passenger.Passenger) passengerResponse {
	return passengerResponse{
		ID:          p.ID,
		Name:        p.Name,
		ContactInfo: p.ContactInfo,
		Nickname:    nullableString(p.Nickname),
		CreatedAt:   p.CreatedAt,
	}
}

type createPassengerRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactInfo string `json:"contactInfo" binding:"required"`
	Nickname    string `json:"nickname"`
	Password    string `json:"password"`
}

func (a *API) createPassengerHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req createPassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}
	if (req.Nickname == "") != (req.Password == "") {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "nickname and password must be supplied together"})
		return
	}

	p, err := a.pr.Create(c, passenger.CreateParams{
		Name:        req.Name,
		ContactInfo: req.ContactInfo,
		Nickname:    req.Nickname,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, passenger.ErrNicknameTaken) {
			c.JSON(http.StatusConflict, gin.H{"code": "NICKNAME_TAKEN", "message": "Nickname already taken"})
			return
		}
		logger.ErrorContext(c, "failed to create passenger", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, toPassengerResponse(p))
}

func (a *API) getPassengerHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	passengerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid passenger id"})
		return
	}

	p, err := a.pr.GetByID(c, passengerID)
	if err != nil {
		if errors.Is(err, passenger.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "PASSENGER_NOT_FOUND", "message": "Passenger not found"})
			return
		}
		logger.ErrorContext(c, "failed to get passenger", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toPassengerResponse(p))
}
