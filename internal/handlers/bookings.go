package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"hallbook/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateBooking - POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, ok := userID(c)
	if !ok {
		return
	}

	response, err := h.services.Bookings.Create(c.Request.Context(), uid, &req)
	if err != nil {
		slog.Error("Failed to create booking", "error", err, "hall_id", req.HallID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListBookings - GET /api/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	response, err := h.services.Bookings.List(c.Request.Context(), uid)
	if err != nil {
		slog.Error("Failed to list bookings", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetBooking - GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	uid, ok := userID(c)
	if !ok {
		return
	}

	booking, err := h.services.Bookings.Get(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking - PATCH /api/bookings/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, ok := userID(c)
	if !ok {
		return
	}

	booking, err := h.services.Bookings.Cancel(c.Request.Context(), uid, req.BookingID)
	if err != nil {
		slog.Error("Failed to cancel booking", "error", err, "booking_id", req.BookingID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}
