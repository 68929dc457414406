package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"hallbook/internal/models"

	"github.com/gin-gonic/gin"
)

// InitiatePayment - POST /api/payments/initiate
func (h *Handlers) InitiatePayment(c *gin.Context) {
	var req models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, ok := userID(c)
	if !ok {
		return
	}

	response, err := h.services.Payments.InitiatePayment(c.Request.Context(), uid, &req)
	if err != nil {
		slog.Error("Failed to initiate payment", "error", err, "booking_id", req.BookingID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// VerifyPayment - POST /api/payments/verify
func (h *Handlers) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, ok := userID(c)
	if !ok {
		return
	}

	response, err := h.services.Payments.VerifyPayment(c.Request.Context(), uid, &req)
	if err != nil {
		slog.Error("Payment verification failed", "error", err, "booking_id", req.BookingID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// PaymentHistory - GET /api/payments/history
func (h *Handlers) PaymentHistory(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	records, err := h.services.Payments.History(c.Request.Context(), uid)
	if err != nil {
		slog.Error("Failed to get payment history", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// RequestRefund - POST /api/payments/refund/:bookingId
func (h *Handlers) RequestRefund(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	uid, ok := userID(c)
	if !ok {
		return
	}

	response, err := h.services.Payments.RequestRefund(c.Request.Context(), uid, bookingID)
	if err != nil {
		slog.Error("Failed to process refund", "error", err, "booking_id", bookingID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// OwnerRevenue - GET /api/payments/revenue
func (h *Handlers) OwnerRevenue(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	response, err := h.services.Payments.OwnerRevenue(c.Request.Context(), uid)
	if err != nil {
		slog.Error("Failed to list revenue", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
