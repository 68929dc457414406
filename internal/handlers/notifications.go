package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"hallbook/internal/models"

	"github.com/gin-gonic/gin"
)

// ListNotifications - GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	notifications, err := h.services.Notifications.List(c.Request.Context(), uid)
	if err != nil {
		slog.Error("Failed to list notifications", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// UnreadCount - GET /api/notifications/unread-count
func (h *Handlers) UnreadCount(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	count, err := h.services.Notifications.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		slog.Error("Failed to count notifications", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UnreadCountResponse{Count: count})
}

// MarkNotificationRead - PATCH /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	uid, ok := userID(c)
	if !ok {
		return
	}

	if err := h.services.Notifications.MarkRead(c.Request.Context(), uid, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead - PATCH /api/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	if err := h.services.Notifications.MarkAllRead(c.Request.Context(), uid); err != nil {
		slog.Error("Failed to mark notifications read", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// ResolveUnblockRequest - POST /api/notifications/:id/resolve
func (h *Handlers) ResolveUnblockRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	var body models.ResolveRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.services.Notifications.ResolveRequest(c.Request.Context(), id, body.Action)
	if err != nil {
		slog.Error("Failed to resolve unblock request", "error", err, "notification_id", id)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}
