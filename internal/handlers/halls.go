package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"hallbook/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateHall - POST /api/halls
func (h *Handlers) CreateHall(c *gin.Context) {
	var req models.CreateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ownerID, ok := userID(c)
	if !ok {
		return
	}

	response, err := h.services.Halls.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		slog.Error("Failed to create hall", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListHalls - GET /api/halls
func (h *Handlers) ListHalls(c *gin.Context) {
	query := c.Query("query")
	city := c.Query("city")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 50"})
		return
	}

	response, err := h.services.Halls.List(c.Request.Context(), query, city, page, pageSize)
	if err != nil {
		slog.Error("Failed to list halls", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetHall - GET /api/halls/:id
func (h *Handlers) GetHall(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hall id"})
		return
	}

	hall, err := h.services.Halls.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, hall)
}

// ListOwnerHalls - GET /api/halls/mine
func (h *Handlers) ListOwnerHalls(c *gin.Context) {
	ownerID, ok := userID(c)
	if !ok {
		return
	}

	halls, err := h.services.Halls.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		slog.Error("Failed to list owner halls", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, halls)
}
