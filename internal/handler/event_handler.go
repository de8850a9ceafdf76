package handler

import (
	"errors"
	"net/http"

	"go-event-reservation/internal/middleware"
	"go-event-reservation/internal/model"
	"go-event-reservation/internal/service"
	apperrors "go-event-reservation/pkg/app_errors"
	"go-event-reservation/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.GET("events/:uuid", h.GetByEventID)
		router.GET("events/:uuid/availability", h.GetAvailability)
	}

	admin := r.Group("/api/v1", auth)
	{
		admin.POST("events", h.Create)
		admin.PUT("events/:uuid", h.UpdateByEventID)
		admin.PUT("events/:uuid/capacity", h.UpdateCapacity)
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	MaxCapacity int     `json:"max_capacity" binding:"required,min=1"`
}

// UpdateEventRequest 更新活動請求
type UpdateEventRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// UpdateCapacityRequest 調整容量請求
type UpdateCapacityRequest struct {
	MaxCapacity int `json:"max_capacity" binding:"required,min=1"`
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(c)
	if err != nil {
		h.handleError(c, err, "List")
		return
	}

	responses := make([]model.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, e.ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

func (h *EventHandler) GetByEventID(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	event, err := h.service.GetByEventID(c, eventID)
	if err != nil {
		h.handleError(c, err, "GetByEventID")
		return
	}

	c.JSON(http.StatusOK, event.ToResponse())
}

func (h *EventHandler) GetAvailability(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	spots, err := h.service.AvailableSpots(c, eventID)
	if err != nil {
		h.handleError(c, err, "GetAvailability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id":        eventID,
		"available_spots": spots,
	})
}

func (h *EventHandler) Create(c *gin.Context) {
	if !h.requireManage(c) {
		return
	}

	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	event := &model.Event{
		Name:        req.Name,
		Description: req.Description,
		MaxCapacity: req.MaxCapacity,
		Active:      true,
	}

	created, err := h.service.Create(c, event)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse())
}

func (h *EventHandler) UpdateByEventID(c *gin.Context) {
	if !h.requireManage(c) {
		return
	}

	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	updated, err := h.service.UpdateByEventID(c, eventID, model.UpdateEventParams{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		h.handleError(c, err, "UpdateByEventID")
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

func (h *EventHandler) UpdateCapacity(c *gin.Context) {
	if !h.requireManage(c) {
		return
	}

	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req UpdateCapacityRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	updated, err := h.service.UpdateCapacity(c, eventID, req.MaxCapacity)
	if err != nil {
		if errors.Is(err, apperrors.ErrCapacityBelowCommitted) {
			// 回報目前確認數，讓管理介面能顯示可接受的下限
			h.respondCapacityBelowCommitted(c, eventID)
			return
		}
		h.handleError(c, err, "UpdateCapacity")
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

// Helper functions

func (h *EventHandler) requireManage(c *gin.Context) bool {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return false
	}
	if !actor.CanManage {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return false
	}
	return true
}

func (h *EventHandler) respondCapacityBelowCommitted(c *gin.Context, eventID uuid.UUID) {
	confirmed := 0
	if event, err := h.service.GetByEventID(c, eventID); err == nil {
		confirmed = event.ConfirmedCount
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":           "Capacity cannot be lower than the current confirmed count",
		"confirmed_count": confirmed,
	})
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid input",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
