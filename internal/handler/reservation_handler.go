package handler

import (
	"context"
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

type ReservationHandler struct {
	service service.ReservationService
}

func NewReservationHandler(service service.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	router := r.Group("/api/v1", auth)
	{
		router.GET("reservations", h.List)
		router.GET("reservations/:uuid", h.GetByReservationID)
		router.POST("reservations", h.Create)
		router.PUT("reservations/:uuid/cancel", h.Cancel)
		router.PUT("reservations/:uuid/confirm", h.Reconfirm)
	}
}

func (h *ReservationHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req model.CreateReservationRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.Create(c, req.EventID, actor)
	if err != nil {
		h.handleReservationError(c, err, "Create")
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse())
}

func (h *ReservationHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reservations, err := h.service.ListByUser(c, actor.UserID)
	if err != nil {
		h.handleReservationError(c, err, "List")
		return
	}

	responses := make([]model.ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		responses = append(responses, r.ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ReservationHandler) GetByReservationID(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reservationID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id"})
		return
	}

	reservation, err := h.service.GetByReservationID(c, reservationID)
	if err != nil {
		h.handleReservationError(c, err, "GetByReservationID")
		return
	}

	// 預約內容只給本人或管理者看
	if !actor.CanModify(reservation) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, reservation.ToResponse())
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.transition(c, "Cancel", h.service.Cancel)
}

func (h *ReservationHandler) Reconfirm(c *gin.Context) {
	h.transition(c, "Reconfirm", h.service.Reconfirm)
}

func (h *ReservationHandler) transition(
	c *gin.Context,
	operation string,
	fn func(ctx context.Context, reservationID uuid.UUID, actor model.Actor) (*model.Reservation, error),
) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reservationID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id"})
		return
	}

	updated, err := fn(c, reservationID, actor)
	if err != nil {
		h.handleReservationError(c, err, operation)
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

// Helper functions

func (h *ReservationHandler) handleReservationError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrNoAvailableSpots):
		log.Warn("No available spots")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No available spots",
		})
	case errors.Is(err, apperrors.ErrDuplicateReservation):
		log.Warn("Duplicate reservation")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Reservation already exists for this event",
		})
	case errors.Is(err, apperrors.ErrAlreadyCanceled):
		log.Warn("Already canceled")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Reservation already canceled",
		})
	case errors.Is(err, apperrors.ErrAlreadyConfirmed):
		log.Warn("Already confirmed")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Reservation already confirmed",
		})
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Forbidden",
		})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
	case errors.Is(err, apperrors.ErrReservationNotFound):
		log.Warn("Reservation not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Reservation not found",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
