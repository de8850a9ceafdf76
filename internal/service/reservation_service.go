package service

import (
	"context"
	"errors"

	"go-event-reservation/internal/cache"
	"go-event-reservation/internal/model"
	"go-event-reservation/internal/queue"
	"go-event-reservation/internal/repository"
	apperrors "go-event-reservation/pkg/app_errors"
	"go-event-reservation/pkg/logger"
	"go-event-reservation/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ReservationService interface {
	// 建立預約：成功即 confirmed，名額在同一筆交易內提交
	Create(ctx context.Context, eventID uuid.UUID, actor model.Actor) (*model.Reservation, error)
	// 取消預約：釋放名額
	Cancel(ctx context.Context, reservationID uuid.UUID, actor model.Actor) (*model.Reservation, error)
	// 重新確認已取消的預約：重新提交名額，受當下剩餘名額限制
	Reconfirm(ctx context.Context, reservationID uuid.UUID, actor model.Actor) (*model.Reservation, error)
	GetByReservationID(ctx context.Context, reservationID uuid.UUID) (*model.Reservation, error)
	ListByUser(ctx context.Context, userID int) ([]*model.Reservation, error)
}

type ReservationServiceImpl struct {
	pool            *pgxpool.Pool
	repository      repository.ReservationRepository
	eventRepository repository.EventRepository
	availability    cache.AvailabilityCache
	calendarQueue   queue.CalendarQueue
	metrics         *metrics.Metrics
}

func NewReservationService(
	pool *pgxpool.Pool,
	reservationRepository repository.ReservationRepository,
	eventRepository repository.EventRepository,
	availability cache.AvailabilityCache,
	calendarQueue queue.CalendarQueue,
	m *metrics.Metrics,
) ReservationService {
	return &ReservationServiceImpl{
		pool:            pool,
		repository:      reservationRepository,
		eventRepository: eventRepository,
		availability:    availability,
		calendarQueue:   calendarQueue,
		metrics:         m,
	}
}

func (s *ReservationServiceImpl) Create(ctx context.Context, eventID uuid.UUID, actor model.Actor) (*model.Reservation, error) {
	event, err := s.eventRepository.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, apperrors.ErrStorageUnavailable
	}
	defer tx.Rollback(ctx)

	// 先插入再扣名額：唯一索引擋掉同一 (event, user) 的重複建立，
	// 任何一步失敗整筆交易回滾，名額與狀態列永遠一致
	reservation := &model.Reservation{
		ReservationID: uuid.New(),
		EventID:       event.ID,
		UserID:        actor.UserID,
		Status:        model.ReservationStatusConfirmed,
	}

	created, err := s.repository.Create(ctx, tx, reservation)
	if err != nil {
		s.countResult("create", err)
		return nil, err
	}

	committed, err := s.eventRepository.TryCommitSpot(ctx, tx, event.ID)
	if err != nil {
		return nil, err
	}
	if !committed {
		// 0 列受影響：額滿或活動已停用；名額真的沒了，不在內部重試
		s.countResult("create", apperrors.ErrNoAvailableSpots)
		return nil, apperrors.ErrNoAvailableSpots
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.ErrStorageUnavailable
	}

	s.countResult("create", nil)
	s.afterTransition(created, model.CalendarSyncAdd)
	return created, nil
}

func (s *ReservationServiceImpl) Cancel(ctx context.Context, reservationID uuid.UUID, actor model.Actor) (*model.Reservation, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, apperrors.ErrStorageUnavailable
	}
	defer tx.Rollback(ctx)

	reservation, err := s.repository.FindByReservationIDForUpdate(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}

	if !actor.CanModify(reservation) {
		return nil, apperrors.ErrForbidden
	}

	if reservation.Status == model.ReservationStatusCanceled {
		s.countResult("cancel", apperrors.ErrAlreadyCanceled)
		return nil, apperrors.ErrAlreadyCanceled
	}

	if err := s.eventRepository.ReleaseSpot(ctx, tx, reservation.EventID); err != nil {
		return nil, err
	}

	updated, err := s.repository.UpdateStatus(ctx, tx, reservation.ID, model.ReservationStatusCanceled)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.ErrStorageUnavailable
	}

	s.countResult("cancel", nil)
	s.afterTransition(updated, model.CalendarSyncRemove)
	return updated, nil
}

func (s *ReservationServiceImpl) Reconfirm(ctx context.Context, reservationID uuid.UUID, actor model.Actor) (*model.Reservation, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, apperrors.ErrStorageUnavailable
	}
	defer tx.Rollback(ctx)

	reservation, err := s.repository.FindByReservationIDForUpdate(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}

	if !actor.CanModify(reservation) {
		return nil, apperrors.ErrForbidden
	}

	if reservation.Status == model.ReservationStatusConfirmed {
		s.countResult("reconfirm", apperrors.ErrAlreadyConfirmed)
		return nil, apperrors.ErrAlreadyConfirmed
	}

	committed, err := s.eventRepository.TryCommitSpot(ctx, tx, reservation.EventID)
	if err != nil {
		return nil, err
	}
	if !committed {
		s.countResult("reconfirm", apperrors.ErrNoAvailableSpots)
		return nil, apperrors.ErrNoAvailableSpots
	}

	updated, err := s.repository.UpdateStatus(ctx, tx, reservation.ID, model.ReservationStatusConfirmed)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.ErrStorageUnavailable
	}

	s.countResult("reconfirm", nil)
	s.afterTransition(updated, model.CalendarSyncAdd)
	return updated, nil
}

func (s *ReservationServiceImpl) GetByReservationID(ctx context.Context, reservationID uuid.UUID) (*model.Reservation, error) {
	return s.repository.FindByReservationID(ctx, reservationID)
}

func (s *ReservationServiceImpl) ListByUser(ctx context.Context, userID int) ([]*model.Reservation, error) {
	return s.repository.FindByUserID(ctx, userID)
}

// afterTransition 交易提交後的副作用：刷新名額快取、通知行事曆
// 全部盡力而為，失敗只記錄；用 context.Background() 確保不被請求取消打斷
func (s *ReservationServiceImpl) afterTransition(reservation *model.Reservation, action model.CalendarSyncAction) {
	ctx := context.Background()
	log := logger.WithComponent("service").With(zap.String("reservation_id", reservation.ReservationID.String()))

	if s.availability != nil {
		if event, err := s.eventRepository.FindByID(ctx, reservation.EventID); err == nil {
			if err := s.availability.Refresh(ctx, event.ID, event.AvailableSpots()); err != nil {
				log.Warn("refresh availability cache failed", zap.Error(err))
			}
		}
	}

	if s.calendarQueue != nil {
		msg := &model.CalendarSyncMessage{
			Action:        action,
			UserID:        reservation.UserID,
			EventID:       reservation.EventID,
			ReservationID: reservation.ReservationID.String(),
		}
		if err := s.calendarQueue.PublishSync(ctx, msg); err != nil {
			log.Warn("publish calendar sync failed", zap.Error(err))
		}
	}
}

func (s *ReservationServiceImpl) countResult(operation string, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNoAvailableSpots):
		status = "no_spots"
	case errors.Is(err, apperrors.ErrDuplicateReservation):
		status = "duplicate"
	case errors.Is(err, apperrors.ErrAlreadyCanceled), errors.Is(err, apperrors.ErrAlreadyConfirmed):
		status = "conflict"
	default:
		status = "error"
	}
	s.metrics.ReservationsTotal.WithLabelValues(operation, status).Inc()
}
