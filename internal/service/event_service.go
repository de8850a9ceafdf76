package service

import (
	"context"
	"errors"

	"go-event-reservation/internal/cache"
	"go-event-reservation/internal/model"
	"go-event-reservation/internal/repository"
	apperrors "go-event-reservation/pkg/app_errors"
	"go-event-reservation/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	// UpdateCapacity 管理者調整容量上限；低於已確認數時回傳
	// ErrCapacityBelowCommitted，呼叫端應將目前確認數回報給使用者
	UpdateCapacity(ctx context.Context, eventID uuid.UUID, newMax int) (*model.Event, error)
	// AvailableSpots 顯示用名額查詢：快取優先，落空讀資料庫
	// 讀到的值不保證預約時仍成立，實際預約一律重新驗證
	AvailableSpots(ctx context.Context, eventID uuid.UUID) (int, error)
}

type EventServiceImpl struct {
	repo         repository.EventRepository
	availability cache.AvailabilityCache
}

func NewEventService(repo repository.EventRepository, availability cache.AvailabilityCache) EventService {
	return &EventServiceImpl{repo: repo, availability: availability}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	if event.MaxCapacity < 1 {
		return nil, apperrors.ErrInvalidInput
	}
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	s.warmUp(created)
	return created, nil
}

func (s *EventServiceImpl) UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, event.ID, params)
	if err != nil {
		return nil, err
	}

	// 啟用/停用會改變對外的名額，快取跟著換
	if params.Active != nil {
		s.warmUp(updated)
	}
	return updated, nil
}

func (s *EventServiceImpl) UpdateCapacity(ctx context.Context, eventID uuid.UUID, newMax int) (*model.Event, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.SetMaxCapacity(ctx, event.ID, newMax)
	if err != nil {
		return nil, err
	}

	s.warmUp(updated)
	return updated, nil
}

func (s *EventServiceImpl) AvailableSpots(ctx context.Context, eventID uuid.UUID) (int, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return 0, err
	}

	if s.availability != nil {
		spots, err := s.availability.GetAvailableSpots(ctx, event.ID)
		if err == nil {
			return spots, nil
		}
		if !errors.Is(err, apperrors.ErrEventNotFound) {
			logger.WithComponent("service").Warn("availability cache read failed", zap.Int("event_id", event.ID), zap.Error(err))
		}
	}

	return event.AvailableSpots(), nil
}

// warmUp 以目前狀態刷新名額快取，失敗只記錄
func (s *EventServiceImpl) warmUp(event *model.Event) {
	if s.availability == nil {
		return
	}
	ctx := context.Background()
	if err := s.availability.WarmUp(ctx, event.ID, event.AvailableSpots()); err != nil {
		logger.WithComponent("service").Warn("warm up availability cache failed", zap.Int("event_id", event.ID), zap.Error(err))
	}
}
