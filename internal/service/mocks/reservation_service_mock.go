package mocks

import (
	"context"

	"go-event-reservation/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ReservationServiceMock struct {
	mock.Mock
}

func NewReservationServiceMock() *ReservationServiceMock {
	return &ReservationServiceMock{}
}

func (m *ReservationServiceMock) Create(ctx context.Context, eventID uuid.UUID, actor model.Actor) (*model.Reservation, error) {
	args := m.Called(ctx, eventID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *ReservationServiceMock) Cancel(ctx context.Context, reservationID uuid.UUID, actor model.Actor) (*model.Reservation, error) {
	args := m.Called(ctx, reservationID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *ReservationServiceMock) Reconfirm(ctx context.Context, reservationID uuid.UUID, actor model.Actor) (*model.Reservation, error) {
	args := m.Called(ctx, reservationID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *ReservationServiceMock) GetByReservationID(ctx context.Context, reservationID uuid.UUID) (*model.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *ReservationServiceMock) ListByUser(ctx context.Context, userID int) ([]*model.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Reservation), args.Error(1)
}
