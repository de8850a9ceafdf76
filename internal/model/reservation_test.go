package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservationStatusIsValid(t *testing.T) {
	assert.True(t, ReservationStatusConfirmed.IsValid())
	assert.True(t, ReservationStatusCanceled.IsValid())
	assert.False(t, ReservationStatus("pending").IsValid())
	assert.False(t, ReservationStatus("").IsValid())
}

func TestReservationStatusCanTransitionTo(t *testing.T) {
	t.Run("ConfirmedToCanceled", func(t *testing.T) {
		assert.True(t, ReservationStatusConfirmed.CanTransitionTo(ReservationStatusCanceled))
	})

	t.Run("CanceledToConfirmed", func(t *testing.T) {
		// 取消是可逆的：重新確認沿用同一列
		assert.True(t, ReservationStatusCanceled.CanTransitionTo(ReservationStatusConfirmed))
	})

	t.Run("NoSelfTransition", func(t *testing.T) {
		assert.False(t, ReservationStatusConfirmed.CanTransitionTo(ReservationStatusConfirmed))
		assert.False(t, ReservationStatusCanceled.CanTransitionTo(ReservationStatusCanceled))
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		assert.False(t, ReservationStatus("pending").CanTransitionTo(ReservationStatusConfirmed))
	})
}

func TestActorCanModify(t *testing.T) {
	reservation := &Reservation{UserID: 7}

	t.Run("Owner", func(t *testing.T) {
		assert.True(t, Actor{UserID: 7}.CanModify(reservation))
	})

	t.Run("Manager", func(t *testing.T) {
		assert.True(t, Actor{UserID: 99, CanManage: true}.CanModify(reservation))
	})

	t.Run("OtherUser", func(t *testing.T) {
		assert.False(t, Actor{UserID: 99}.CanModify(reservation))
	})
}
