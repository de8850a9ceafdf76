package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventAvailableSpots(t *testing.T) {
	t.Run("ActiveWithRemaining", func(t *testing.T) {
		event := &Event{MaxCapacity: 10, ConfirmedCount: 3, Active: true}
		assert.Equal(t, 7, event.AvailableSpots())
		assert.True(t, event.IsAvailable())
	})

	t.Run("ActiveFull", func(t *testing.T) {
		event := &Event{MaxCapacity: 10, ConfirmedCount: 10, Active: true}
		assert.Equal(t, 0, event.AvailableSpots())
		assert.False(t, event.IsAvailable())
	})

	t.Run("InactiveForcesZero", func(t *testing.T) {
		// 停用的活動即使一個名額都沒用掉也視為額滿
		event := &Event{MaxCapacity: 10, ConfirmedCount: 0, Active: false}
		assert.Equal(t, 0, event.AvailableSpots())
		assert.False(t, event.IsAvailable())
	})

	t.Run("NeverNegative", func(t *testing.T) {
		event := &Event{MaxCapacity: 5, ConfirmedCount: 7, Active: true}
		assert.Equal(t, 0, event.AvailableSpots())
	})
}

func TestEventToResponse(t *testing.T) {
	event := &Event{MaxCapacity: 4, ConfirmedCount: 1, Active: true, Name: "Go Meetup"}
	resp := event.ToResponse()
	assert.Equal(t, "Go Meetup", resp.Name)
	assert.Equal(t, 3, resp.AvailableSpots)
	assert.Equal(t, 1, resp.ConfirmedCount)
}
