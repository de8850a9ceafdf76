package model

import (
	"time"

	"github.com/google/uuid"
)

// Event 活動模型：容量欄位只能透過帳本的原子操作修改
type Event struct {
	ID             int       `json:"id" db:"id"`
	EventID        uuid.UUID `json:"event_id" db:"event_id"`
	Name           string    `json:"name" db:"name"`
	Description    *string   `json:"description,omitempty" db:"description"`
	MaxCapacity    int       `json:"max_capacity" db:"max_capacity"`
	ConfirmedCount int       `json:"confirmed_count" db:"confirmed_count"`
	Active         bool      `json:"active" db:"active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type UpdateEventParams struct {
	Name        *string
	Description *string
	Active      *bool
}

// AvailableSpots 剩餘名額：停用的活動一律視為額滿
func (e *Event) AvailableSpots() int {
	if !e.Active {
		return 0
	}
	if remaining := e.MaxCapacity - e.ConfirmedCount; remaining > 0 {
		return remaining
	}
	return 0
}

// IsAvailable 檢查活動是否可接受新預約
func (e *Event) IsAvailable() bool {
	return e.AvailableSpots() > 0
}

// EventResponse 活動響應
type EventResponse struct {
	EventID        uuid.UUID `json:"event_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	MaxCapacity    int       `json:"max_capacity"`
	ConfirmedCount int       `json:"confirmed_count"`
	Active         bool      `json:"active"`
	AvailableSpots int       `json:"available_spots"`
}

func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		EventID:        e.EventID,
		Name:           e.Name,
		Description:    e.Description,
		MaxCapacity:    e.MaxCapacity,
		ConfirmedCount: e.ConfirmedCount,
		Active:         e.Active,
		AvailableSpots: e.AvailableSpots(),
	}
}
