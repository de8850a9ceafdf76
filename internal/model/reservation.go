package model

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus 預約狀態類型
type ReservationStatus string

const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCanceled  ReservationStatus = "canceled"
)

// IsValid 驗證狀態是否有效
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusConfirmed, ReservationStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
// 取消後可以再確認，確認後可以再取消；狀態列永不刪除
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	transitions := map[ReservationStatus][]ReservationStatus{
		ReservationStatusConfirmed: {ReservationStatusCanceled},
		ReservationStatusCanceled:  {ReservationStatusConfirmed},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Reservation 預約模型：每個 (event, user) 最多一列，取消後重新確認沿用同一列
type Reservation struct {
	ID            int               `json:"id" db:"id"`
	ReservationID uuid.UUID         `json:"reservation_id" db:"reservation_id"`
	EventID       int               `json:"event_id" db:"event_id"`
	UserID        int               `json:"user_id" db:"user_id"`
	Status        ReservationStatus `json:"status" db:"status"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

// IsConfirmed 檢查預約是否佔用名額
func (r *Reservation) IsConfirmed() bool {
	return r.Status == ReservationStatusConfirmed
}

// Actor 已解析的呼叫者：身份與權限由外部認證層提供，核心不再推導
type Actor struct {
	UserID    int
	CanManage bool
}

// CanModify 檢查呼叫者是否可以操作此預約
func (a Actor) CanModify(r *Reservation) bool {
	return a.CanManage || a.UserID == r.UserID
}

// CreateReservationRequest 建立預約請求
type CreateReservationRequest struct {
	EventID uuid.UUID `json:"event_id" binding:"required"`
}

// ReservationResponse 預約響應
type ReservationResponse struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	EventID       int       `json:"event_id"`
	UserID        int       `json:"user_id"`
	Status        string    `json:"status"`
	CreatedAt     string    `json:"created_at"`
}

func (r *Reservation) ToResponse() ReservationResponse {
	return ReservationResponse{
		ReservationID: r.ReservationID,
		EventID:       r.EventID,
		UserID:        r.UserID,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
