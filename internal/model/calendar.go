package model

// CalendarSyncAction 行事曆同步動作
type CalendarSyncAction string

const (
	CalendarSyncAdd    CalendarSyncAction = "add"
	CalendarSyncRemove CalendarSyncAction = "remove"
)

// CalendarSyncMessage 進入/離開 confirmed 狀態後發給行事曆協作方的通知
// 在交易提交後才發送，失敗只記錄不回滾預約
type CalendarSyncMessage struct {
	Action        CalendarSyncAction `json:"action"`
	UserID        int                `json:"user_id"`
	EventID       int                `json:"event_id"`
	ReservationID string             `json:"reservation_id"`
}
