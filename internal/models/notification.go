package models

import "time"

// Notification types.
const (
	NotificationTypeUser   = "user"
	NotificationTypeAuth   = "auth"
	NotificationTypeOrder  = "order"
	NotificationTypeSystem = "system"
)

// Notification is an entry in the admin activity feed, newest first.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Icon      string    `json:"icon"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"isRead"`
	Type      string    `json:"type,omitempty"`
}
