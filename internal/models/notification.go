// internal/models/notification.go
package models

import "time"

type Channel string

const (
	ChannelApp      Channel = "app"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
)

// NotificationEvent is the persisted in-app record of a notification.
type NotificationEvent struct {
	ID        string                 `json:"id" db:"id"`
	UserID    string                 `json:"userId" db:"user_id"`
	Type      string                 `json:"type" db:"type"`
	Title     string                 `json:"title" db:"title"`
	Message   string                 `json:"message" db:"message"`
	Data      map[string]interface{} `json:"data" db:"data"`
	Channel   Channel                `json:"channel" db:"channel"`
	Read      bool                   `json:"read" db:"read"`
	CreatedAt time.Time              `json:"createdAt" db:"created_at"`
}
