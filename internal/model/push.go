package model

import "time"

const (
	NotifTypeDailySummary = "daily_summary"
	NotifTypeTest         = "test"
)

// PushSubscription is one browser/device subscribed to web push.
type PushSubscription struct {
	ID         int64     `json:"id"`
	Endpoint   string    `json:"endpoint"`
	P256dhKey  string    `json:"-"`
	AuthKey    string    `json:"-"`
	DeviceName string    `json:"device_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
