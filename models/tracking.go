package models

import "time"

// TrackingEvent is one stop on an order's carrier timeline. Events are
// appended by operations as the parcel moves; the order keeps the latest
// current/next station denormalized for cheap reads.
type TrackingEvent struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	OrderID     uint      `gorm:"index" json:"-"`
	Time        time.Time `json:"time"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Station     string    `json:"station"`
}
