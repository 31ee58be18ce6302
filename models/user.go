package models

import "time"

type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"unique;not null" json:"email"`
	Username string `gorm:"unique;not null" json:"username"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
	Provider string `json:"provider"`
	// Active gates login; a deactivated account keeps its rows but every
	// sign-in attempt is rejected.
	Active    bool      `gorm:"default:true" json:"active"`
	Orders    []Order   `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthProvider links a user to an external identity. One row per
// (provider, provider user id) pair; Value holds the email the provider
// reported last, refreshed on every login.
type AuthProvider struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         string    `gorm:"not null;index" json:"user_id"`
	Provider       string    `gorm:"not null;uniqueIndex:idx_provider_subject" json:"provider"`
	ProviderUserID string    `gorm:"not null;uniqueIndex:idx_provider_subject" json:"provider_user_id"`
	Value          string    `json:"value"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
