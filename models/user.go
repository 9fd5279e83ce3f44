package models

import "time"

// User is an athlete profile. Every other entity is owned by a user via
// user_id; users are never deleted in normal operation.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	HeightCM     *float64  `json:"height_cm"`
	WeightKG     *float64  `json:"weight_kg"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Placeholder attributes for the auto-provisioned demo identity.
const (
	DemoEmail    = "demo@example.com"
	DemoName     = "Demo User"
	DemoHeightCM = 175.0
	DemoWeightKG = 70.0
)
