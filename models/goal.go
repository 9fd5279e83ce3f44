package models

import "time"

// Goal is a user-authored (category, text) pair. Goals carry no completion
// state; listing is newest first.
type Goal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Category  string    `gorm:"size:64;not null" json:"category"`
	Text      string    `gorm:"size:512;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
