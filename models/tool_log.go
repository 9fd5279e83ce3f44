package models

import "time"

// ToolLog is the audit trail of agent-tool invocations: which tool, which
// resolved user, and the request payload as received.
type ToolLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Tool      string    `gorm:"size:64;index;not null" json:"tool"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	SessionID *string   `gorm:"size:64" json:"session_id"`
	RequestID *string   `gorm:"size:64" json:"request_id"`
	Payload   JSONMap   `gorm:"column:payload_json" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}
