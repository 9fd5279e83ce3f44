package models

// DiaryEntry is a free-text log line (training, eating, recovery, ...),
// queried by date range.
type DiaryEntry struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Date   string `gorm:"size:10;index;not null" json:"date"`
	Type   string `gorm:"size:32;not null" json:"type"`
	Text   string `gorm:"size:1024;not null" json:"text"`
}
