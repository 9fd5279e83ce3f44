package models

// ReadinessSnapshot is a cached readiness result for one user on one date.
// The unique (user_id, date) index backs the compute-or-fetch-and-store
// contract: concurrent misses converge on one row via conflict-tolerant
// inserts.
type ReadinessSnapshot struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex:uniq_snapshot_user_date;not null" json:"user_id"`
	Date           string    `gorm:"size:10;uniqueIndex:uniq_snapshot_user_date;not null" json:"date"`
	Score          int       `json:"score"`
	Status         string    `gorm:"size:16;not null" json:"status"`
	Factors        FactorMap `gorm:"column:factors_json" json:"factors"`
	Recommendation string    `gorm:"size:512" json:"recommendation"`
}
