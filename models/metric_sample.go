package models

// MetricSample is one day of imported health metrics for a user. Dates are
// stored as ISO strings so range queries behave identically on SQLite and
// MySQL DATE columns. Duplicate dates are possible; "latest" is resolved by
// ordering, not uniqueness.
type MetricSample struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	UserID     uint     `gorm:"index:idx_metric_user_date;not null" json:"user_id"`
	Date       string   `gorm:"size:10;index:idx_metric_user_date;not null" json:"date"`
	SleepH     *float64 `json:"sleep_h"`
	Stress     *int     `json:"stress"`
	Steps      *int     `json:"steps"`
	Cardio     *int     `json:"cardio"`
	ActiveMin  *int     `json:"active_min"`
	DistanceKM *float64 `json:"distance_km"`
	Calories   *int     `json:"calories"`
}
