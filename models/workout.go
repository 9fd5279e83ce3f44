package models

// WorkoutPlan is a weekly exercise plan keyed by the week's start date.
type WorkoutPlan struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    uint    `gorm:"index;not null" json:"user_id"`
	WeekStart string  `gorm:"size:10;index;not null" json:"week_start"`
	Plan      JSONMap `gorm:"column:plan_json" json:"plan"`
}

// WorkoutSession is one logged training session with its set data.
type WorkoutSession struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	UserID   uint    `gorm:"index;not null" json:"user_id"`
	Date     string  `gorm:"size:10;index;not null" json:"date"`
	Activity string  `gorm:"size:64;not null" json:"activity"`
	Notes    *string `gorm:"size:1024" json:"notes"`
	Data     JSONMap `gorm:"column:data_json" json:"data"`
}
