package model

import "time"

// WorkSession is one user's attendance record for one calendar day. Dates
// and clock times are stored as plain strings ("2006-01-02", "15:04") so
// range scans order lexicographically and no timezone ever applies.
type WorkSession struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	UserID        uint    `gorm:"column:user_id;not null;index:idx_user_date" json:"user_id"`
	Date          string  `gorm:"column:date;type:text;not null;index:idx_user_date" json:"date"`
	ArrivalTime   string  `gorm:"column:arrival_time;not null" json:"arrival_time"`
	DepartureTime string  `gorm:"column:departure_time;not null" json:"departure_time"`
	BreakMinutes  int     `gorm:"column:break_minutes;not null;default:0" json:"break_minutes"`
	RemoteMinutes *int    `gorm:"column:remote_minutes" json:"remote_minutes"`
	Notes         *string `gorm:"column:notes" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WorkSession) TableName() string {
	return "work_sessions"
}
