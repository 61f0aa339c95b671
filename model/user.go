package model

import (
	"encoding/json"
	"time"
)

// Profile defaults applied when a user has never customised their settings.
const (
	DefaultTimesheetMode = "bi-weekly"
	DefaultArrival       = "07:30"
	DefaultDeparture     = "16:30"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"column:username;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`

	// TimesheetMode is the user's preferred reporting period policy.
	TimesheetMode string `gorm:"column:timesheet_mode" json:"timesheet_mode"`
	// WorkingDays persists the working-day mask as a JSON array of weekday
	// indices (0=Monday .. 6=Sunday), e.g. "[0,1,2,3,4]".
	WorkingDays      string `gorm:"column:working_days" json:"-"`
	DefaultArrival   string `gorm:"column:default_arrival" json:"default_arrival"`
	DefaultDeparture string `gorm:"column:default_departure" json:"default_departure"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// WorkingDayMask decodes the persisted working-day mask, falling back to
// Monday through Friday when unset or unreadable.
func (u *User) WorkingDayMask() []int {
	if u.WorkingDays != "" {
		var days []int
		if err := json.Unmarshal([]byte(u.WorkingDays), &days); err == nil {
			return days
		}
	}
	return []int{0, 1, 2, 3, 4}
}

// SetWorkingDayMask encodes and stores the working-day mask.
func (u *User) SetWorkingDayMask(days []int) {
	b, _ := json.Marshal(days)
	u.WorkingDays = string(b)
}

// Mode returns the user's timesheet mode, defaulting to bi-weekly.
func (u *User) Mode() string {
	if u.TimesheetMode == "" {
		return DefaultTimesheetMode
	}
	return u.TimesheetMode
}
