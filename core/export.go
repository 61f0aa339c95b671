package core

import (
	"fmt"

	"gorm.io/gorm"

	"worktime.app/worktime/model"
)

// ReportData is one export unit: an aggregated period plus the session rows
// behind it, ordered by date.
type ReportData struct {
	Report
	Sessions []model.WorkSession `json:"sessions"`
}

// SessionsInRange fetches one user's sessions with date in [from, to],
// ascending by date.
func SessionsInRange(db *gorm.DB, userID uint, from, to string) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	err := db.Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&sessions).Error
	return sessions, err
}

// BuildReport aggregates the period containing monday under the given mode
// for one user.
func BuildReport(db *gorm.DB, userID uint, monday string, mode Mode, policy DurationPolicy) (*ReportData, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user id", ErrMissingIdentifier)
	}
	period, err := PeriodAt(monday, mode)
	if err != nil {
		return nil, err
	}
	sessions, err := SessionsInRange(db, userID, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	report, err := Aggregate(sessions, period, policy)
	if err != nil {
		return nil, err
	}
	return &ReportData{Report: *report, Sessions: sessions}, nil
}

// BuildBulkExport produces one export unit per period touching [from, to].
// Periods with no sessions are omitted, so a sparse history exports only
// the periods that were actually logged.
func BuildBulkExport(db *gorm.DB, userID uint, from, to string, mode Mode, policy DurationPolicy) ([]ReportData, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user id", ErrMissingIdentifier)
	}
	periods, err := PeriodsInRange(from, to, mode)
	if err != nil {
		return nil, err
	}

	var units []ReportData
	for _, period := range periods {
		sessions, err := SessionsInRange(db, userID, period.Start, period.End)
		if err != nil {
			return nil, err
		}
		if len(sessions) == 0 {
			continue
		}
		report, err := Aggregate(sessions, period, policy)
		if err != nil {
			return nil, err
		}
		units = append(units, ReportData{Report: *report, Sessions: sessions})
	}
	return units, nil
}
