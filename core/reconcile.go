package core

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"worktime.app/worktime/model"
	"worktime.app/worktime/utils"
)

// SessionEdit is one row of a bulk save: the partial WorkSession fields a
// user edited for one date.
type SessionEdit struct {
	Date          string  `json:"date"`
	ArrivalTime   string  `json:"arrival_time"`
	DepartureTime string  `json:"departure_time"`
	BreakMinutes  int     `json:"break_minutes"`
	RemoteMinutes *int    `json:"remote_minutes"`
	Notes         *string `json:"notes"`
}

// Reconcile applies a batch of session edits for one user against the
// working-day mask, one edit at a time in input order:
//
//   - edits with a malformed date are skipped,
//   - edits on a non-working weekday delete any existing row for that date
//     and produce nothing,
//   - edits on a working weekday with malformed clock times are skipped,
//   - the rest upsert by (user_id, date), lookup-before-write, so at most
//     one row per date survives.
//
// The returned rows are the persisted results in input order, excluding
// skipped and deleted-only edits. Row-level problems never fail the batch.
func Reconcile(db *gorm.DB, userID uint, workingDays []int, edits []SessionEdit) ([]model.WorkSession, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user id", ErrMissingIdentifier)
	}

	results := make([]model.WorkSession, 0, len(edits))
	for _, edit := range edits {
		day, err := utils.ParseISODate(edit.Date)
		if err != nil {
			continue
		}

		var existing model.WorkSession
		found := true
		if err := db.Where("user_id = ? AND date = ?", userID, edit.Date).Take(&existing).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			found = false
		}

		if !utils.Contains(workingDays, utils.WeekdayIndex(day)) {
			// Not a working day: clear any leftover row, keep the batch going.
			if found {
				if err := db.Delete(&model.WorkSession{}, existing.ID).Error; err != nil {
					return nil, err
				}
			}
			continue
		}

		if !utils.IsValidClock(edit.ArrivalTime) || !utils.IsValidClock(edit.DepartureTime) {
			continue
		}

		if found {
			existing.ArrivalTime = edit.ArrivalTime
			existing.DepartureTime = edit.DepartureTime
			existing.BreakMinutes = edit.BreakMinutes
			existing.RemoteMinutes = edit.RemoteMinutes
			existing.Notes = edit.Notes
			if err := db.Save(&existing).Error; err != nil {
				return nil, err
			}
			results = append(results, existing)
			continue
		}

		row := model.WorkSession{
			UserID:        userID,
			Date:          edit.Date,
			ArrivalTime:   edit.ArrivalTime,
			DepartureTime: edit.DepartureTime,
			BreakMinutes:  edit.BreakMinutes,
			RemoteMinutes: edit.RemoteMinutes,
			Notes:         edit.Notes,
		}
		if err := db.Create(&row).Error; err != nil {
			return nil, err
		}
		results = append(results, row)
	}

	return results, nil
}
