package core

import (
	"fmt"

	"worktime.app/worktime/utils"
)

// Mode selects one of the three period-alignment policies.
type Mode string

const (
	ModeWeekly   Mode = "weekly"
	ModeBiWeekly Mode = "bi-weekly"
	ModeMonthly  Mode = "monthly"
)

// BiWeeklyEpoch anchors bi-weekly buckets to a fixed global Monday so all
// users share identical period boundaries.
const BiWeeklyEpoch = "2024-01-08"

// ParseMode validates a mode string, treating the empty string as the
// bi-weekly default.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeWeekly, ModeBiWeekly, ModeMonthly:
		return Mode(s), nil
	case "":
		return ModeBiWeekly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Period is a contiguous inclusive date range.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PeriodStart computes the start date of the period containing date under
// the given mode.
func PeriodStart(date string, mode Mode) (string, error) {
	switch mode {
	case ModeWeekly:
		return utils.MondayOf(date)
	case ModeBiWeekly:
		return biWeeklyStart(date)
	case ModeMonthly:
		t, err := utils.ParseISODate(date)
		if err != nil {
			return "", err
		}
		firstOfMonth := t.AddDate(0, 0, 1-t.Day()).Format(utils.ISODateLayout)
		return utils.MondayOf(firstOfMonth)
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, mode)
}

// PeriodAt computes the full period containing date under the given mode.
// Weekly periods span 7 days and bi-weekly 14; monthly periods span the
// whole calendar weeks of the month and may include days from the adjacent
// months.
func PeriodAt(date string, mode Mode) (Period, error) {
	start, err := PeriodStart(date, mode)
	if err != nil {
		return Period{}, err
	}
	switch mode {
	case ModeWeekly:
		return Period{Start: start, End: utils.MustAddDays(start, 6)}, nil
	case ModeBiWeekly:
		return Period{Start: start, End: utils.MustAddDays(start, 13)}, nil
	case ModeMonthly:
		t, err := utils.ParseISODate(date)
		if err != nil {
			return Period{}, err
		}
		// Last day of the month: first of next month minus one day.
		lastOfMonth := t.AddDate(0, 0, 1-t.Day()).AddDate(0, 1, -1).Format(utils.ISODateLayout)
		endMonday, err := utils.MondayOf(lastOfMonth)
		if err != nil {
			return Period{}, err
		}
		return Period{Start: start, End: utils.MustAddDays(endMonday, 6)}, nil
	}
	return Period{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
}

// biWeeklyStart snaps a date to the start of its 14-day bucket. Bucket
// indices are floored so dates before the epoch still land in the bucket
// containing them; a date exactly on a bucket boundary starts its own
// bucket.
func biWeeklyStart(date string) (string, error) {
	d, err := utils.ParseISODate(date)
	if err != nil {
		return "", err
	}
	epoch, _ := utils.ParseISODate(BiWeeklyEpoch)
	days := utils.DaysBetween(epoch, d)
	bucket := days / 14
	if days < 0 && days%14 != 0 {
		bucket--
	}
	return epoch.AddDate(0, 0, bucket*14).Format(utils.ISODateLayout), nil
}

// PeriodsInRange partitions [from, to] into the ordered sequence of periods
// touching it. The first period is the one containing the Monday of from's
// week; each subsequent period is re-derived from the day after the
// previous period's end, which matters for monthly mode where bucket
// boundaries shift with the month. The result is contiguous and
// non-overlapping, and the last period's end reaches or exceeds to.
func PeriodsInRange(from, to string, mode Mode) ([]Period, error) {
	if !utils.IsValidDate(to) {
		return nil, fmt.Errorf("%w: %q", utils.ErrInvalidDate, to)
	}
	current, err := utils.MondayOf(from)
	if err != nil {
		return nil, err
	}
	if from > to {
		return nil, fmt.Errorf("%w: %s to %s is inverted", ErrInvalidPeriod, from, to)
	}

	var periods []Period
	for current <= to {
		p, err := PeriodAt(current, mode)
		if err != nil {
			return nil, err
		}
		// The first period may reach back before from's week (monthly and
		// bi-weekly snap downwards). Later periods must pick up exactly
		// where the previous one ended: a monthly period re-derived from
		// the advanced date would otherwise reclaim the spillover week the
		// previous period already covered.
		if len(periods) > 0 && p.Start < current {
			p.Start = current
		}
		periods = append(periods, p)
		current = utils.MustAddDays(p.End, 1)
	}
	return periods, nil
}
