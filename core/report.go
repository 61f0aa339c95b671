package core

import (
	"fmt"

	"worktime.app/worktime/model"
	"worktime.app/worktime/utils"
)

// MaxSubSummaries bounds the weekly sub-summary walk. The longest
// legitimate period is a monthly one spanning 6 calendar weeks; anything
// beyond that is a malformed range and rejected instead of truncated.
const MaxSubSummaries = 6

// PeriodSummary is one weekly card within a report: a label, the clipped
// sub-range it covers, and its net-minute total.
type PeriodSummary struct {
	Label        string `json:"label"`
	Start        string `json:"start"`
	End          string `json:"end"`
	TotalMinutes int    `json:"total_minutes"`
	Total        string `json:"total"`
}

// Report is the aggregation of one period's sessions.
type Report struct {
	Period       Period          `json:"period"`
	Summaries    []PeriodSummary `json:"summaries"`
	TotalMinutes int             `json:"total_minutes"`
	Total        string          `json:"total"`
}

// Aggregate folds sessions into weekly sub-summaries and a period total.
// The walk starts at period.Start in 7-day strides, clipping the final
// stride to period.End; the total is computed independently over every
// session inside the period. Sessions outside the period do not count.
func Aggregate(sessions []model.WorkSession, period Period, policy DurationPolicy) (*Report, error) {
	startT, err := utils.ParseISODate(period.Start)
	if err != nil {
		return nil, err
	}
	endT, err := utils.ParseISODate(period.End)
	if err != nil {
		return nil, err
	}
	days := utils.DaysBetween(startT, endT) + 1
	if days <= 0 {
		return nil, fmt.Errorf("%w: %s to %s is inverted", ErrInvalidPeriod, period.Start, period.End)
	}
	weeks := (days + 6) / 7
	if weeks > MaxSubSummaries {
		return nil, fmt.Errorf("%w: %s to %s spans %d weeks (max %d)",
			ErrInvalidPeriod, period.Start, period.End, weeks, MaxSubSummaries)
	}

	report := &Report{Period: period}
	current := period.Start
	for week := 1; current <= period.End; week++ {
		weekEnd := utils.MustAddDays(current, 6)
		if weekEnd > period.End {
			weekEnd = period.End
		}

		total := 0
		for _, s := range sessions {
			if s.Date >= current && s.Date <= weekEnd {
				net, err := SessionNetMinutes(s, policy)
				if err != nil {
					return nil, err
				}
				total += net
			}
		}

		label := fmt.Sprintf("Week %d", week)
		if weeks == 1 {
			label = "Week"
		}
		report.Summaries = append(report.Summaries, PeriodSummary{
			Label:        label,
			Start:        current,
			End:          weekEnd,
			TotalMinutes: total,
			Total:        utils.FormatSignedMinutes(total),
		})

		current = utils.MustAddDays(current, 7)
	}

	for _, s := range sessions {
		if s.Date >= period.Start && s.Date <= period.End {
			net, err := SessionNetMinutes(s, policy)
			if err != nil {
				return nil, err
			}
			report.TotalMinutes += net
		}
	}
	report.Total = utils.FormatSignedMinutes(report.TotalMinutes)

	return report, nil
}
