package export

import (
	"worktime.app/worktime/core"
	"worktime.app/worktime/utils"
)

var timesheetHeader = []string{"Date", "Arrival", "Departure", "Break (min)", "Remote (min)", "Net total", "Notes"}

var timesheetWidths = []float64{15, 10, 10, 12, 12, 12, 30}

// SessionSheet lays one report's sessions out as a worksheet, one row per
// session plus a bold period total.
func SessionSheet(name string, data *core.ReportData, policy core.DurationPolicy) (Sheet, error) {
	sheet := Sheet{
		Name:   name,
		Header: timesheetHeader,
		Widths: timesheetWidths,
	}

	for _, s := range data.Sessions {
		net, err := core.SessionNetMinutes(s, policy)
		if err != nil {
			return Sheet{}, err
		}
		remote := 0
		if s.RemoteMinutes != nil {
			remote = *s.RemoteMinutes
		}
		notes := ""
		if s.Notes != nil {
			notes = *s.Notes
		}
		sheet.Rows = append(sheet.Rows, []interface{}{
			utils.FormatHumanDate(s.Date),
			s.ArrivalTime,
			s.DepartureTime,
			s.BreakMinutes,
			remote,
			utils.FormatSignedMinutes(net),
			notes,
		})
	}

	sheet.TotalRow = []interface{}{"PERIOD TOTAL", "", "", "", "", data.Total, ""}
	return sheet, nil
}

// sheetLabel renders a date for a worksheet name. The year stays in so
// periods from different years never share a name.
func sheetLabel(date string) string {
	t, err := utils.ParseISODate(date)
	if err != nil {
		return date
	}
	return t.Format("02 Jan 2006")
}

// UnitSheets builds one worksheet per export unit, named after the period
// range.
func UnitSheets(units []core.ReportData, policy core.DurationPolicy) ([]Sheet, error) {
	sheets := make([]Sheet, 0, len(units))
	for i := range units {
		name := sheetLabel(units[i].Period.Start) + " - " + sheetLabel(units[i].Period.End)
		sheet, err := SessionSheet(name, &units[i], policy)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}
