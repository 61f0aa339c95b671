package report

import (
	"html/template"
	"strings"

	"worktime.app/worktime/core"
	"worktime.app/worktime/utils"
)

// view models for the PDF document; everything is pre-formatted so the
// template stays dumb

type htmlSummary struct {
	Label string
	Range string
	Value string
}

type htmlRow struct {
	Day       string
	Arrival   string
	Departure string
	Break     int
	Remote    int
	Net       string
	Notes     string
}

type htmlReport struct {
	UserName  string
	Period    string
	Summaries []htmlSummary
	Total     string
	Rows      []htmlRow
}

var reportTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>Timesheet report</title>
    <style>
      * { box-sizing: border-box; }
      body {
        font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
        margin: 0;
        padding: 24px;
        color: #0f172a;
        background: #f9fafb;
      }
      h1 { font-size: 20px; margin: 0 0 4px; }
      .period { font-size: 12px; color: #6b7280; margin-bottom: 16px; }
      .summary { display: flex; gap: 12px; margin-bottom: 18px; flex-wrap: wrap; }
      .summary-card {
        flex: 1;
        min-width: 120px;
        padding: 10px 12px;
        border-radius: 8px;
        border: 1px solid #e5e7eb;
        background: #eef2ff;
        font-size: 11px;
      }
      .summary-card.total { background: #e0f2fe; border-color: #bae6fd; }
      .summary-title { font-weight: 600; margin-bottom: 4px; }
      .summary-range { font-size: 10px; color: #6b7280; margin-bottom: 4px; }
      .summary-value { font-size: 15px; font-weight: 700; color: #0f172a; }
      table { width: 100%; border-collapse: collapse; font-size: 11px; }
      th, td { padding: 6px 8px; border-bottom: 1px solid #e5e7eb; text-align: left; }
      th {
        font-size: 10px;
        text-transform: uppercase;
        letter-spacing: 0.06em;
        color: #6b7280;
        background: #f3f4f6;
      }
      tr:nth-child(even) td { background: #f9fafb; }
      .net { font-weight: 600; color: #0e7490; }
    </style>
  </head>
  <body>
    <h1>Timesheet report</h1>
    <div class="period">Employee: {{.UserName}}</div>
    <div class="period">Period: {{.Period}}</div>
    <div class="summary">
      {{range .Summaries}}<div class="summary-card">
        <div class="summary-title">{{.Label}}</div>
        <div class="summary-range">{{.Range}}</div>
        <div class="summary-value">{{.Value}}</div>
      </div>
      {{end}}<div class="summary-card total">
        <div class="summary-title">Period total</div>
        <div class="summary-value">{{.Total}}</div>
      </div>
    </div>
    <table>
      <thead>
        <tr>
          <th>Day</th>
          <th>Arrival</th>
          <th>Departure</th>
          <th>Break (min)</th>
          <th>Remote (min)</th>
          <th>Net total</th>
          <th>Notes</th>
        </tr>
      </thead>
      <tbody>
        {{range .Rows}}<tr>
          <td>{{.Day}}</td>
          <td>{{.Arrival}}</td>
          <td>{{.Departure}}</td>
          <td>{{.Break}}</td>
          <td>{{.Remote}}</td>
          <td class="net">{{.Net}}</td>
          <td>{{.Notes}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </body>
</html>`))

// buildReportHTML renders the self-contained document handed to the PDF
// renderer.
func buildReportHTML(data *core.ReportData, userName string, policy core.DurationPolicy) (string, error) {
	view := htmlReport{
		UserName: userName,
		Period: "from " + utils.FormatHumanDate(data.Period.Start) +
			" to " + utils.FormatHumanDate(data.Period.End),
		Total: data.Total,
	}

	for _, s := range data.Summaries {
		view.Summaries = append(view.Summaries, htmlSummary{
			Label: s.Label,
			Range: "From " + utils.FormatHumanDate(s.Start) + " to " + utils.FormatHumanDate(s.End),
			Value: s.Total,
		})
	}

	for _, s := range data.Sessions {
		net, err := core.SessionNetMinutes(s, policy)
		if err != nil {
			return "", err
		}
		remote := 0
		if s.RemoteMinutes != nil {
			remote = *s.RemoteMinutes
		}
		notes := ""
		if s.Notes != nil {
			notes = *s.Notes
		}
		view.Rows = append(view.Rows, htmlRow{
			Day:       utils.FormatHumanDate(s.Date),
			Arrival:   s.ArrivalTime,
			Departure: s.DepartureTime,
			Break:     s.BreakMinutes,
			Remote:    remote,
			Net:       utils.FormatSignedMinutes(net),
			Notes:     notes,
		})
	}

	var sb strings.Builder
	if err := reportTemplate.Execute(&sb, view); err != nil {
		return "", err
	}
	return sb.String(), nil
}
