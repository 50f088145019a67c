// Package reports turns fare collections into period summaries.
package reports

import (
	"fmt"
	"strings"
	"time"

	"naulify_agent/internal/models"
	"naulify_agent/internal/utils"
)

type Period string

const (
	PeriodToday     Period = "TODAY"
	PeriodThisWeek  Period = "THIS_WEEK"
	PeriodThisMonth Period = "THIS_MONTH"
	PeriodLastMonth Period = "LAST_MONTH"
)

var titles = map[Period]string{
	PeriodToday:     "Today",
	PeriodThisWeek:  "This Week",
	PeriodThisMonth: "This Month",
	PeriodLastMonth: "Last Month",
}

// ParsePeriod accepts any case; empty means today.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return PeriodToday, nil
	}
	p := Period(strings.ToUpper(s))
	if _, ok := titles[p]; !ok {
		return "", fmt.Errorf("unknown report period %q", s)
	}
	return p, nil
}

func (p Period) Title() string { return titles[p] }

// Range returns the inclusive [start, end] window in epoch milliseconds.
// TODAY, THIS_WEEK and THIS_MONTH end at now. LAST_MONTH is the whole previous
// calendar month and ends one millisecond before this month began, not at now,
// so collections made this month never count towards it. Weeks start on Monday.
func (p Period) Range(now time.Time, loc *time.Location) (int64, int64) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	switch p {
	case PeriodThisWeek:
		offset := (int(today.Weekday()) + 6) % 7
		return today.AddDate(0, 0, -offset).UnixMilli(), now.UnixMilli()
	case PeriodThisMonth:
		return monthStart.UnixMilli(), now.UnixMilli()
	case PeriodLastMonth:
		return monthStart.AddDate(0, -1, 0).UnixMilli(), monthStart.UnixMilli() - 1
	default:
		return today.UnixMilli(), now.UnixMilli()
	}
}

// Summary is what the reports screen shows above the transaction list.
type Summary struct {
	Period         Period  `json:"period"`
	Title          string  `json:"title"`
	Start          int64   `json:"start"`
	End            int64   `json:"end"`
	Total          float64 `json:"total"`
	TotalFormatted string  `json:"total_formatted"`
	Trips          int     `json:"trips"`
}

// Summarize totals every collection in the slice regardless of status.
func Summarize(p Period, start, end int64, collections []models.FareCollection) Summary {
	var total float64
	for _, c := range collections {
		total += c.Amount
	}
	return Summary{
		Period:         p,
		Title:          p.Title(),
		Start:          start,
		End:            end,
		Total:          total,
		TotalFormatted: utils.FormatCurrency(total),
		Trips:          len(collections),
	}
}
