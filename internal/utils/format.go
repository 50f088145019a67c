package utils

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DateLayout = "02 Jan 2006, 15:04"

var shillings = message.NewPrinter(language.English)

// FormatCurrency renders an amount in Kenyan shillings, e.g. "Ksh 1,234.50".
func FormatCurrency(amount float64) string {
	if amount < 0 {
		return "-Ksh " + shillings.Sprintf("%.2f", -amount)
	}
	return "Ksh " + shillings.Sprintf("%.2f", amount)
}

// FormatDate renders epoch milliseconds in loc. A nil loc means time.Local.
func FormatDate(millis int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(millis).In(loc).Format(DateLayout)
}
