package utils_test

import (
	"testing"
	"time"

	"naulify_agent/internal/utils"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[float64]string{
		0:       "Ksh 0.00",
		50:      "Ksh 50.00",
		1234.5:  "Ksh 1,234.50",
		1000000: "Ksh 1,000,000.00",
	}
	for in, want := range cases {
		if got := utils.FormatCurrency(in); got != want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC).UnixMilli()
	if got := utils.FormatDate(ts, time.UTC); got != "05 Mar 2024, 14:07" {
		t.Fatalf("FormatDate = %q", got)
	}

	nairobi := time.FixedZone("EAT", 3*60*60)
	if got := utils.FormatDate(ts, nairobi); got != "05 Mar 2024, 17:07" {
		t.Fatalf("FormatDate in EAT = %q", got)
	}
}
