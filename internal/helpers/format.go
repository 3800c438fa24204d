// SPDX-License-Identifier: AGPL-3.0-only
package helpers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// pt-BR short month names, as the dashboard has always labelled its charts.
var shortMonths = [12]string{
	"jan.", "fev.", "mar.", "abr.", "mai.", "jun.",
	"jul.", "ago.", "set.", "out.", "nov.", "dez.",
}

// MonthLabel renders the month bucket key for t in loc, e.g. "jan. 2024".
func MonthLabel(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%s %d", shortMonths[t.Month()-1], t.Year())
}

// FormatNumber shortens large counts: 1500 -> "1.5K", 2000000 -> "2M".
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return compact(float64(n)/1_000_000) + "M"
	case n >= 1_000:
		return compact(float64(n)/1_000) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

func compact(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v, 'f', 1, 64), ".0")
}

// FormatScheduledDate renders a schedule like "15 de jan., 14:30".
func FormatScheduledDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%d de %s, %02d:%02d", t.Day(), shortMonths[t.Month()-1], t.Hour(), t.Minute())
}
