package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var spanishMonths = []string{
	"ENE", "FEB", "MAR", "ABR", "MAY", "JUN",
	"JUL", "AGO", "SEP", "OCT", "NOV", "DIC",
}

// FormatDate converts an ISO date (YYYY-MM-DD) to DD/MM/YYYY. Strings
// that are not ISO dates pass through unchanged.
func FormatDate(iso string) string {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	return fmt.Sprintf("%s/%s/%s", parts[2], parts[1], parts[0])
}

// FormatDateSpanish converts an ISO date to the short "D MES" form used
// by the ERP template, e.g. "2025-01-05" -> "5 ENE".
func FormatDateSpanish(iso string) string {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return iso
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return iso
	}
	return fmt.Sprintf("%d %s", day, spanishMonths[month-1])
}

// FormatToday renders a time as DD/MM/YYYY.
func FormatToday(t time.Time) string {
	return t.Format("02/01/2006")
}
