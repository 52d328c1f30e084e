package util

import (
	"strings"
	"time"
)

// dateTokens are replaced longest-first so YYYY is never eaten by YY.
var dateTokens = []struct{ token, layout string }{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"hh", "15"},
	{"mm", "04"},
	{"ss", "05"},
}

// FormatDateTpl formats t using a template with placeholders.
//
// Supported placeholders:
// - YYYY: 4-digit year
// - YY: 2-digit year
// - MM: 2-digit month (01-12)
// - DD: 2-digit day (01-31)
// - hh: 2-digit hour (00-23)
// - mm: 2-digit minute (00-59)
// - ss: 2-digit second (00-59)
//
// Returns an empty string for the zero time.
//
// Example:
//
//	FormatDateTpl(t, "YYYY/MM/DD hh:mm") // "2023/11/10 09:05"
func FormatDateTpl(t time.Time, tpl string) string {
	if t.IsZero() {
		return ""
	}

	goTpl := tpl
	for _, r := range dateTokens {
		goTpl = strings.ReplaceAll(goTpl, r.token, r.layout)
	}
	return t.Format(goTpl)
}
