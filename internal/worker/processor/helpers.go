package processor

import (
	"time"
)

// cell returns row[i], or def when the row is too short.
func cell(row []string, i int, def string) string {
	if i < 0 || i >= len(row) {
		return def
	}
	return row[i]
}

// ErrorStatus builds the status written when generation failed with a
// message: the prefix plus the first 50 characters of msg.
func ErrorStatus(msg string) string {
	return StatusErrorPrefix + truncateRunes(msg, 50)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// FormatGeneratedAt renders t the way the sheet's date column expects
// (dd/mm/yyyy hh:mm:ss).
func FormatGeneratedAt(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("02/01/2006 15:04:05")
}

func parisLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.UTC
	}
	return loc
}
