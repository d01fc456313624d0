package domain

import "time"

// Brazilian short formats used everywhere a date or time is stored as
// a string in the snapshot.
const (
	DateLayoutBR = "02/01/2006"

	TimeLayoutBR = "15:04:05"
)

// FormatDateBR renders t as dd/mm/yyyy
func FormatDateBR(t time.Time) string {
	return t.Format(DateLayoutBR)
}

// FormatTimeBR renders t as hh:mm:ss
func FormatTimeBR(t time.Time) string {
	return t.Format(TimeLayoutBR)
}

// ParseDateBR parses a dd/mm/yyyy string. The layout is fixed; dates
// stored with any other shape are rejected, never guessed at.
func ParseDateBR(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayoutBR, s, time.Local)
}

// StartOfDay truncates t to local midnight
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
