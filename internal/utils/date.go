package utils

import (
	"strings"
	"time"
)

// ISODateLayout is the YYYY-MM-DD layout used for birth dates.
const ISODateLayout = "2006-01-02"

// ParseISODate parses a YYYY-MM-DD date at midnight UTC.
func ParseISODate(s string) (time.Time, error) {
	return time.Parse(ISODateLayout, strings.TrimSpace(s))
}

// IsFutureDate reports whether the calendar day d comes after the calendar day of now.
func IsFutureDate(d, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return day.After(today)
}

// LatestBirthDate returns the latest birth date allowed for someone who must be at least minAge years old.
func LatestBirthDate(now time.Time, minAge int) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if minAge <= 0 {
		return today
	}
	return today.AddDate(-minAge, 0, 0)
}

// FormatDateBR converts YYYY-MM-DD into DD/MM/YYYY. Empty input yields "".
func FormatDateBR(date string) string {
	if date == "" {
		return ""
	}
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
