package utils

import (
	"strings"
	"time"
)

const (
	layoutDate = "2006-01-02"
	layoutTime = "15:04"
)

// ValidDate reports whether s is a YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(layoutDate, strings.TrimSpace(s))
	return err == nil
}

// ValidClock reports whether s is an HH:MM time of day.
func ValidClock(s string) bool {
	_, err := time.Parse(layoutTime, strings.TrimSpace(s))
	return err == nil
}
