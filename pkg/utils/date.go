package utils

import (
	"time"
)

func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}
