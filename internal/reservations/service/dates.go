package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "otabridge/pkg/errors"
)

// ParseStayDate normalizes the date-only strings channels send. Both
// "-" and "/" separators are accepted and single-digit months and days
// are zero-padded, so "2025/7/3" and "2025-07-03" parse to the same
// day. The result carries the supplied wall-clock time so that records
// created together sort in arrival order.
func ParseStayDate(raw string, at time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperrors.Validation("Missing date in room stay")
	}

	parts := strings.Split(strings.ReplaceAll(raw, "/", "-"), "-")
	if len(parts) != 3 {
		return time.Time{}, apperrors.Validation(fmt.Sprintf("Invalid date format: %s", raw))
	}

	year, errY := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	day, errD := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, apperrors.Validation(fmt.Sprintf("Invalid date format: %s", raw))
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, apperrors.Validation(fmt.Sprintf("Invalid date format: %s", raw))
	}

	return time.Date(year, time.Month(month), day, at.Hour(), at.Minute(), at.Second(), 0, time.UTC), nil
}
