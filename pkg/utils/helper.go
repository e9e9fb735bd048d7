package utils

import (
	"strconv"
	"strings"
	"time"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseBool converts query-style flags ("true", "1") to bool.
func ParseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// ParseEventDate parses a YYYY-MM-DD date string.
func ParseEventDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// NormalizeSlotTime validates an HH:MM slot time and returns it normalized.
func NormalizeSlotTime(value string) (string, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return "", err
	}
	return t.Format("15:04"), nil
}
