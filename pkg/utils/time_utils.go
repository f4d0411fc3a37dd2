package utils

import (
	"strings"
	"time"
)

// ParseStateTransitionTime extracts a time from EC2 state transition reason
// Example format: "User initiated (2023-04-01 12:34:56 GMT)"
func ParseStateTransitionTime(reason string) *time.Time {
	if len(reason) == 0 {
		return nil
	}

	open := strings.LastIndex(reason, "(")
	if open < 0 {
		return nil
	}

	dateStr := strings.TrimSuffix(strings.TrimSpace(reason[open+1:]), ")")
	dateStr = strings.TrimSpace(dateStr)

	t, err := time.Parse("2006-01-02 15:04:05 MST", dateStr)
	if err != nil {
		return nil
	}

	return &t
}
