package viewmodel

import (
	"strings"
	"time"
)

// DisplayLocation is the zone every HH:MM and date column is rendered in.
// Set once at startup from configuration.
var DisplayLocation = time.FixedZone("CAT", 2*60*60)

// safely dereference pointer of type T, nil pointer returns zero value or optional default
func DereferencePtr[T any](ptr *T, defaults ...T) T {
	var defaultValue T
	if len(defaults) > 0 {
		defaultValue = defaults[0]
	}
	if ptr == nil {
		return defaultValue
	}
	return *ptr
}

// text trims the pointed string; nil and blank both yield fallback.
func text(ptr *string, fallback string) string {
	v := strings.TrimSpace(DereferencePtr(ptr))
	if v == "" {
		return fallback
	}
	return v
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads the backend's timestamp and date formats.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// clock formats t as 24-hour HH:MM in DisplayLocation.
func clock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(DisplayLocation).Format("15:04")
}

// day returns the calendar date part of a backend date or timestamp.
func day(raw *string) string {
	v := strings.TrimSpace(DereferencePtr(raw))
	if v == "" {
		return ""
	}
	if len(v) == len("2006-01-02") {
		return v
	}
	if t, ok := ParseTimestamp(v); ok {
		return t.In(DisplayLocation).Format("2006-01-02")
	}
	return v
}

func mapAll[R any, V any](in []R, fn func(R) V) []V {
	out := make([]V, 0, len(in))
	for _, r := range in {
		out = append(out, fn(r))
	}
	return out
}
