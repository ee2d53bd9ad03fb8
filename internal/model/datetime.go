package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LocalDateTimeLayout is the layout used when rendering date-times.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// accepted layouts, tried in order
var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.RFC3339Nano,
}

// LocalDateTime is a wall-clock date-time without zone, as exchanged over
// the API ("2024-01-01T20:00" or "2024-01-01T20:00:00").  RFC 3339 input
// is accepted too; its offset is dropped and the wall clock kept.
type LocalDateTime struct {
	time.Time
}

// ParseLocalDateTime parses s using any of the accepted layouts.
func ParseLocalDateTime(s string) (LocalDateTime, error) {
	for _, layout := range localDateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return LocalDateTime{Time: wallClock(t)}, nil
		}
	}
	return LocalDateTime{}, fmt.Errorf("invalid date-time %q, expected yyyy-MM-ddTHH:mm[:ss]", s)
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func (d LocalDateTime) String() string {
	return d.Format(LocalDateTimeLayout)
}

// MarshalJSON renders the zero value as null.
func (d LocalDateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *LocalDateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = LocalDateTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date-time must be a string: %w", err)
	}
	parsed, err := ParseLocalDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
