package util

import (
	"strings"
	"time"
)

// LocalDateTime is a wall-clock timestamp as typed into a form, interpreted
// in the configured user time zone.
type LocalDateTime struct {
	time.Time
}

const layout = "2006-01-02T15:04:05"

var inputLayouts = []string{
	layout,
	"2006-01-02T15:04",
	"2006-01-02",
}

var location = time.UTC

// SetLocation changes the zone used to read and render local timestamps.
func SetLocation(name string) error {
	if name == "" {
		location = time.UTC
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	location = loc
	return nil
}

func Location() *time.Location {
	return location
}

func ToTimePtr(ldt *LocalDateTime) *time.Time {
	if ldt == nil || ldt.IsZero() {
		return nil
	}
	t := ldt.Time.UTC()
	return &t
}

func Parse(s string) (LocalDateTime, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return LocalDateTime{Time: t}, nil
	}
	var lastErr error
	for _, l := range inputLayouts {
		t, err := time.ParseInLocation(l, s, location)
		if err == nil {
			return LocalDateTime{Time: t}, nil
		}
		lastErr = err
	}
	return LocalDateTime{}, lastErr
}

func (ldt *LocalDateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := Parse(s)
	if err != nil {
		return err
	}
	*ldt = t
	return nil
}

func (ldt LocalDateTime) MarshalJSON() ([]byte, error) {
	if ldt.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + ldt.In(location).Format(layout) + `"`), nil
}

func (ldt LocalDateTime) Equal(other LocalDateTime) bool {
	return ldt.Time.Equal(other.Time)
}
