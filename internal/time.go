package internal

import (
	"fmt"
	"strings"
	"time"
)

// naiveLayout is an ISO-8601 timestamp without a zone designator.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// ParseCreatedAt parses a record's creation timestamp, which the API always
// renders in UTC with a 'Z' suffix, e.g. 2024-01-01T00:00:00.000Z.
func ParseCreatedAt(s string) (time.Time, error) {
	if !strings.HasSuffix(s, "Z") {
		return time.Time{}, fmt.Errorf("timestamp %q is not in UTC", s)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseNaiveTimestamp parses an ISO-8601 timestamp, ignoring any zone
// information: a trailing 'Z' is stripped and the remainder is read as UTC.
// A numeric offset is not applied either: the wall clock is kept and the
// offset discarded, in which case offset is true so the caller can warn about
// it.
func ParseNaiveTimestamp(s string) (t time.Time, offset bool, err error) {
	if trimmed, ok := strings.CutSuffix(s, "Z"); ok {
		t, err = time.Parse(naiveLayout, trimmed)
		return t, false, err
	}
	if t, err = time.Parse(naiveLayout, s); err == nil {
		return t, false, nil
	}
	withOffset, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false, err
	}
	wall := time.Date(
		withOffset.Year(), withOffset.Month(), withOffset.Day(),
		withOffset.Hour(), withOffset.Minute(), withOffset.Second(), withOffset.Nanosecond(),
		time.UTC,
	)
	return wall, true, nil
}
