// ABOUTME: Lenient ISO-8601 timestamp that survives malformed stored values
// ABOUTME: Keeps the raw string for lossless round trips and parses it once
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// ISOLayout is the layout used for every timestamp this package writes.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// zone-less layouts are read in local time, the way a browser reads datetime-local input.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Timestamp is an ISO-8601 instant that may be invalid. An invalid value
// keeps its raw text so it is written back unchanged.
type Timestamp struct {
	raw   string
	t     time.Time
	valid bool
}

// NewTimestamp formats t as UTC with millisecond precision.
func NewTimestamp(t time.Time) Timestamp {
	return ParseTimestamp(t.UTC().Format(ISOLayout))
}

// ParseTimestamp never fails; check Valid on the result.
func ParseTimestamp(raw string) Timestamp {
	ts := Timestamp{raw: raw}
	s := strings.TrimSpace(raw)
	if s == "" {
		return ts
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		ts.t, ts.valid = t, true
		return ts
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			ts.t, ts.valid = t, true
			return ts
		}
	}
	return ts
}

// Valid reports whether the raw value parsed.
func (ts Timestamp) Valid() bool { return ts.valid }

// Time returns the parsed instant and whether it is valid.
func (ts Timestamp) Time() (time.Time, bool) { return ts.t, ts.valid }

// String returns the raw stored text.
func (ts Timestamp) String() string { return ts.raw }

// IsZero reports whether nothing was ever stored.
func (ts Timestamp) IsZero() bool { return ts.raw == "" }

// Equal compares the stored text.
func (ts Timestamp) Equal(other Timestamp) bool { return ts.raw == other.raw }

// instant orders invalid values before every valid one.
func (ts Timestamp) instant() time.Time {
	if !ts.valid {
		return time.Time{}
	}
	return ts.t
}

// Compare returns -1, 0 or +1. Invalid timestamps sort as the earliest instant.
func (ts Timestamp) Compare(other Timestamp) int {
	return ts.instant().Compare(other.instant())
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.raw)
}

// UnmarshalJSON accepts any JSON value; non-strings become an empty, invalid timestamp.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*ts = Timestamp{}
		return nil //nolint:nilerr // malformed dates degrade instead of failing the whole load
	}
	*ts = ParseTimestamp(s)
	return nil
}
