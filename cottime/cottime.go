// Package cottime parses and formats the ISO-8601 timestamps carried in
// CoT event headers (time, start, stale) and converts between the
// wire string form and the millisecond/microsecond epoch forms used by
// the stored document header (fields b, n, o).
package cottime

import (
	"fmt"
	"time"
)

// Layout is the wire format for CoT timestamps: RFC3339 with nanosecond
// precision, always rendered in UTC with a trailing "Z".
const Layout = "2006-01-02T15:04:05.999999999Z07:00"

// Zero is the sentinel instant returned by Parse in safe mode when the
// input cannot be parsed. Callers must not mistake it for a legitimate
// epoch timestamp; it exists so safe-mode conversions always produce a
// usable time.Time rather than propagating a zero value silently.
var Zero = time.Unix(0, 0).UTC()

// Parse parses s as an ISO-8601 timestamp. It accepts second precision
// up to nanosecond precision and requires a "Z" or explicit offset
// suffix, matching the CoT wire format.
func Parse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("cottime: empty timestamp")
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cottime: invalid ISO-8601 timestamp %q", s)
}

// ParseSafe parses s and falls back to Zero on any error, never
// returning an error. Used by safe-mode conversions where a malformed
// timestamp must not abort the whole conversion.
func ParseSafe(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		return Zero
	}
	return t
}

// ToMillis returns t as milliseconds since the Unix epoch.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// ToMicros returns t as microseconds since the Unix epoch, preserving
// sub-second precision up to microsecond resolution; nanosecond
// remainders below 1us are truncated.
func ToMicros(t time.Time) int64 {
	return t.UnixMicro()
}

// FromMillis is the inverse of ToMillis.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// FromMicros is the inverse of ToMicros.
func FromMicros(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}

// Format renders t using the CoT wire layout.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// FromMicrosString formats a microsecond epoch value directly as an
// ISO-8601 string, the inverse used by document reconstruction for the
// n (start) and o (stale) header fields.
func FromMicrosString(us int64) string {
	return Format(FromMicros(us))
}

// FromMillisString formats a millisecond epoch value directly as an
// ISO-8601 string, the inverse used by document reconstruction for the
// b (time) header field.
func FromMillisString(ms int64) string {
	return Format(FromMillis(ms))
}
