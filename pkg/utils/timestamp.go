package utils

import "time"

// timestampLayout keeps record timestamps lexicographically sortable, so the
// aggregation layer can order deals with plain string comparison.
const timestampLayout = "2006-01-02 15:04:05.000Z"

// NowTimestamp returns the current UTC time in the record timestamp format.
func NowTimestamp() string {
	return time.Now().UTC().Format(timestampLayout)
}

// ParseTimestamp converts a record timestamp back to time.Time, mainly for
// the CSV export where timestamps are rendered human readable.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}
