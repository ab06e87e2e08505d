// Package model defines domain models shared by the slot clock and the history scanner.
package model

import "time"

// Timestamp is a signed instant in microseconds since the Unix epoch.
type Timestamp int64

// TimestampFromTime converts a wall-clock time into a Timestamp.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMicro())
}

// Time returns the UTC wall-clock time for the timestamp.
func (t Timestamp) Time() time.Time {
	return time.UnixMicro(int64(t)).UTC()
}

// Add shifts the timestamp by d, truncated to microseconds.
func (t Timestamp) Add(d time.Duration) Timestamp {
	return t + Timestamp(d.Microseconds())
}

// Sub returns the duration t-u.
func (t Timestamp) Sub(u Timestamp) time.Duration {
	return time.Duration(t-u) * time.Microsecond
}

func (t Timestamp) String() string {
	return t.Time().Format(time.RFC3339Nano)
}
