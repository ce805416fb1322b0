package domain

import "time"

const DisplayDateLayout = "02/01/2006"

// FormatDisplayDate formats t as DD/MM/YYYY in loc. Zero times format as "".
func FormatDisplayDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(DisplayDateLayout)
}

// Timestamps below this are interpreted as seconds instead of milliseconds
const secondsThreshold = 1_000_000_000_000

// TimeFromUnixTimestamp converts a unix timestamp in either milliseconds or seconds
func TimeFromUnixTimestamp(timestamp int64) time.Time {
	if timestamp < secondsThreshold {
		return time.Unix(timestamp, 0)
	}
	return time.UnixMilli(timestamp)
}
