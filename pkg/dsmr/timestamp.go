package dsmr

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrInvalidTimestamp = errors.New("invalid timestamp")

// ISO-8601 with milliseconds, always rendered in UTC.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// DecodeTimestamp converts `YYMMDDhhmmss[X]` into an ISO-8601 string. The
// fields are read as wall-clock time in loc and rendered in UTC.
//
// The trailing DST flag (W/S) is ignored, so readings taken during the hour
// that repeats at the end of summer time map to the same instant.
func DecodeTimestamp(raw string, loc *time.Location) (string, error) {
	if len(raw) < 12 {
		return "", fmt.Errorf("%w: %q is shorter than 12 characters", ErrInvalidTimestamp, raw)
	}
	if loc == nil {
		loc = time.Local
	}

	var parts [6]int
	for i := range parts {
		field := raw[i*2 : i*2+2]
		v, err := strconv.Atoi(field)
		if err != nil || v < 0 {
			return "", fmt.Errorf("%w: %q has a non numeric field %q", ErrInvalidTimestamp, raw, field)
		}
		parts[i] = v
	}

	t := time.Date(2000+parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, loc)
	return t.UTC().Format(isoLayout), nil
}
