package dsmr

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedHourlyReading = errors.New("malformed hourly reading")

// HourlyReading is a sub-meter value before conversion. Value stays a string,
// the dispatcher converts it.
type HourlyReading struct {
	Timestamp string
	Value     string
	Unit      string
}

// DecodeHourlyReading splits `<timestamp>)(<reading>*<unit>` as used by gas,
// water and heat meters on an M-Bus channel.
func DecodeHourlyReading(value string) (HourlyReading, error) {
	ts, reading, _ := strings.Cut(value, ")(")
	if ts == "" || reading == "" {
		return HourlyReading{}, fmt.Errorf("%w: %q", ErrMalformedHourlyReading, value)
	}

	reading = strings.TrimSuffix(reading, ")")
	amount, unit, _ := strings.Cut(reading, "*")
	return HourlyReading{
		Timestamp: ts,
		Value:     amount,
		Unit:      unit,
	}, nil
}
