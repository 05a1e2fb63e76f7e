package dsmr

import (
	"strings"
	"time"
)

// Marker between the event count and the event log body.
const powerFailureMarker = ")(0-0:96.7.19)("

// DecodePowerFailureLog decodes
// `<count>)(0-0:96.7.19)(<ts1>)(<dur1>*<unit1>)(<ts2>)(<dur2>*<unit2>)...`.
// Count and entries are not reconciled, a truncated body yields fewer
// entries than Count.
func DecodePowerFailureLog(value string, loc *time.Location) PowerFailureLog {
	countRaw, body, hasBody := strings.Cut(value, powerFailureMarker)

	out := PowerFailureLog{Log: []PowerFailure{}}
	if count := parseInt(countRaw); count != nil {
		out.Count = *count
	}
	if !hasBody || body == "" {
		return out
	}

	tokens := strings.Split(strings.TrimSuffix(body, ")"), ")(")
	for i := 0; i+1 < len(tokens); i += 2 {
		ts, duration := tokens[i], tokens[i+1]
		if ts == "" || duration == "" {
			continue
		}

		entry := PowerFailure{}
		if iso, err := DecodeTimestamp(ts, loc); err == nil {
			entry.EndOfFailure = &iso
		}
		amount, unit, _ := strings.Cut(duration, "*")
		entry.Duration = parseInt(amount)
		entry.Unit = unit

		out.Log = append(out.Log, entry)
	}
	return out
}
