package meterdb

import (
	"errors"
	"time"

	"github.com/NotCoffee418/p1_decoder/pkg/dsmr"
	"github.com/NotCoffee418/p1_decoder/pkg/esmutils"
)

var ErrNoTimestamp = errors.New("packet has no usable timestamp")

// Tariff indicator values as sent by the meter in 0-0:96.14.0
const (
	tariffDay   = 1
	tariffNight = 2
)

// RowsFromPacket maps a decoded packet onto storage rows. Absent readings,
// NaN readings and unknown units are left out.
func RowsFromPacket(p *dsmr.ParsedPacket) (PacketRows, error) {
	rows := PacketRows{}
	if p == nil || p.Timestamp == nil {
		return rows, ErrNoTimestamp
	}
	ts, err := unixFromISO(*p.Timestamp)
	if err != nil {
		return rows, errors.Join(ErrNoTimestamp, err)
	}

	e := p.Electricity
	night := e.TariffIndicator != nil && *e.TariffIndicator == tariffNight

	liveType := func(consumption bool) MeterDbPowerReadingType {
		switch {
		case consumption && night:
			return PowerConsumptionNight
		case consumption:
			return PowerConsumptionDay
		case night:
			return PowerProductionNight
		default:
			return PowerProductionDay
		}
	}
	if w, ok := toWatt(e.Received.Actual); ok {
		rows.LivePower = append(rows.LivePower, MeterDbLivePowerReading{Timestamp: ts, Watt: w, ReadingType: liveType(true)})
	}
	if w, ok := toWatt(e.Delivered.Actual); ok {
		rows.LivePower = append(rows.LivePower, MeterDbLivePowerReading{Timestamp: ts, Watt: w, ReadingType: liveType(false)})
	}

	totals := []struct {
		reading     *dsmr.Reading
		readingType MeterDbPowerReadingType
	}{
		{e.Received.Tariff1, PowerConsumptionDay},
		{e.Received.Tariff2, PowerConsumptionNight},
		{e.Delivered.Tariff1, PowerProductionDay},
		{e.Delivered.Tariff2, PowerProductionNight},
	}
	for _, total := range totals {
		if wh, ok := toWatt(total.reading); ok {
			rows.TotalPower = append(rows.TotalPower, MeterDbTotalPowerReading{Timestamp: ts, Watthour: wh, ReadingType: total.readingType})
		}
	}

	if g := p.Gas; g.Reading != nil && g.Unit != nil && g.Reading.IsValid() {
		if dm3, ok := esmutils.ToDM3(*g.Reading, *g.Unit); ok {
			gasTs := ts
			if g.Timestamp != nil {
				if parsed, err := unixFromISO(*g.Timestamp); err == nil {
					gasTs = parsed
				}
			}
			rows.Gas = &MeterDbTotalGasReading{Timestamp: gasTs, TotalConsumptionDM3: dm3}
		}
	}

	if e.LongPowerFailureLog != nil {
		for _, failure := range e.LongPowerFailureLog.Log {
			if failure.EndOfFailure == nil || failure.Duration == nil {
				continue
			}
			end, err := unixFromISO(*failure.EndOfFailure)
			if err != nil {
				continue
			}
			seconds, ok := esmutils.ToSeconds(*failure.Duration, failure.Unit)
			if !ok {
				continue
			}
			rows.PowerFailures = append(rows.PowerFailures, MeterDbPowerFailure{EndOfFailure: end, DurationSeconds: seconds})
		}
	}

	return rows, nil
}

func toWatt(r *dsmr.Reading) (uint32, bool) {
	if r == nil || !r.Reading.IsValid() {
		return 0, false
	}
	return esmutils.ToWattOrWh(r.Reading, r.Unit)
}

func unixFromISO(iso string) (int64, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
