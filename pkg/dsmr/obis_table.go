package dsmr

import (
	"fmt"
)

// fieldHandler stores one parsed line into the packet. A returned error is
// reported as a diagnostic, it never stops decoding.
type fieldHandler func(d *Decoder, p *ParsedPacket, l parsedLine) error

func rawString(dst func(p *ParsedPacket) **string) fieldHandler {
	return func(_ *Decoder, p *ParsedPacket, l parsedLine) error {
		v := l.value
		*dst(p) = &v
		return nil
	}
}

func integer(dst func(p *ParsedPacket) **int64) fieldHandler {
	return func(_ *Decoder, p *ParsedPacket, l parsedLine) error {
		*dst(p) = parseInt(l.value)
		return nil
	}
}

func reading(dst func(p *ParsedPacket) **Reading) fieldHandler {
	return func(_ *Decoder, p *ParsedPacket, l parsedLine) error {
		*dst(p) = &Reading{Reading: parseFloat(l.value), Unit: l.unit}
		return nil
	}
}

func timestamp(d *Decoder, p *ParsedPacket, l parsedLine) error {
	iso, err := DecodeTimestamp(l.value, d.location)
	if err != nil {
		p.Timestamp = nil
		return err
	}
	p.Timestamp = &iso
	return nil
}

func threshold(_ *Decoder, p *ParsedPacket, l parsedLine) error {
	p.Electricity.Threshold = &Threshold{Value: parseFloat(l.value), Unit: l.unit}
	return nil
}

func powerFailureLog(d *Decoder, p *ParsedPacket, l parsedLine) error {
	log := DecodePowerFailureLog(l.value, d.location)
	p.Electricity.LongPowerFailureLog = &log
	return nil
}

func gasHourlyReading(d *Decoder, p *ParsedPacket, l parsedLine) error {
	// a later occurrence replaces the whole reading, even when it is malformed
	hourly, err := DecodeHourlyReading(l.value)
	if err != nil {
		p.Gas.Reading = nil
		p.Gas.Unit = nil
		p.Gas.Timestamp = nil
		return err
	}

	value := parseFloat(hourly.Value)
	unit := hourly.Unit
	p.Gas.Reading = &value
	p.Gas.Unit = &unit

	iso, err := DecodeTimestamp(hourly.Timestamp, d.location)
	if err != nil {
		p.Gas.Timestamp = nil
		return fmt.Errorf("gas reading: %w", err)
	}
	p.Gas.Timestamp = &iso
	return nil
}

// buildObisTable maps every supported OBIS code to the field it fills.
// Sub-meter codes are placed on gasChannel.
func buildObisTable(gasChannel int) map[string]fieldHandler {
	gas := func(code string) string {
		return fmt.Sprintf("0-%d:%s", gasChannel, code)
	}

	return map[string]fieldHandler{
		"1-3:0.2.8":  rawString(func(p *ParsedPacket) **string { return &p.Version }),
		"0-0:1.0.0":  timestamp,
		"0-0:96.1.1": rawString(func(p *ParsedPacket) **string { return &p.EquipmentID }),

		"1-0:1.8.1": reading(func(p *ParsedPacket) **Reading { return &p.Electricity.Received.Tariff1 }),
		"1-0:1.8.2": reading(func(p *ParsedPacket) **Reading { return &p.Electricity.Received.Tariff2 }),
		"1-0:2.8.1": reading(func(p *ParsedPacket) **Reading { return &p.Electricity.Delivered.Tariff1 }),
		"1-0:2.8.2": reading(func(p *ParsedPacket) **Reading { return &p.Electricity.Delivered.Tariff2 }),
		"1-0:1.7.0": reading(func(p *ParsedPacket) **Reading { return &p.Electricity.Received.Actual }),
		"1-0:2.7.0": reading(func(p *ParsedPacket) **Reading { return &p.Electricity.Delivered.Actual }),

		"0-0:96.14.0": integer(func(p *ParsedPacket) **int64 { return &p.Electricity.TariffIndicator }),
		"0-0:17.0.0":  threshold,
		"0-0:96.3.10": rawString(func(p *ParsedPacket) **string { return &p.Electricity.SwitchPosition }),
		"0-0:96.7.21": integer(func(p *ParsedPacket) **int64 { return &p.Electricity.NumberOfPowerFailures }),
		"0-0:96.7.9":  integer(func(p *ParsedPacket) **int64 { return &p.Electricity.NumberOfLongPowerFailures }),
		"1-0:99.97.0": powerFailureLog,

		"1-0:32.32.0": integer(func(p *ParsedPacket) **int64 { return &p.Electricity.VoltageSagsL1 }),
		"1-0:52.32.0": integer(func(p *ParsedPacket) **int64 { return &p.Electricity.VoltageSagsL2 }),
		"1-0:72.32.0": integer(func(p *ParsedPacket) **int64 { return &p.Electricity.VoltageSagsL3 }),
		"1-0:32.36.0": integer(func(p *ParsedPacket) **int64 { return &p.Electricity.VoltageSwellL1 }),
		"1-0:52.36.0": integer(func(p *ParsedPacket) **int64 { return &p.Electricity.VoltageSwellL2 }),
		"1-0:72.36.0": integer(func(p *ParsedPacket) **int64 { return &p.Electricity.VoltageSwellL3 }),

		"0-0:96.13.1": rawString(func(p *ParsedPacket) **string { return &p.TextMessage.Codes }),
		"0-0:96.13.0": rawString(func(p *ParsedPacket) **string { return &p.TextMessage.Message }),

		gas("24.1.0"): rawString(func(p *ParsedPacket) **string { return &p.Gas.DeviceType }),
		gas("96.1.0"): rawString(func(p *ParsedPacket) **string { return &p.Gas.EquipmentID }),
		gas("24.2.1"): gasHourlyReading,
		gas("24.4.0"): rawString(func(p *ParsedPacket) **string { return &p.Gas.ValvePosition }),
	}
}
