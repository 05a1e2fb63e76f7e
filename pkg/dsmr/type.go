package dsmr

import (
	"encoding/json"
	"math"
	"strconv"
)

// Float is a decoded reading. Malformed numbers are kept as NaN and written
// as null in JSON, since encoding/json refuses NaN.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// IsValid reports whether the reading holds a real number.
func (f Float) IsValid() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Reading is a value with its unit. A nil *Reading means the line was absent.
type Reading struct {
	Reading Float  `json:"reading"`
	Unit    string `json:"unit"`
}

type Threshold struct {
	Value Float  `json:"value"`
	Unit  string `json:"unit"`
}

type Direction struct {
	Tariff1 *Reading `json:"tariff1"`
	Tariff2 *Reading `json:"tariff2"`
	Actual  *Reading `json:"actual"`
}

type PowerFailure struct {
	EndOfFailure *string `json:"endOfFailure"`
	Duration     *int64  `json:"duration"`
	Unit         string  `json:"unit"`
}

// PowerFailureLog is the long power failure event log. Count is what the
// meter reports and may differ from len(Log) on truncated telegrams.
type PowerFailureLog struct {
	Count int64          `json:"count"`
	Log   []PowerFailure `json:"log"`
}

type Electricity struct {
	Received                  Direction        `json:"received"`
	Delivered                 Direction        `json:"delivered"`
	TariffIndicator           *int64           `json:"tariffIndicator"`
	Threshold                 *Threshold       `json:"threshold"`
	SwitchPosition            *string          `json:"switchPosition"`
	NumberOfPowerFailures     *int64           `json:"numberOfPowerFailures"`
	NumberOfLongPowerFailures *int64           `json:"numberOfLongPowerFailures"`
	LongPowerFailureLog       *PowerFailureLog `json:"longPowerFailureLog"`
	VoltageSagsL1             *int64           `json:"voltageSagsL1"`
	VoltageSagsL2             *int64           `json:"voltageSagsL2"`
	VoltageSagsL3             *int64           `json:"voltageSagsL3"`
	VoltageSwellL1            *int64           `json:"voltageSwellL1"`
	VoltageSwellL2            *int64           `json:"voltageSwellL2"`
	VoltageSwellL3            *int64           `json:"voltageSwellL3"`
}

type TextMessage struct {
	Codes   *string `json:"codes"`
	Message *string `json:"message"`
}

type Gas struct {
	DeviceType    *string `json:"deviceType"`
	EquipmentID   *string `json:"equipmentId"`
	Timestamp     *string `json:"timestamp"`
	Reading       *Float  `json:"reading"`
	Unit          *string `json:"unit"`
	ValvePosition *string `json:"valvePosition"`
}

// ParsedPacket is the decoded form of one telegram. Every field stays nil
// unless a line in the telegram set it.
type ParsedPacket struct {
	MeterType   string      `json:"meterType"`
	Version     *string     `json:"version"`
	Timestamp   *string     `json:"timestamp"`
	EquipmentID *string     `json:"equipmentId"`
	TextMessage TextMessage `json:"textMessage"`
	Electricity Electricity `json:"electricity"`
	Gas         Gas         `json:"gas"`
}

func (p *ParsedPacket) ToJsonBytes() []byte {
	data, err := json.Marshal(p)
	if err != nil {
		return []byte("{}")
	}
	return data
}

func (p *ParsedPacket) ToIndentedJson() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

func PacketFromJsonBytes(data []byte) (*ParsedPacket, error) {
	var packet ParsedPacket
	if err := json.Unmarshal(data, &packet); err != nil {
		return nil, err
	}
	return &packet, nil
}

// parsedLine is one `code(value*unit)` line split into its parts.
type parsedLine struct {
	obisCode string
	value    string
	unit     string
}
