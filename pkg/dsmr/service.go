// Package dsmr decodes DSMR P1 telegrams into a ParsedPacket.
//
// A telegram is a header line (`/XXX5...`), a blank line and one
// `<OBIS>(<value>[*<unit>])` measurement per line. Lines the decoder does not
// know are logged and skipped, decoding never fails as a whole.
package dsmr

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultGasChannel is the M-Bus channel the gas meter is assumed to be on.
// DSMR does not say which device class occupies which channel, grid operators
// in practice install gas on channel 1.
const DefaultGasChannel = 1

const maxMBusChannel = 4

// Decoder holds the OBIS table and the settings used to fill it. It is not
// modified after NewDecoder and may be shared between goroutines.
type Decoder struct {
	log        logrus.FieldLogger
	location   *time.Location
	gasChannel int
	table      map[string]fieldHandler
}

type Option func(d *Decoder)

// WithLogger sets where unparseable lines are reported.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Decoder) {
		d.log = log
	}
}

// WithLocation sets the time zone the meter clock runs in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(d *Decoder) {
		d.location = loc
	}
}

// WithGasChannel places the gas meter on another M-Bus channel (1-4).
func WithGasChannel(channel int) Option {
	return func(d *Decoder) {
		d.gasChannel = channel
	}
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		log:        logrus.StandardLogger(),
		location:   time.Local,
		gasChannel: DefaultGasChannel,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.log == nil {
		d.log = logrus.StandardLogger()
	}
	d.log = d.log.WithField("component", "dsmr")
	if d.location == nil {
		d.location = time.Local
	}
	if d.gasChannel < 1 || d.gasChannel > maxMBusChannel {
		d.log.Warnf("M-Bus channel %d out of range, using %d for gas", d.gasChannel, DefaultGasChannel)
		d.gasChannel = DefaultGasChannel
	}
	d.table = buildObisTable(d.gasChannel)
	return d
}

func (d *Decoder) GasChannel() int {
	return d.gasChannel
}

var defaultDecoder = NewDecoder()

// Decode decodes a telegram with the default settings.
func Decode(text string) *ParsedPacket {
	return defaultDecoder.Decode(text)
}

// Decode returns a fresh packet for every call. Fields without a matching
// line are left nil.
func (d *Decoder) Decode(text string) *ParsedPacket {
	lines := splitLines(text)
	packet := &ParsedPacket{
		MeterType: meterType(lines[0]),
	}

	// line 0 is the header, line 1 the blank separator
	for i := 2; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}

		line, ok := parseLine(lines[i])
		if !ok {
			d.log.WithField("line", lines[i]).Warn("Unable to parse line")
			continue
		}

		handle, known := d.table[line.obisCode]
		if !known {
			d.log.WithField("line", lines[i]).Warn("Unable to parse line")
			continue
		}

		if err := handle(d, packet, line); err != nil {
			d.log.WithField("line", lines[i]).WithError(err).Warn("Incomplete value")
		}
	}

	return packet
}
