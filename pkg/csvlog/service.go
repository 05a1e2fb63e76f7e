// Package csvlog appends one line per packet to a semicolon separated file:
// timestamp;received tariff1;received tariff2;received actual.
package csvlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/NotCoffee418/p1_decoder/pkg/dsmr"
)

type PacketLog struct {
	path string
	mu   sync.Mutex
}

func NewPacketLog(path string) *PacketLog {
	return &PacketLog{path: path}
}

func (l *PacketLog) Append(p *dsmr.ParsedPacket) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open packet log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write(Record(p)); err != nil {
		return fmt.Errorf("failed to write packet log: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Record renders the logged columns, absent values are empty.
func Record(p *dsmr.ParsedPacket) []string {
	ts := ""
	if p.Timestamp != nil {
		ts = *p.Timestamp
	}
	received := p.Electricity.Received
	return []string{
		ts,
		formatReading(received.Tariff1),
		formatReading(received.Tariff2),
		formatReading(received.Actual),
	}
}

func formatReading(r *dsmr.Reading) string {
	if r == nil || !r.Reading.IsValid() {
		return ""
	}
	return strconv.FormatFloat(float64(r.Reading), 'f', -1, 64)
}
