package csvlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NotCoffee418/p1_decoder/pkg/dsmr"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p1-reader-log.csv")
	log := NewPacketLog(path)
	decoder := dsmr.NewDecoder(dsmr.WithLocation(time.UTC))

	full := decoder.Decode("/XMX5\n\n0-0:1.0.0(210101120000W)\n1-0:1.8.1(001234.567*kWh)\n1-0:1.8.2(000002.000*kWh)\n1-0:1.7.0(01.193*kW)\n")
	partial := decoder.Decode("/XMX5\n\n1-0:1.8.2(abc*kWh)\n")

	require.NoError(t, log.Append(full))
	require.NoError(t, log.Append(partial))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "2021-01-01T12:00:00.000Z;1234.567;2;1.193\n;;;\n", string(content))
}

func TestAppendUnwritable(t *testing.T) {
	log := NewPacketLog(filepath.Join(t.TempDir(), "missing", "log.csv"))
	require.Error(t, log.Append(&dsmr.ParsedPacket{}))
}
