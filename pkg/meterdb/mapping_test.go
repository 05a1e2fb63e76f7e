package meterdb_test

import (
	"math"
	"testing"

	"github.com/NotCoffee418/p1_decoder/internal/testutil"
	"github.com/NotCoffee418/p1_decoder/pkg/dsmr"
	"github.com/NotCoffee418/p1_decoder/pkg/meterdb"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func i64(v int64) *int64 { return &v }

func samplePacket() *dsmr.ParsedPacket {
	gasReading := dsmr.Float(12785.123)
	return &dsmr.ParsedPacket{
		MeterType: "ISk5\\2MT382-1000",
		Timestamp: str("2021-01-01T12:00:00.000Z"),
		Electricity: dsmr.Electricity{
			Received: dsmr.Direction{
				Tariff1: &dsmr.Reading{Reading: 123456.789, Unit: "kWh"},
				Tariff2: &dsmr.Reading{Reading: 654.321, Unit: "kWh"},
				Actual:  &dsmr.Reading{Reading: 1.193, Unit: "kW"},
			},
			Delivered: dsmr.Direction{
				Tariff1: &dsmr.Reading{Reading: 10, Unit: "kWh"},
				Actual:  &dsmr.Reading{Reading: 0, Unit: "kW"},
			},
			TariffIndicator: i64(2),
			LongPowerFailureLog: &dsmr.PowerFailureLog{
				Count: 2,
				Log: []dsmr.PowerFailure{
					{EndOfFailure: str("2021-01-01T10:00:00.000Z"), Duration: i64(240), Unit: "s"},
					{EndOfFailure: nil, Duration: i64(10), Unit: "s"},
				},
			},
		},
		Gas: dsmr.Gas{
			Timestamp: str("2021-01-01T11:00:00.000Z"),
			Reading:   &gasReading,
			Unit:      str("m3"),
		},
	}
}

const (
	noon   = int64(1609502400)
	eleven = noon - 3600
	ten    = noon - 7200
)

func TestRowsFromPacket(t *testing.T) {
	rows, err := meterdb.RowsFromPacket(samplePacket())
	require.NoError(t, err)

	require.Equal(t, []meterdb.MeterDbLivePowerReading{
		{Timestamp: noon, Watt: 1193, ReadingType: meterdb.PowerConsumptionNight},
		{Timestamp: noon, Watt: 0, ReadingType: meterdb.PowerProductionNight},
	}, rows.LivePower)

	require.Equal(t, []meterdb.MeterDbTotalPowerReading{
		{Timestamp: noon, Watthour: 123456789, ReadingType: meterdb.PowerConsumptionDay},
		{Timestamp: noon, Watthour: 654321, ReadingType: meterdb.PowerConsumptionNight},
		{Timestamp: noon, Watthour: 10000, ReadingType: meterdb.PowerProductionDay},
	}, rows.TotalPower)

	require.Equal(t, &meterdb.MeterDbTotalGasReading{Timestamp: eleven, TotalConsumptionDM3: 12785123}, rows.Gas)
	require.Equal(t, []meterdb.MeterDbPowerFailure{{EndOfFailure: ten, DurationSeconds: 240}}, rows.PowerFailures)
}

func TestRowsFromPacketSkipsUnusable(t *testing.T) {
	p := samplePacket()
	p.Electricity.Received.Tariff1.Reading = dsmr.Float(math.NaN())
	p.Electricity.Received.Actual.Unit = "A"
	p.Gas.Unit = str("GJ")

	rows, err := meterdb.RowsFromPacket(p)
	require.NoError(t, err)
	require.Len(t, rows.LivePower, 1)
	require.Len(t, rows.TotalPower, 2)
	require.Nil(t, rows.Gas)
}

func TestRowsFromPacketWithoutTimestamp(t *testing.T) {
	p := samplePacket()
	p.Timestamp = nil
	_, err := meterdb.RowsFromPacket(p)
	require.ErrorIs(t, err, meterdb.ErrNoTimestamp)

	p.Timestamp = str("yesterday")
	_, err = meterdb.RowsFromPacket(p)
	require.ErrorIs(t, err, meterdb.ErrNoTimestamp)
}

func TestInsertPacketRows(t *testing.T) {
	db := testutil.OpenMeterDB(t)
	rows, err := meterdb.RowsFromPacket(samplePacket())
	require.NoError(t, err)

	require.NoError(t, meterdb.InsertPacketRows(db, rows))
	// the failure log repeats in every telegram
	require.NoError(t, meterdb.InsertPacketRows(db, rows))

	count := func(table string) int {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		return n
	}
	require.Equal(t, 4, count("live_power_readings"))
	require.Equal(t, 6, count("total_power_readings"))
	require.Equal(t, 2, count("total_gas_readings"))
	require.Equal(t, 1, count("power_failures"))

	var dm3 uint32
	require.NoError(t, db.QueryRow("SELECT consumption_dm3 FROM total_gas_readings LIMIT 1").Scan(&dm3))
	require.Equal(t, uint32(12785123), dm3)
}
