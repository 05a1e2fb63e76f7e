package aggregator

import (
	"database/sql"
	"errors"
	"time"

	"github.com/NotCoffee418/p1_decoder/pkg/meterdb"
	"github.com/sirupsen/logrus"
)

// Raw readings are kept this long once aggregates cover them.
const retentionMonths = 3

var logger = logrus.WithField("component", "aggregator")

// roundToHourStart returns the Unix timestamp of the start of the hour for the given time
func roundToHourStart(t time.Time) int64 {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC).Unix()
}

// getHourEnd returns the Unix timestamp of the last second of the hour (next hour start - 1)
func getHourEnd(hourStart int64) int64 {
	return time.Unix(hourStart, 0).Add(time.Hour).Unix() - 1
}

// aggregateLivePowerHourly averages the live power readings of one hour.
// The average in W over one hour equals the Wh used in that hour.
func aggregateLivePowerHourly(db *sql.DB, hourStart int64) (bool, error) {
	hourEnd := getHourEnd(hourStart)

	query := `
		SELECT
			reading_type,
			AVG(watt) as avg_watt,
			COUNT(*) as count
		FROM live_power_readings
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY reading_type
	`

	rows, err := db.Query(query, hourStart, hourEnd)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	aggregateData := make(map[meterdb.MeterDbPowerReadingType]float64)
	var totalSampleCount uint32 = 0

	for rows.Next() {
		var readingType meterdb.MeterDbPowerReadingType
		var avgWatt float64
		var count uint32

		if err := rows.Scan(&readingType, &avgWatt, &count); err != nil {
			return false, err
		}

		aggregateData[readingType] = avgWatt
		totalSampleCount += count
	}

	if err := rows.Err(); err != nil {
		return false, err
	}

	// Only insert if we have data
	if totalSampleCount == 0 {
		return false, nil
	}

	aggregate := meterdb.AggregateLivePowerHourly{
		HourStart:          hourStart,
		ConsumptionDayWh:   uint32(aggregateData[meterdb.PowerConsumptionDay]),
		ConsumptionNightWh: uint32(aggregateData[meterdb.PowerConsumptionNight]),
		ProductionDayWh:    uint32(aggregateData[meterdb.PowerProductionDay]),
		ProductionNightWh:  uint32(aggregateData[meterdb.PowerProductionNight]),
		SampleCount:        totalSampleCount,
	}

	insertQuery := `
		INSERT OR REPLACE INTO aggregate_live_power_hourly
		(hour_start, consumption_day_wh, consumption_night_wh, production_day_wh, production_night_wh, sample_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(insertQuery,
		aggregate.HourStart,
		aggregate.ConsumptionDayWh,
		aggregate.ConsumptionNightWh,
		aggregate.ProductionDayWh,
		aggregate.ProductionNightWh,
		aggregate.SampleCount,
	)
	return err == nil, err
}

// snapshotTotalGasHourly keeps the last gas standing seen within the hour.
func snapshotTotalGasHourly(db *sql.DB, hourStart int64) (bool, error) {
	hourEnd := getHourEnd(hourStart)

	query := `
		SELECT consumption_dm3
		FROM total_gas_readings
		WHERE timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp DESC
		LIMIT 1
	`

	var dm3Standing uint32
	err := db.QueryRow(query, hourStart, hourEnd).Scan(&dm3Standing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No entry within timeframe, that's okay
			return false, nil
		}
		return false, err
	}

	insertQuery := `
		INSERT OR REPLACE INTO snapshot_total_gas_hourly
		(timestamp, dm3_standing)
		VALUES (?, ?)
	`

	_, err = db.Exec(insertQuery, hourStart, dm3Standing)
	return err == nil, err
}

// snapshotTotalPowerHourly keeps the last power standings, looking back 24
// hours since meters without production never change some registers.
func snapshotTotalPowerHourly(db *sql.DB, hourStart int64) (bool, error) {
	hourEnd := getHourEnd(hourStart)
	lookbackStart := hourEnd - (24 * 3600)

	getLastReading := func(readingType meterdb.MeterDbPowerReadingType) (uint32, bool, error) {
		query := `
			SELECT watthour
			FROM total_power_readings
			WHERE reading_type = ? AND timestamp >= ? AND timestamp <= ?
			ORDER BY timestamp DESC
			LIMIT 1
		`

		var watthour uint32
		err := db.QueryRow(query, readingType, lookbackStart, hourEnd).Scan(&watthour)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, false, nil
			}
			return 0, false, err
		}
		return watthour, true, nil
	}

	snapshot := meterdb.SnapshotTotalPowerHourly{Timestamp: hourStart}
	standings := []struct {
		readingType meterdb.MeterDbPowerReadingType
		dst         *uint32
	}{
		{meterdb.PowerConsumptionDay, &snapshot.ConsumptionDayStanding},
		{meterdb.PowerConsumptionNight, &snapshot.ConsumptionNightStanding},
		{meterdb.PowerProductionDay, &snapshot.ProductionDayStanding},
		{meterdb.PowerProductionNight, &snapshot.ProductionNightStanding},
	}

	found := false
	for _, standing := range standings {
		value, ok, err := getLastReading(standing.readingType)
		if err != nil {
			return false, err
		}
		if ok {
			*standing.dst = value
			found = true
		}
	}

	// Only create snapshot if we have at least one reading
	if !found {
		return false, nil
	}

	insertQuery := `
		INSERT OR REPLACE INTO snapshot_total_power_hourly
		(timestamp, consumption_day_standing, consumption_night_standing, production_day_standing, production_night_standing)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(insertQuery,
		snapshot.Timestamp,
		snapshot.ConsumptionDayStanding,
		snapshot.ConsumptionNightStanding,
		snapshot.ProductionDayStanding,
		snapshot.ProductionNightStanding,
	)
	return err == nil, err
}

// cleanupOldData removes raw data older than retentionMonths if we have aggregated it
func cleanupOldData(db *sql.DB, now time.Time) (bool, error) {
	cutoff := now.UTC().AddDate(0, -retentionMonths, 0)
	cutoffTimestamp := cutoff.Unix()

	var lastAggregateHour sql.NullInt64
	if err := db.QueryRow("SELECT MAX(hour_start) FROM aggregate_live_power_hourly").Scan(&lastAggregateHour); err != nil {
		return false, err
	}

	// Only clean up if we have aggregated data up to the cutoff point
	if !lastAggregateHour.Valid || lastAggregateHour.Int64 < cutoffTimestamp {
		return false, nil
	}

	for _, table := range []string{"live_power_readings", "total_power_readings", "total_gas_readings"} {
		if _, err := db.Exec("DELETE FROM "+table+" WHERE timestamp < ?", cutoffTimestamp); err != nil {
			return false, err
		}
	}

	logger.Infof("Cleaned up data older than %s", cutoff.Format(time.RFC3339))
	return true, nil
}

// AggregateAndCleanup aggregates the hour before now and removes expired raw data.
// This is the main function to call for data aggregation, once per hour.
func AggregateAndCleanup(db *sql.DB, now time.Time) (Result, error) {
	// Aggregate the previous hour (current hour is still ongoing)
	hourStart := roundToHourStart(now.Add(-time.Hour))
	result := Result{HourStart: hourStart}

	logger.Infof("Aggregating data for hour starting at %s", time.Unix(hourStart, 0).UTC().Format(time.RFC3339))

	var err error
	if result.LivePowerAggregated, err = aggregateLivePowerHourly(db, hourStart); err != nil {
		logger.WithError(err).Error("Error aggregating hourly live power")
		return result, err
	}

	if result.GasSnapshot, err = snapshotTotalGasHourly(db, hourStart); err != nil {
		logger.WithError(err).Error("Error creating gas snapshot")
		return result, err
	}

	if result.PowerSnapshot, err = snapshotTotalPowerHourly(db, hourStart); err != nil {
		logger.WithError(err).Error("Error creating power snapshot")
		return result, err
	}

	if result.CleanedUp, err = cleanupOldData(db, now); err != nil {
		logger.WithError(err).Error("Error cleaning up old data")
		return result, err
	}

	logger.Info("Aggregation and cleanup completed successfully")
	return result, nil
}
