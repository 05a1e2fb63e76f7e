package meterdb

import (
	"database/sql"
	"fmt"
)

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func InsertLivePowerReading(conn execer, reading *MeterDbLivePowerReading) error {
	_, err := conn.Exec(
		"INSERT INTO live_power_readings (timestamp, watt, reading_type) "+
			"VALUES (?, ?, ?)",
		reading.Timestamp,
		reading.Watt,
		reading.ReadingType,
	)
	return err
}

func InsertTotalPowerReading(conn execer, reading *MeterDbTotalPowerReading) error {
	_, err := conn.Exec(
		"INSERT INTO total_power_readings (timestamp, watthour, reading_type) "+
			"VALUES (?, ?, ?)",
		reading.Timestamp,
		reading.Watthour,
		reading.ReadingType,
	)
	return err
}

func InsertTotalGasReading(conn execer, reading *MeterDbTotalGasReading) error {
	_, err := conn.Exec(
		"INSERT INTO total_gas_readings "+
			"(timestamp, consumption_dm3) "+
			"VALUES (?, ?)",
		reading.Timestamp,
		reading.TotalConsumptionDM3,
	)
	return err
}

// The meter repeats its failure log in every telegram, known entries are ignored.
func InsertPowerFailure(conn execer, failure *MeterDbPowerFailure) error {
	_, err := conn.Exec(
		"INSERT OR IGNORE INTO power_failures (end_of_failure, duration_seconds) "+
			"VALUES (?, ?)",
		failure.EndOfFailure,
		failure.DurationSeconds,
	)
	return err
}

// InsertPacketRows writes all rows of one packet in a single transaction.
func InsertPacketRows(db *sql.DB, rows PacketRows) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range rows.LivePower {
		if err := InsertLivePowerReading(tx, &rows.LivePower[i]); err != nil {
			return fmt.Errorf("failed to insert live power reading: %w", err)
		}
	}
	for i := range rows.TotalPower {
		if err := InsertTotalPowerReading(tx, &rows.TotalPower[i]); err != nil {
			return fmt.Errorf("failed to insert total power reading: %w", err)
		}
	}
	if rows.Gas != nil {
		if err := InsertTotalGasReading(tx, rows.Gas); err != nil {
			return fmt.Errorf("failed to insert gas reading: %w", err)
		}
	}
	for i := range rows.PowerFailures {
		if err := InsertPowerFailure(tx, &rows.PowerFailures[i]); err != nil {
			return fmt.Errorf("failed to insert power failure: %w", err)
		}
	}

	return tx.Commit()
}
