// MeterDB contains data specifically about smart meter readings.
// Due to cross-service communication on SQLite,
// any user data or anything else should use a seperate database.
// This database should only be written to by meter_collector
// but can be read by any service.
package meterdb

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/NotCoffee418/dbmigrator"
	"github.com/NotCoffee418/p1_decoder/pkg/pathing"
	"github.com/sirupsen/logrus"

	_ "modernc.org/sqlite"
)

var (
	db     *sql.DB
	dbErr  error
	once   sync.Once
	logger = logrus.WithField("component", "meterdb")
)

//go:embed migrations/*.sql
var MigrationFS embed.FS

// Initialize must be called manually on startup
func InitializeDatabase() error {
	db, err := GetDB()
	if err != nil {
		return err
	}
	if _, err := db.Exec("SELECT 1;"); err != nil {
		logger.WithError(err).Warn("Could not create DB")
	}

	dbmigrator.SetDatabaseType(dbmigrator.SQLite)
	<-dbmigrator.MigrateUpCh(
		db,
		MigrationFS,
		"migrations",
	)
	return nil
}

func GetDB() (*sql.DB, error) {
	once.Do(func() {
		db, dbErr = OpenDB(pathing.GetMeterDbPath())
	})
	return db, dbErr
}

// OpenDB opens and pings the SQLite database at path.
func OpenDB(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	// Verify connection
	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", path, err)
	}
	return conn, nil
}
