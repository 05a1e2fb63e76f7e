package testutil

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/NotCoffee418/p1_decoder/pkg/meterdb"
)

// OpenMeterDB returns a fresh SQLite database in a temp dir with the up
// sections of all meterdb migrations applied.
func OpenMeterDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := meterdb.OpenDB(filepath.Join(t.TempDir(), "meter.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	files, err := fs.Glob(meterdb.MigrationFS, "migrations/*.sql")
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := fs.ReadFile(meterdb.MigrationFS, name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		up, _, _ := strings.Cut(string(content), "-- +down")
		up = strings.Replace(up, "-- +up", "", 1)
		if _, err := db.Exec(up); err != nil {
			t.Fatalf("apply %s: %v", name, err)
		}
	}
	return db
}
