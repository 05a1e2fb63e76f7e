package pathing

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultDataDir   = "/var/lib/p1_decoder"
	defaultConfigDir = "/etc/p1_decoder"
)

// EnsureDirs creates the data and config directories if they are missing.
// Must be called on startup before anything is written.
func EnsureDirs() error {
	for _, dir := range []string{GetDataDir(), GetConfigDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func GetMeterDbPath() string {
	return filepath.Join(GetDataDir(), "esm-meter.db")
}

func GetPacketLogPath() string {
	return filepath.Join(GetDataDir(), "p1-reader-log.csv")
}

// ESM_DATA_DIR overrides the data directory.
func GetDataDir() string {
	if dir := os.Getenv("ESM_DATA_DIR"); dir != "" {
		return dir
	}
	return defaultDataDir
}

// ESM_CONFIG_DIR overrides the config directory.
func GetConfigDir() string {
	if dir := os.Getenv("ESM_CONFIG_DIR"); dir != "" {
		return dir
	}
	return defaultConfigDir
}
