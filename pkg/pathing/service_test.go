package pathing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirsFromEnvironment(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ESM_DATA_DIR", filepath.Join(root, "data"))
	t.Setenv("ESM_CONFIG_DIR", filepath.Join(root, "etc"))

	require.NoError(t, EnsureDirs())
	require.DirExists(t, filepath.Join(root, "data"))
	require.DirExists(t, filepath.Join(root, "etc"))
	require.Equal(t, filepath.Join(root, "data", "esm-meter.db"), GetMeterDbPath())
	require.Equal(t, filepath.Join(root, "data", "p1-reader-log.csv"), GetPacketLogPath())
}

func TestDefaultDirs(t *testing.T) {
	t.Setenv("ESM_DATA_DIR", "")
	t.Setenv("ESM_CONFIG_DIR", "")
	require.Equal(t, defaultDataDir, GetDataDir())
	require.Equal(t, defaultConfigDir, GetConfigDir())
}
