package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/baarbz/DecentralizedExchange/lib"
	"github.com/stretchr/testify/require"
)

func TestInitializeDataDirectory(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "node")
	got := InitializeDataDirectory(dataDir, lib.NewNullLogger())
	// a default config is written on first use
	_, err := os.Stat(filepath.Join(dataDir, lib.ConfigFilePath))
	require.NoError(t, err)
	expected := lib.DefaultConfig()
	expected.DataDirPath = dataDir
	require.Equal(t, expected, got)
	// an existing config is loaded untouched
	got.SwapFeeBasisPoints = 30
	require.NoError(t, got.WriteToFile(filepath.Join(dataDir, lib.ConfigFilePath)))
	require.Equal(t, got, InitializeDataDirectory(dataDir, lib.NewNullLogger()))
}
