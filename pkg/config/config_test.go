package config

import (
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFile(filepath.Join(dir, configFile))
	require.NoError(t, err)

	assert.Equal(t, DefaultCalendar, cfg.Calendar)
	assert.Equal(t, filepath.Join(dir, "plans"), cfg.DataDir)
	assert.Empty(t, cfg.Owner)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", configFile)
	want := &Config{Calendar: "Work", DataDir: "/tmp/plans", Owner: "alice", Location: "Europe/Paris"}

	require.NoError(t, SaveFile(path, want))
	got, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	loc, err := got.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", loc.String())
}

func TestLoadFileEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	require.NoError(t, SaveFile(path, &Config{Calendar: "Work"}))
	t.Setenv("DAYLINE_CALENDAR", "Personal")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Personal", cfg.Calendar)
}

func TestLoadFileRejectsBadLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	require.NoError(t, os.WriteFile(path, []byte("location: Mars/Olympus\n"), 0600))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "Mars/Olympus")
}
