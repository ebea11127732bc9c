package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/trainerlog/internal/roster"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "teams.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadLegacyRoster(t *testing.T) {
	path := writeCSV(t, `Game,Playthrough,Pokemon,Acquisition
Red,1,Bulbasaur,Caught
Red,1,Pidgey,Caught
Blue,2,Eevee,Gifted
`)
	entries, err := readLegacyRoster(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Red", entries[0].Game)
	assert.Equal(t, 1, entries[0].Playthrough)
	assert.Equal(t, "Bulbasaur", entries[0].Pokemon)
	assert.Equal(t, roster.AcquisitionCaught, entries[0].Acquisition)
	assert.Equal(t, roster.AcquisitionGifted, entries[2].Acquisition)
	assert.Equal(t, roster.DefaultEnrichment(), entries[0].Enrichment)
}

func TestReadLegacyRoster_EmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	entries, err := readLegacyRoster(path)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestReadLegacyRoster_RepairsRows verifies the importer mirrors the
// old tool's self-repair: blank names become placeholders, unknown
// acquisitions fall back to N/A.
func TestReadLegacyRoster_RepairsRows(t *testing.T) {
	path := writeCSV(t, `Game,Playthrough,Pokemon,Acquisition
Red,1,,Caught
Red,1,Pidgey,Stolen
`)
	entries, err := readLegacyRoster(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, roster.PlaceholderName, entries[0].Pokemon)
	assert.Equal(t, roster.AcquisitionNA, entries[1].Acquisition)
}

func TestReadLegacyRoster_MissingColumns(t *testing.T) {
	path := writeCSV(t, `Game,Pokemon
Red,Bulbasaur
`)
	entries, err := readLegacyRoster(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Playthrough)
	assert.Equal(t, roster.AcquisitionNA, entries[0].Acquisition)
}

func TestReadLegacyRoster_ShortRecords(t *testing.T) {
	path := writeCSV(t, `Game,Playthrough,Pokemon,Acquisition
Red,1
`)
	entries, err := readLegacyRoster(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, roster.PlaceholderName, entries[0].Pokemon)
}

func TestReadLegacyRoster_BadPlaythrough(t *testing.T) {
	path := writeCSV(t, `Game,Playthrough,Pokemon,Acquisition
Red,first,Bulbasaur,Caught
`)
	_, err := readLegacyRoster(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")
}

func TestReadLegacyRoster_MissingFile(t *testing.T) {
	_, err := readLegacyRoster(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
