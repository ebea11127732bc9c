package roster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/trainerlog/internal/roster"
)

func TestAcquisition_Valid(t *testing.T) {
	for _, a := range roster.Acquisitions {
		assert.True(t, a.Valid(), "%q must be a known acquisition", a)
	}
	assert.False(t, roster.Acquisition("Stolen").Valid())
	assert.False(t, roster.Acquisition("").Valid())
}

// TestBaseStats_Total verifies the postcondition: Total() equals the sum
// of Value(name) over all six stat names.
func TestBaseStats_Total(t *testing.T) {
	stats := roster.BaseStats{HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65, Speed: 45}

	var sum int
	for _, name := range roster.StatNames {
		sum += stats.Value(name)
	}
	assert.Equal(t, sum, stats.Total())
	assert.Equal(t, 318, stats.Total())
}

func TestBaseStats_Value_UnknownKey(t *testing.T) {
	stats := roster.BaseStats{HP: 45}
	assert.Equal(t, 0, stats.Value("evasion"))
}

func TestBaseStats_IsZero(t *testing.T) {
	assert.True(t, roster.BaseStats{}.IsZero())
	assert.False(t, roster.BaseStats{Speed: 1}.IsZero())
}

func TestEntry_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		entry roster.Entry
		want  bool
	}{
		{
			name:  "caught creature counts",
			entry: roster.Entry{Pokemon: "Bulbasaur", Acquisition: roster.AcquisitionCaught},
			want:  true,
		},
		{
			name:  "placeholder slot is excluded",
			entry: roster.Entry{Pokemon: roster.PlaceholderName, Acquisition: roster.AcquisitionNA},
			want:  false,
		},
		{
			name:  "real creature with N/A acquisition is excluded",
			entry: roster.Entry{Pokemon: "Pikachu", Acquisition: roster.AcquisitionNA},
			want:  false,
		},
		{
			name:  "missing acquisition is excluded",
			entry: roster.Entry{Pokemon: "Pikachu"},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.IsValid())
		})
	}
}

func TestDefaultEnrichment_IsDefault(t *testing.T) {
	assert.True(t, roster.DefaultEnrichment().IsDefault())

	stage := 1
	withStage := roster.DefaultEnrichment()
	withStage.EvolutionStage = &stage
	assert.False(t, withStage.IsDefault())

	withType := roster.DefaultEnrichment()
	withType.Types = []string{"Grass"}
	assert.False(t, withType.IsDefault())
}

// TestRoster_Clone verifies the clone never aliases the original's
// slices or pointers.
func TestRoster_Clone(t *testing.T) {
	height := 0.7
	original := roster.Roster{
		{
			Pokemon:     "Bulbasaur",
			Acquisition: roster.AcquisitionCaught,
			Enrichment: roster.Enrichment{
				Types:     []string{"Grass", "Poison"},
				EggGroups: []string{"Monster"},
				HeightM:   &height,
			},
		},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone[0].Types[0] = "Fire"
	*clone[0].HeightM = 99
	clone[0].EggGroups[0] = "Dragon"

	assert.Equal(t, "Grass", original[0].Types[0])
	assert.Equal(t, 0.7, *original[0].HeightM)
	assert.Equal(t, "Monster", original[0].EggGroups[0])
}

func TestRoster_Teams_FirstAppearanceOrder(t *testing.T) {
	r := roster.Roster{
		{Game: "Red", Playthrough: 2},
		{Game: "Blue", Playthrough: 1},
		{Game: "Red", Playthrough: 2},
		{Game: "Red", Playthrough: 1},
	}
	assert.Equal(t, []roster.TeamKey{
		{Game: "Red", Playthrough: 2},
		{Game: "Blue", Playthrough: 1},
		{Game: "Red", Playthrough: 1},
	}, r.Teams())
}
