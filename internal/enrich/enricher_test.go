package enrich_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/trainerlog/internal/enrich"
	"github.com/cory-johannsen/trainerlog/internal/pokeapi"
	"github.com/cory-johannsen/trainerlog/internal/roster"
)

// fakeSource serves canned attribute blocks and counts lookups per
// canonical name. Unknown names degrade to the default block, like the
// real resolver.
type fakeSource struct {
	mu    sync.Mutex
	attrs map[string]roster.Enrichment
	calls map[string]int
}

func newFakeSource(attrs map[string]roster.Enrichment) *fakeSource {
	return &fakeSource{attrs: attrs, calls: make(map[string]int)}
}

func (f *fakeSource) Attributes(_ context.Context, name string) roster.Enrichment {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if attrs, ok := f.attrs[name]; ok {
		return attrs
	}
	return roster.DefaultEnrichment()
}

func (f *fakeSource) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]roster.Enrichment
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]roster.Enrichment)}
}

func (f *fakeCache) Get(_ context.Context, name string) (roster.Enrichment, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	attrs, ok := f.entries[name]
	return attrs, ok
}

func (f *fakeCache) Put(_ context.Context, name string, attrs roster.Enrichment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[name] = attrs
	f.puts++
}

func bulbasaurAttrs() roster.Enrichment {
	height, weight := 0.7, 6.9
	stage := 1
	return roster.Enrichment{
		Starter:        true,
		EvolutionStage: &stage,
		EggGroups:      []string{"Monster", "Plant"},
		HeightM:        &height,
		WeightKG:       &weight,
		Stats:          roster.BaseStats{HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65, Speed: 45},
		Types:          []string{"Grass", "Poison"},
		OriginGroup:    "Kanto",
	}
}

func charmanderAttrs() roster.Enrichment {
	height, weight := 0.6, 8.5
	stage := 1
	return roster.Enrichment{
		Starter:        true,
		EvolutionStage: &stage,
		EggGroups:      []string{"Monster", "Dragon"},
		HeightM:        &height,
		WeightKG:       &weight,
		Stats:          roster.BaseStats{HP: 39, Attack: 52, Defense: 43, SpecialAttack: 60, SpecialDefense: 50, Speed: 65},
		Types:          []string{"Fire"},
		OriginGroup:    "Kanto",
	}
}

func newEnricher(t *testing.T, source enrich.Source, cache enrich.AttributeCache) *enrich.Enricher {
	t.Helper()
	normalizer := pokeapi.NewNormalizer(roster.DefaultCatalog().FormOverrides)
	return enrich.NewEnricher(source, cache, normalizer, 4, zaptest.NewLogger(t))
}

func caught(game string, playthrough int, name string) roster.Entry {
	return roster.Entry{Game: game, Playthrough: playthrough, Pokemon: name, Acquisition: roster.AcquisitionCaught}
}

func TestEnricher_FillsMissingAttributes(t *testing.T) {
	source := newFakeSource(map[string]roster.Enrichment{
		"bulbasaur":  bulbasaurAttrs(),
		"charmander": charmanderAttrs(),
	})
	e := newEnricher(t, source, nil)

	out := e.Enrich(context.Background(), roster.Roster{
		caught("Red", 1, "Bulbasaur"),
		caught("Red", 1, "Charmander"),
	})

	require.Len(t, out, 2)
	assert.Equal(t, []string{"Grass", "Poison"}, out[0].Types)
	assert.Equal(t, []string{"Fire"}, out[1].Types)
	assert.False(t, out[0].Stats.IsZero())
	assert.False(t, out[1].Stats.IsZero())
	assert.True(t, out[0].Starter)
}

// TestEnricher_Idempotence verifies enrich(enrich(R)) == enrich(R): the
// second pass changes no field values.
func TestEnricher_Idempotence(t *testing.T) {
	source := newFakeSource(map[string]roster.Enrichment{
		"bulbasaur": bulbasaurAttrs(),
	})
	e := newEnricher(t, source, nil)

	input := roster.Roster{
		caught("Red", 1, "Bulbasaur"),
		{Game: "Red", Playthrough: 1, Pokemon: roster.PlaceholderName, Acquisition: roster.AcquisitionNA},
	}
	once := e.Enrich(context.Background(), input)
	twice := e.Enrich(context.Background(), once)

	assert.Equal(t, once, twice)
}

// TestEnricher_NeverClobbers verifies that attributes already set on an
// entry survive enrichment regardless of what the source returns.
func TestEnricher_NeverClobbers(t *testing.T) {
	source := newFakeSource(map[string]roster.Enrichment{
		"bulbasaur": bulbasaurAttrs(),
	})
	e := newEnricher(t, source, nil)

	height := 2.5
	entry := caught("Red", 1, "Bulbasaur")
	entry.Types = []string{"Shadow"}
	entry.HeightM = &height

	out := e.Enrich(context.Background(), roster.Roster{entry})

	require.Len(t, out, 1)
	assert.Equal(t, []string{"Shadow"}, out[0].Types, "pre-set types must not be overwritten")
	assert.Equal(t, 2.5, *out[0].HeightM, "pre-set height must not be overwritten")
	// Unset fields are still filled from the source.
	assert.Equal(t, []string{"Monster", "Plant"}, out[0].EggGroups)
	assert.False(t, out[0].Stats.IsZero())
}

// TestEnricher_PlaceholderSlots verifies placeholder slots get the
// fixed default block and are never looked up.
func TestEnricher_PlaceholderSlots(t *testing.T) {
	source := newFakeSource(nil)
	e := newEnricher(t, source, nil)

	out := e.Enrich(context.Background(), roster.Roster{
		{Game: "Red", Playthrough: 1, Pokemon: roster.PlaceholderName, Acquisition: roster.AcquisitionNA},
	})

	require.Len(t, out, 1)
	assert.Equal(t, roster.DefaultEnrichment(), out[0].Enrichment)
	assert.Equal(t, 0, source.callCount("none"), "placeholder slots must never hit the source")
}

// TestEnricher_AtMostOncePerName verifies a name appearing in several
// entries is fetched exactly once per run.
func TestEnricher_AtMostOncePerName(t *testing.T) {
	source := newFakeSource(map[string]roster.Enrichment{
		"bulbasaur": bulbasaurAttrs(),
	})
	e := newEnricher(t, source, nil)

	out := e.Enrich(context.Background(), roster.Roster{
		caught("Red", 1, "Bulbasaur"),
		caught("Blue", 1, "Bulbasaur"),
		caught("Yellow", 2, "bulbasaur"),
	})

	assert.Equal(t, 1, source.callCount("bulbasaur"))
	for _, entry := range out {
		assert.Equal(t, []string{"Grass", "Poison"}, entry.Types)
	}
}

// TestEnricher_FailureIsolation verifies a failed lookup leaves that
// entry at defaults and does not disturb the rest of the run.
func TestEnricher_FailureIsolation(t *testing.T) {
	source := newFakeSource(map[string]roster.Enrichment{
		"bulbasaur": bulbasaurAttrs(),
	})
	e := newEnricher(t, source, nil)

	out := e.Enrich(context.Background(), roster.Roster{
		caught("Red", 1, "Missingno"),
		caught("Red", 1, "Bulbasaur"),
	})

	require.Len(t, out, 2)
	assert.False(t, out[0].Legendary)
	assert.False(t, out[0].Starter)
	assert.Nil(t, out[0].HeightM)
	assert.Nil(t, out[0].WeightKG)
	assert.True(t, out[0].Stats.IsZero())
	assert.Empty(t, out[0].Types)

	assert.Equal(t, []string{"Grass", "Poison"}, out[1].Types)
}

func TestEnricher_DoesNotMutateInput(t *testing.T) {
	source := newFakeSource(map[string]roster.Enrichment{
		"bulbasaur": bulbasaurAttrs(),
	})
	e := newEnricher(t, source, nil)

	input := roster.Roster{caught("Red", 1, "Bulbasaur")}
	_ = e.Enrich(context.Background(), input)

	assert.Empty(t, input[0].Types, "input roster must stay untouched")
	assert.True(t, input[0].Stats.IsZero())
}

// TestEnricher_CacheHitSkipsSource verifies cached attributes short-
// circuit the network source, and resolved attributes are written back.
func TestEnricher_CacheHitSkipsSource(t *testing.T) {
	source := newFakeSource(map[string]roster.Enrichment{
		"bulbasaur":  bulbasaurAttrs(),
		"charmander": charmanderAttrs(),
	})
	cache := newFakeCache()
	cache.Put(context.Background(), "bulbasaur", bulbasaurAttrs())
	cache.puts = 0
	e := newEnricher(t, source, cache)

	out := e.Enrich(context.Background(), roster.Roster{
		caught("Red", 1, "Bulbasaur"),
		caught("Red", 1, "Charmander"),
	})

	assert.Equal(t, 0, source.callCount("bulbasaur"), "cached name must not hit the source")
	assert.Equal(t, 1, source.callCount("charmander"))
	assert.Equal(t, 1, cache.puts, "resolved attributes must be written through")
	assert.Equal(t, []string{"Grass", "Poison"}, out[0].Types)
	assert.Equal(t, []string{"Fire"}, out[1].Types)
}
