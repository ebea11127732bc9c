package pokeapi_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/trainerlog/internal/pokeapi"
	"github.com/cory-johannsen/trainerlog/internal/roster"
)

func testCache(t *testing.T) *pokeapi.Cache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("pinging test redis: %v", err)
	}
	t.Cleanup(func() {
		rdb.FlushDB(context.Background())
		rdb.Close()
	})
	return pokeapi.NewCache(rdb, time.Minute, zaptest.NewLogger(t))
}

func TestCache_RoundTrip(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	height, weight := 0.7, 6.9
	stage := 1
	attrs := roster.Enrichment{
		Starter:        true,
		EvolutionStage: &stage,
		EggGroups:      []string{"Monster", "Plant"},
		HeightM:        &height,
		WeightKG:       &weight,
		Stats:          roster.BaseStats{HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65, Speed: 45},
		Types:          []string{"Grass", "Poison"},
		OriginGroup:    "Kanto",
	}

	cache.Put(ctx, "bulbasaur", attrs)

	got, ok := cache.Get(ctx, "bulbasaur")
	require.True(t, ok)
	assert.Equal(t, attrs.Types, got.Types)
	assert.Equal(t, attrs.OriginGroup, got.OriginGroup)
	require.NotNil(t, got.HeightM)
	assert.InDelta(t, 0.7, *got.HeightM, 1e-9)
	assert.Equal(t, 318, got.Stats.Total())
	assert.True(t, got.Starter)
}

func TestCache_MissOnUnknownName(t *testing.T) {
	cache := testCache(t)
	_, ok := cache.Get(context.Background(), "missingno")
	assert.False(t, ok)
}

// TestCache_SkipsDefaultBlocks verifies a failed lookup's default block
// is never cached, so the next run retries the source.
func TestCache_SkipsDefaultBlocks(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	cache.Put(ctx, "glitchmon", roster.DefaultEnrichment())

	_, ok := cache.Get(ctx, "glitchmon")
	assert.False(t, ok)
}
