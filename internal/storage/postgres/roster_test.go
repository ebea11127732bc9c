package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/trainerlog/internal/roster"
	pgstore "github.com/cory-johannsen/trainerlog/internal/storage/postgres"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DSN")
	if dsn == "" {
		t.Skip("TEST_DSN not set; skipping integration test")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

func testRepo(t *testing.T) *pgstore.RosterRepository {
	t.Helper()
	repo := pgstore.NewRosterRepository(testPool(t))
	if err := repo.Clear(context.Background()); err != nil {
		t.Fatalf("clearing roster table: %v", err)
	}
	t.Cleanup(func() { _ = repo.Clear(context.Background()) })
	return repo
}

func sampleRoster() roster.Roster {
	height, weight := 0.7, 6.9
	stage := 1
	return roster.Roster{
		{
			Game:        "Red",
			Playthrough: 1,
			Pokemon:     "Bulbasaur",
			Acquisition: roster.AcquisitionCaught,
			Enrichment: roster.Enrichment{
				Starter:        true,
				EvolutionStage: &stage,
				EggGroups:      []string{"Monster", "Plant"},
				HeightM:        &height,
				WeightKG:       &weight,
				Stats:          roster.BaseStats{HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65, Speed: 45},
				Types:          []string{"Grass", "Poison"},
				OriginGroup:    "Kanto",
			},
		},
		{
			Game:        "Red",
			Playthrough: 1,
			Pokemon:     roster.PlaceholderName,
			Acquisition: roster.AcquisitionNA,
			Enrichment:  roster.DefaultEnrichment(),
		},
		{
			Game:        "Blue",
			Playthrough: 2,
			Pokemon:     "Squirtle",
			Acquisition: roster.AcquisitionGifted,
			Enrichment:  roster.DefaultEnrichment(),
		},
	}
}

func TestRosterRepository_LoadEmpty(t *testing.T) {
	repo := testRepo(t)
	entries, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty roster, got %d entries", len(entries))
	}
}

func TestRosterRepository_ReplaceAndLoad(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if err := repo.Replace(ctx, sampleRoster()); err != nil {
		t.Fatalf("replacing roster: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("loading roster: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(loaded))
	}
	if loaded[0].Pokemon != "Bulbasaur" || loaded[2].Pokemon != "Squirtle" {
		t.Fatalf("stored order not preserved: %q, %q", loaded[0].Pokemon, loaded[2].Pokemon)
	}
	if !loaded[0].Starter {
		t.Fatal("starter flag lost")
	}
	if loaded[0].EvolutionStage == nil || *loaded[0].EvolutionStage != 1 {
		t.Fatalf("evolution stage lost: %v", loaded[0].EvolutionStage)
	}
	if len(loaded[0].EggGroups) != 2 || loaded[0].EggGroups[0] != "Monster" {
		t.Fatalf("egg groups lost: %v", loaded[0].EggGroups)
	}
	if loaded[0].HeightM == nil || *loaded[0].HeightM != 0.7 {
		t.Fatalf("height lost: %v", loaded[0].HeightM)
	}
	if loaded[0].Stats.Total() != 318 {
		t.Fatalf("base stats lost: %+v", loaded[0].Stats)
	}
	if loaded[1].Pokemon != roster.PlaceholderName || loaded[1].HeightM != nil {
		t.Fatalf("placeholder entry not stored at defaults: %+v", loaded[1])
	}
}

// TestRosterRepository_ReplaceOverwrites verifies Replace swaps the full
// snapshot instead of appending to it.
func TestRosterRepository_ReplaceOverwrites(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if err := repo.Replace(ctx, sampleRoster()); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	smaller := sampleRoster()[:1]
	if err := repo.Replace(ctx, smaller); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("loading roster: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected snapshot of 1 entry, got %d", len(loaded))
	}
}

func TestRosterRepository_DeleteTeam(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if err := repo.Replace(ctx, sampleRoster()); err != nil {
		t.Fatalf("replacing roster: %v", err)
	}
	if err := repo.DeleteTeam(ctx, roster.TeamKey{Game: "Red", Playthrough: 1}); err != nil {
		t.Fatalf("deleting team: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("loading roster: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Game != "Blue" {
		t.Fatalf("expected only the Blue team to remain, got %+v", loaded)
	}

	if err := repo.DeleteTeam(ctx, roster.TeamKey{Game: "Red", Playthrough: 1}); !errors.Is(err, pgstore.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

// TestRosterRepository_DeleteAt verifies positional identity: positions
// come from the last Replace and are not renumbered by deletes.
func TestRosterRepository_DeleteAt(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if err := repo.Replace(ctx, sampleRoster()); err != nil {
		t.Fatalf("replacing roster: %v", err)
	}
	if err := repo.DeleteAt(ctx, 1); err != nil {
		t.Fatalf("deleting entry: %v", err)
	}
	// Position 1 is gone; a second delete at the same position misses.
	if err := repo.DeleteAt(ctx, 1); !errors.Is(err, pgstore.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("loading roster: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded))
	}
	if loaded[0].Pokemon != "Bulbasaur" || loaded[1].Pokemon != "Squirtle" {
		t.Fatalf("unexpected survivors: %q, %q", loaded[0].Pokemon, loaded[1].Pokemon)
	}
}

func TestRosterRepository_Clear(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if err := repo.Replace(ctx, sampleRoster()); err != nil {
		t.Fatalf("replacing roster: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clearing roster: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("loading roster: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty roster after clear, got %d entries", len(loaded))
	}
}
