package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/trainerlog/internal/roster"
)

// ErrEntryNotFound is returned when a positional delete targets a row
// that does not exist in the current snapshot.
var ErrEntryNotFound = errors.New("roster entry not found")

// ErrTeamNotFound is returned when a team delete matches no entries.
var ErrTeamNotFound = errors.New("team not found")

// RosterRepository persists the roster as a flat, positionally ordered
// record set. Multi-valued attributes are stored as typed JSONB, never
// as stringified text needing re-parsing.
type RosterRepository struct {
	db *pgxpool.Pool
}

// NewRosterRepository creates a RosterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRosterRepository(db *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{db: db}
}

// Load returns the full roster in stored order. An empty or missing
// snapshot yields an empty roster, never an error.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *RosterRepository) Load(ctx context.Context) (roster.Roster, error) {
	rows, err := r.db.Query(ctx, `
		SELECT game, playthrough, pokemon, acquisition,
		       legendary, starter, evolution_stage, egg_groups,
		       height_m, weight_kg, base_stats, types, origin_group
		FROM roster_entries ORDER BY position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}
	defer rows.Close()

	entries := make(roster.Roster, 0)
	for rows.Next() {
		var (
			e         roster.Entry
			eggGroups []byte
			baseStats []byte
			types     []byte
		)
		if err := rows.Scan(
			&e.Game, &e.Playthrough, &e.Pokemon, &e.Acquisition,
			&e.Legendary, &e.Starter, &e.EvolutionStage, &eggGroups,
			&e.HeightM, &e.WeightKG, &baseStats, &types, &e.OriginGroup,
		); err != nil {
			return nil, fmt.Errorf("scanning roster row: %w", err)
		}
		if err := json.Unmarshal(eggGroups, &e.EggGroups); err != nil {
			return nil, fmt.Errorf("decoding egg groups: %w", err)
		}
		if err := json.Unmarshal(baseStats, &e.Stats); err != nil {
			return nil, fmt.Errorf("decoding base stats: %w", err)
		}
		if err := json.Unmarshal(types, &e.Types); err != nil {
			return nil, fmt.Errorf("decoding types: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Replace atomically overwrites the stored snapshot with the given
// roster, preserving its order as the positional identity.
//
// Postcondition: On success the store holds exactly the given entries;
// on error the previous snapshot is untouched.
func (r *RosterRepository) Replace(ctx context.Context, entries roster.Roster) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning roster replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM roster_entries`); err != nil {
		return fmt.Errorf("clearing previous snapshot: %w", err)
	}

	for i, e := range entries {
		eggGroups, err := json.Marshal(e.EggGroups)
		if err != nil {
			return fmt.Errorf("encoding egg groups: %w", err)
		}
		baseStats, err := json.Marshal(e.Stats)
		if err != nil {
			return fmt.Errorf("encoding base stats: %w", err)
		}
		types, err := json.Marshal(e.Types)
		if err != nil {
			return fmt.Errorf("encoding types: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO roster_entries
				(position, game, playthrough, pokemon, acquisition,
				 legendary, starter, evolution_stage, egg_groups,
				 height_m, weight_kg, base_stats, types, origin_group)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			i, e.Game, e.Playthrough, e.Pokemon, string(e.Acquisition),
			e.Legendary, e.Starter, e.EvolutionStage, eggGroups,
			e.HeightM, e.WeightKG, baseStats, types, e.OriginGroup,
		); err != nil {
			return fmt.Errorf("inserting roster entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing roster replace: %w", err)
	}
	return nil
}

// Clear removes the stored snapshot entirely.
func (r *RosterRepository) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM roster_entries`); err != nil {
		return fmt.Errorf("clearing roster: %w", err)
	}
	return nil
}

// DeleteTeam removes every entry of one (game, playthrough) team.
//
// Postcondition: Returns ErrTeamNotFound if no entry matched.
func (r *RosterRepository) DeleteTeam(ctx context.Context, key roster.TeamKey) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM roster_entries WHERE game = $1 AND playthrough = $2`,
		key.Game, key.Playthrough,
	)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// DeleteAt removes the entry at the given position within the stored
// snapshot. Row identity is positional: positions are assigned by the
// last Replace and are not renumbered on delete.
//
// Precondition: position must be >= 0.
// Postcondition: Returns ErrEntryNotFound if no row held that position.
func (r *RosterRepository) DeleteAt(ctx context.Context, position int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM roster_entries WHERE position = $1`, position,
	)
	if err != nil {
		return fmt.Errorf("deleting roster entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
