// Package tracker orchestrates the dashboard pipeline: load the stored
// roster, enrich it, write back, aggregate, and generate insights. The
// pipeline is a pure function of the loaded roster and reference data;
// all state lives in the gateway or in the request.
package tracker

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/trainerlog/internal/insight"
	"github.com/cory-johannsen/trainerlog/internal/roster"
	"github.com/cory-johannsen/trainerlog/internal/stats"
)

// Gateway is the persistence boundary for the roster snapshot.
type Gateway interface {
	Load(ctx context.Context) (roster.Roster, error)
	Replace(ctx context.Context, entries roster.Roster) error
	Clear(ctx context.Context) error
	DeleteTeam(ctx context.Context, key roster.TeamKey) error
	DeleteAt(ctx context.Context, position int) error
}

// Enricher fills missing reference attributes on a roster.
type Enricher interface {
	Enrich(ctx context.Context, r roster.Roster) roster.Roster
}

// NameLister fetches the known-creature catalog from the reference API.
type NameLister interface {
	ListNames(ctx context.Context, limit int) ([]string, error)
}

// TeamSize is the number of slots every team carries; short teams are
// padded with placeholder slots.
const TeamSize = 6

// EmptyNotice is the user-facing message for an empty roster. It is the
// only failure surface the dashboard shows.
const EmptyNotice = "No data to analyse yet!"

// Snapshot is one full pipeline result.
type Snapshot struct {
	Roster     roster.Roster    `json:"roster"`
	Aggregates stats.Aggregates `json:"aggregates"`
	Insights   []string         `json:"insights"`
	Notice     string           `json:"notice,omitempty"`
}

// SlotInput is one creature-slot submitted on team save.
type SlotInput struct {
	Pokemon     string             `json:"pokemon"`
	Acquisition roster.Acquisition `json:"acquisition"`
}

// Service runs the enrichment-and-aggregation pipeline against the
// persistence gateway.
type Service struct {
	gateway  Gateway
	enricher Enricher
	names    NameLister
	catalog  roster.Catalog
	limit    int
	logger   *zap.Logger

	mu         sync.Mutex
	knownNames []string
}

// NewService creates a Service.
//
// Precondition: gateway, enricher, names, and logger must be non-nil;
// catalog must be validated; nameLimit must be >= 1.
func NewService(gateway Gateway, enricher Enricher, names NameLister, catalog roster.Catalog, nameLimit int, logger *zap.Logger) *Service {
	return &Service{
		gateway:  gateway,
		enricher: enricher,
		names:    names,
		catalog:  catalog,
		limit:    nameLimit,
		logger:   logger,
	}
}

// Snapshot loads the roster, enriches it, persists any newly filled
// attributes, and derives aggregates and insights.
//
// Enrichment and write-back failures degrade silently: the snapshot is
// always renderable. Only a load failure is an error.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	runID := uuid.NewString()

	loaded, err := s.gateway.Load(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading roster: %w", err)
	}

	enriched := s.enricher.Enrich(ctx, loaded)
	if !reflect.DeepEqual(loaded, enriched) {
		if err := s.gateway.Replace(ctx, enriched); err != nil {
			// Keep rendering from the in-memory roster; the next run
			// will enrich and write back again.
			s.logger.Warn("persisting enriched roster failed",
				zap.String("run_id", runID),
				zap.Error(err),
			)
		}
	}

	agg := stats.Compute(enriched)
	snap := Snapshot{
		Roster:     enriched,
		Aggregates: agg,
		Insights:   insight.Generate(agg),
	}
	if len(enriched) == 0 {
		snap.Notice = EmptyNotice
	}

	s.logger.Debug("pipeline run complete",
		zap.String("run_id", runID),
		zap.Int("entries", len(enriched)),
		zap.Int("valid", agg.TotalUsed),
	)
	return snap, nil
}

// SaveTeam validates and appends one playthrough's team to the roster,
// enriching the new entries before they are persisted.
//
// Precondition: at most TeamSize slots; missing slots are padded with
// placeholders.
func (s *Service) SaveTeam(ctx context.Context, game string, playthrough int, slots []SlotInput) error {
	if !s.catalog.KnownGame(game) {
		return fmt.Errorf("unknown game %q", game)
	}
	if playthrough < 1 {
		return fmt.Errorf("playthrough must be >= 1, got %d", playthrough)
	}
	if len(slots) > TeamSize {
		return fmt.Errorf("a team has at most %d slots, got %d", TeamSize, len(slots))
	}

	entries := make(roster.Roster, 0, TeamSize)
	for i, slot := range slots {
		e, err := buildEntry(game, playthrough, slot)
		if err != nil {
			return fmt.Errorf("slot %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	for len(entries) < TeamSize {
		entries = append(entries, placeholderEntry(game, playthrough))
	}

	loaded, err := s.gateway.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading roster: %w", err)
	}
	merged := s.enricher.Enrich(ctx, append(loaded, entries...))
	if err := s.gateway.Replace(ctx, merged); err != nil {
		return fmt.Errorf("saving roster: %w", err)
	}
	return nil
}

// DeleteTeam removes one playthrough's team.
func (s *Service) DeleteTeam(ctx context.Context, key roster.TeamKey) error {
	return s.gateway.DeleteTeam(ctx, key)
}

// DeleteEntry removes a single entry by its positional identity within
// the stored snapshot.
func (s *Service) DeleteEntry(ctx context.Context, position int) error {
	return s.gateway.DeleteAt(ctx, position)
}

// Clear removes the entire roster.
func (s *Service) Clear(ctx context.Context) error {
	return s.gateway.Clear(ctx)
}

// Games returns the closed game catalog.
func (s *Service) Games() []string {
	return s.catalog.Games
}

// KnownNames returns the creature-name catalog for the entry form. The
// list is fetched once from the reference API and cached for the life
// of the process; a fetch failure yields an empty list, never an error.
func (s *Service) KnownNames(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.knownNames != nil {
		return s.knownNames
	}
	names, err := s.names.ListNames(ctx, s.limit)
	if err != nil {
		s.logger.Warn("fetching name catalog failed", zap.Error(err))
		return nil
	}
	s.knownNames = names
	return names
}

func buildEntry(game string, playthrough int, slot SlotInput) (roster.Entry, error) {
	name := slot.Pokemon
	if name == "" {
		name = roster.PlaceholderName
	}
	acq := slot.Acquisition
	if acq == "" {
		acq = roster.AcquisitionNA
	}
	if !acq.Valid() {
		return roster.Entry{}, fmt.Errorf("unknown acquisition %q", acq)
	}
	if name == roster.PlaceholderName {
		// Placeholder slots always carry the N/A acquisition.
		acq = roster.AcquisitionNA
	}
	return roster.Entry{
		Game:        game,
		Playthrough: playthrough,
		Pokemon:     name,
		Acquisition: acq,
		Enrichment:  roster.DefaultEnrichment(),
	}, nil
}

func placeholderEntry(game string, playthrough int) roster.Entry {
	return roster.Entry{
		Game:        game,
		Playthrough: playthrough,
		Pokemon:     roster.PlaceholderName,
		Acquisition: roster.AcquisitionNA,
		Enrichment:  roster.DefaultEnrichment(),
	}
}
