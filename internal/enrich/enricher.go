// Package enrich implements the roster enrichment engine: filling each
// entry's missing reference attributes from an attribute source, at
// most one lookup per distinct canonical name per run.
package enrich

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/trainerlog/internal/roster"
)

// Source resolves a canonical creature name to an attribute block.
// Implementations must degrade to a default block instead of failing;
// see pokeapi.Resolver.
type Source interface {
	Attributes(ctx context.Context, canonicalName string) roster.Enrichment
}

// AttributeCache is an optional cache consulted before the Source and
// written through after a successful resolve.
type AttributeCache interface {
	Get(ctx context.Context, canonicalName string) (roster.Enrichment, bool)
	Put(ctx context.Context, canonicalName string, attrs roster.Enrichment)
}

// Normalizer maps display names to canonical lookup keys.
type Normalizer interface {
	Normalize(displayName string) string
}

// Enricher fills missing attributes on roster entries.
//
// Enrich is a pure transformation of its input: it never mutates the
// roster it is given and never overwrites an attribute that is already
// set, so repeated runs are idempotent.
type Enricher struct {
	source     Source
	cache      AttributeCache
	normalizer Normalizer
	workers    int
	logger     *zap.Logger
}

// NewEnricher creates an Enricher.
//
// Precondition: source, normalizer, and logger must be non-nil. cache
// may be nil to disable caching. workers < 1 is treated as 1.
func NewEnricher(source Source, cache AttributeCache, normalizer Normalizer, workers int, logger *zap.Logger) *Enricher {
	if workers < 1 {
		workers = 1
	}
	return &Enricher{
		source:     source,
		cache:      cache,
		normalizer: normalizer,
		workers:    workers,
		logger:     logger,
	}
}

// Enrich returns a copy of the roster with missing attributes filled.
//
// Placeholder slots get the fixed default block and are never looked
// up. Distinct canonical names are fetched concurrently through a
// bounded worker pool, at most once per name per run. A failed lookup
// leaves that entry at defaults and never halts the run.
//
// Postcondition: Enrich(Enrich(r)) is value-identical to Enrich(r).
func (e *Enricher) Enrich(ctx context.Context, r roster.Roster) roster.Roster {
	out := r.Clone()

	// Distinct canonical names still missing attributes, in
	// first-appearance order.
	var pending []string
	seen := make(map[string]bool)
	for i := range out {
		if out[i].IsPlaceholder() {
			out[i].Enrichment = roster.DefaultEnrichment()
			continue
		}
		if !needsLookup(out[i].Enrichment) {
			continue
		}
		key := e.normalizer.Normalize(out[i].Pokemon)
		if !seen[key] {
			seen[key] = true
			pending = append(pending, key)
		}
	}
	if len(pending) == 0 {
		return out
	}

	fetched := e.resolveAll(ctx, pending)

	for i := range out {
		if out[i].IsPlaceholder() || !needsLookup(out[i].Enrichment) {
			continue
		}
		key := e.normalizer.Normalize(out[i].Pokemon)
		if attrs, ok := fetched[key]; ok {
			out[i].Enrichment = merge(out[i].Enrichment, attrs)
		}
	}
	return out
}

// resolveAll fetches attribute blocks for the given canonical names
// through a bounded worker pool. Lookups are independent and read-only,
// so fan-out is safe.
func (e *Enricher) resolveAll(ctx context.Context, names []string) map[string]roster.Enrichment {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		fetched = make(map[string]roster.Enrichment, len(names))
		sem     = make(chan struct{}, e.workers)
	)
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			attrs := e.resolve(ctx, name)
			mu.Lock()
			fetched[name] = attrs
			mu.Unlock()
		}(name)
	}
	wg.Wait()
	return fetched
}

func (e *Enricher) resolve(ctx context.Context, canonicalName string) roster.Enrichment {
	if e.cache != nil {
		if attrs, ok := e.cache.Get(ctx, canonicalName); ok {
			return attrs
		}
	}
	attrs := e.source.Attributes(ctx, canonicalName)
	if e.cache != nil {
		e.cache.Put(ctx, canonicalName, attrs)
	}
	return attrs
}

// needsLookup reports whether the block still has fillable gaps worth a
// reference lookup. Boolean flags are excluded: false is their default
// and carries no "unset" signal.
func needsLookup(attrs roster.Enrichment) bool {
	return attrs.EvolutionStage == nil ||
		len(attrs.EggGroups) == 0 ||
		attrs.HeightM == nil ||
		attrs.WeightKG == nil ||
		attrs.Stats.IsZero() ||
		len(attrs.Types) == 0 ||
		attrs.OriginGroup == ""
}
