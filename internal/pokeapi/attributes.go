package pokeapi

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/trainerlog/internal/roster"
)

// UnknownOriginGroup is reported when the source carries no
// version-introduction grouping for a species.
const UnknownOriginGroup = "Unknown"

// generationRegions maps the source's generation keys to the region
// names shown in the dashboard.
var generationRegions = map[string]string{
	"generation-i":    "Kanto",
	"generation-ii":   "Johto",
	"generation-iii":  "Hoenn",
	"generation-iv":   "Sinnoh",
	"generation-v":    "Unova",
	"generation-vi":   "Kalos",
	"generation-vii":  "Alola",
	"generation-viii": "Galar",
	"generation-ix":   "Paldea",
}

// Resolver composes the individual reference lookups into the attribute
// block enrichment attaches to a roster entry. Lookup failures never
// escape: any failed stage degrades to default values for the fields
// that stage would have filled.
type Resolver struct {
	client       *Client
	starterBases map[string]bool
	logger       *zap.Logger
}

// NewResolver creates a Resolver over the given client.
//
// Precondition: client and logger must be non-nil. starterBases is the
// closed set of base-form keys whose families count as starters.
func NewResolver(client *Client, starterBases map[string]bool, logger *zap.Logger) *Resolver {
	return &Resolver{client: client, starterBases: starterBases, logger: logger}
}

// Attributes looks up the full attribute block for a canonical creature
// name. It never returns an error: a failed creature lookup yields the
// fixed default block, and a failed species or chain lookup yields a
// best-effort partial block.
//
// Postcondition: the returned block always has all six stat keys
// populated (missing source stats default to 0).
func (r *Resolver) Attributes(ctx context.Context, canonicalName string) roster.Enrichment {
	attrs := roster.DefaultEnrichment()

	p, err := r.client.Pokemon(ctx, canonicalName)
	if err != nil {
		r.logger.Warn("reference lookup failed, using defaults",
			zap.String("name", canonicalName),
			zap.Error(err),
		)
		return attrs
	}

	// Source units: height in decimetres, weight in hectograms.
	height := float64(p.Height) / 10
	weight := float64(p.Weight) / 10
	attrs.HeightM = &height
	attrs.WeightKG = &weight
	for _, st := range p.Stats {
		setStat(&attrs.Stats, st.Stat.Name, st.BaseStat)
	}
	for _, t := range p.Types {
		attrs.Types = append(attrs.Types, titleCase(t.Type.Name))
	}

	speciesName := p.Species.Name
	if speciesName == "" {
		speciesName = canonicalName
	}
	s, err := r.client.Species(ctx, speciesName)
	if err != nil {
		r.logger.Warn("species lookup failed, keeping partial attributes",
			zap.String("name", canonicalName),
			zap.Error(err),
		)
		return attrs
	}

	attrs.Legendary = s.IsLegendary
	for _, g := range s.EggGroups {
		attrs.EggGroups = append(attrs.EggGroups, titleCase(g.Name))
	}
	if region, ok := generationRegions[s.Generation.Name]; ok {
		attrs.OriginGroup = region
	} else {
		attrs.OriginGroup = UnknownOriginGroup
	}

	chain, err := r.client.EvolutionChain(ctx, s.EvolutionChain.URL)
	if err != nil {
		r.logger.Warn("evolution chain lookup failed, starter defaults to false",
			zap.String("name", canonicalName),
			zap.Error(err),
		)
		return attrs
	}

	family := linearFamily(chain.Chain)
	attrs.Starter = r.isStarterFamily(family)
	if stage := stageOf(family, speciesName); stage > 0 {
		attrs.EvolutionStage = &stage
	}

	return attrs
}

// linearFamily walks the chain from its base form following only the
// first next-stage link at each node. Branching families are not fully
// explored; this matches the tracker's long-standing behavior.
func linearFamily(root ChainLink) []string {
	var family []string
	node := &root
	for node != nil {
		family = append(family, node.Species.Name)
		if len(node.EvolvesTo) == 0 {
			break
		}
		node = &node.EvolvesTo[0]
	}
	return family
}

// isStarterFamily reports whether any member of the linear family is a
// known starter base form.
func (r *Resolver) isStarterFamily(family []string) bool {
	for _, name := range family {
		if r.starterBases[name] {
			return true
		}
	}
	return false
}

// stageOf returns the 1-based position of species within the linear
// family, or 0 if the species sits on an unexplored branch.
func stageOf(family []string, species string) int {
	for i, name := range family {
		if name == species {
			return i + 1
		}
	}
	return 0
}

func setStat(stats *roster.BaseStats, name string, value int) {
	switch name {
	case "hp":
		stats.HP = value
	case "attack":
		stats.Attack = value
	case "defense":
		stats.Defense = value
	case "special-attack":
		stats.SpecialAttack = value
	case "special-defense":
		stats.SpecialDefense = value
	case "speed":
		stats.Speed = value
	}
}
