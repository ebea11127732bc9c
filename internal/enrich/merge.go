package enrich

import "github.com/cory-johannsen/trainerlog/internal/roster"

// merge fills the gaps in existing from fetched, field by field. A
// field that already carries a non-default value is kept untouched;
// only unset fields take the fetched value. Slices and pointers taken
// from fetched are copied, since the same fetched block may merge into
// several entries.
func merge(existing, fetched roster.Enrichment) roster.Enrichment {
	out := existing

	// Boolean flags have no unset state; false always yields to the
	// fetched value, which is a no-op when both agree.
	if !out.Legendary {
		out.Legendary = fetched.Legendary
	}
	if !out.Starter {
		out.Starter = fetched.Starter
	}
	if out.EvolutionStage == nil && fetched.EvolutionStage != nil {
		v := *fetched.EvolutionStage
		out.EvolutionStage = &v
	}
	if len(out.EggGroups) == 0 && len(fetched.EggGroups) > 0 {
		out.EggGroups = append([]string(nil), fetched.EggGroups...)
	}
	if out.HeightM == nil && fetched.HeightM != nil {
		v := *fetched.HeightM
		out.HeightM = &v
	}
	if out.WeightKG == nil && fetched.WeightKG != nil {
		v := *fetched.WeightKG
		out.WeightKG = &v
	}
	if out.Stats.IsZero() {
		out.Stats = fetched.Stats
	}
	if len(out.Types) == 0 && len(fetched.Types) > 0 {
		out.Types = append([]string(nil), fetched.Types...)
	}
	if out.OriginGroup == "" {
		out.OriginGroup = fetched.OriginGroup
	}
	return out
}
