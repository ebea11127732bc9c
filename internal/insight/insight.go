// Package insight renders aggregation output into ranked,
// human-readable observations. It is a pure formatting layer: every
// number it prints was already computed by the stats package.
package insight

import (
	"fmt"

	"github.com/cory-johannsen/trainerlog/internal/stats"
)

// Generate produces the ordered insight sentences for one aggregation
// pass. All numeric values render to two decimal places. An empty
// roster yields an empty list.
func Generate(agg stats.Aggregates) []string {
	if agg.TotalUsed == 0 {
		return nil
	}

	var out []string

	if tag, count, ok := mostCommon(agg.TypeCounts); ok {
		out = append(out, fmt.Sprintf("Your most used type is %s, appearing %d times across your teams.", tag, count))
	}
	if tag, count, ok := mostCommon(agg.StarterTypeCounts); ok {
		out = append(out, fmt.Sprintf("Among starters, %s is your go-to type with %d picks.", tag, count))
	}
	out = append(out, fmt.Sprintf("On average each playthrough covers %.2f distinct types.", agg.AvgTypesPerPlaythrough))

	out = append(out, statInsights(agg.Stats)...)
	out = append(out, sizeInsights(agg)...)

	if imbalanced, group, count := originImbalance(agg.OriginCounts); imbalanced {
		out = append(out, fmt.Sprintf("Your rosters lean away from %s: only %d entries, less than half the per-region average.", group, count))
	}

	return out
}

// statInsights renders the per-stat superlatives: highest and lowest
// average stat, extremum holders, and ranges.
func statInsights(metrics []stats.StatMetric) []string {
	var out []string

	if hi, lo, ok := averageExtremes(metrics); ok {
		out = append(out,
			fmt.Sprintf("Your teams' strongest stat on average is %s (%.2f).", hi.Name, hi.Mean),
			fmt.Sprintf("Your teams' weakest stat on average is %s (%.2f).", lo.Name, lo.Mean),
		)
	}

	for _, m := range metrics {
		if m.Count == 0 || m.MaxHolder == "" {
			continue
		}
		out = append(out, fmt.Sprintf(
			"%s ranges from %.2f (%s) to %.2f (%s).",
			statLabel(m.Name), m.Min, m.MinHolder, m.Max, m.MaxHolder,
		))
	}
	return out
}

// sizeInsights renders the height/weight superlatives and correlation.
func sizeInsights(agg stats.Aggregates) []string {
	var out []string

	if agg.Height.Count > 0 {
		out = append(out, fmt.Sprintf(
			"Your tallest pick is %s at %.2f m; the shortest is %s at %.2f m (average %.2f m).",
			agg.Height.MaxHolder, agg.Height.Max, agg.Height.MinHolder, agg.Height.Min, agg.Height.Mean,
		))
	}
	if agg.Weight.Count > 0 {
		out = append(out, fmt.Sprintf(
			"Your heaviest pick is %s at %.2f kg; the lightest is %s at %.2f kg (average %.2f kg).",
			agg.Weight.MaxHolder, agg.Weight.Max, agg.Weight.MinHolder, agg.Weight.Min, agg.Weight.Mean,
		))
	}
	if agg.HeightWeightCorr != nil {
		r := *agg.HeightWeightCorr
		out = append(out, fmt.Sprintf(
			"Height and weight show a %s correlation across your picks (r = %.2f).",
			correlationStrength(r), r,
		))
	}
	return out
}

// correlationStrength classifies |r|: above 0.7 strong, above 0.4
// moderate, otherwise weak.
func correlationStrength(r float64) string {
	abs := r
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs > 0.7:
		return "strong"
	case abs > 0.4:
		return "moderate"
	default:
		return "weak"
	}
}

// mostCommon returns the highest-count tag, first occurrence winning
// ties.
func mostCommon(counts []stats.TagCount) (tag string, count int, ok bool) {
	for _, c := range counts {
		if !ok || c.Count > count {
			tag, count, ok = c.Tag, c.Count, true
		}
	}
	return tag, count, ok
}

// averageExtremes picks the named stats with the highest and lowest
// mean, excluding the derived total. First occurrence wins ties.
func averageExtremes(metrics []stats.StatMetric) (hi, lo stats.StatMetric, ok bool) {
	for _, m := range metrics {
		if m.Name == stats.StatTotalName || m.Count == 0 {
			continue
		}
		if !ok {
			hi, lo, ok = m, m, true
			continue
		}
		if m.Mean > hi.Mean {
			hi = m
		}
		if m.Mean < lo.Mean {
			lo = m
		}
	}
	return hi, lo, ok
}

// originImbalance reports whether the least-common origin group falls
// below half the mean per-group count. Requires at least two groups to
// be meaningful.
func originImbalance(counts []stats.GroupCount) (bool, string, int) {
	if len(counts) < 2 {
		return false, "", 0
	}
	var total int
	low := counts[0]
	for _, c := range counts {
		total += c.Count
		if c.Count < low.Count {
			low = c
		}
	}
	mean := float64(total) / float64(len(counts))
	if float64(low.Count) < mean/2 {
		return true, low.Group, low.Count
	}
	return false, "", 0
}

func statLabel(name string) string {
	if name == stats.StatTotalName {
		return "Stat total"
	}
	return "Base " + name
}
