package stats

import (
	"github.com/cory-johannsen/trainerlog/internal/roster"
)

// TagCount is a tag with its exploded-row frequency.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// NameCount is a creature or acquisition name with its entry count.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GroupCount is an origin-group value with its entry count.
type GroupCount struct {
	Group string `json:"group"`
	Count int    `json:"count"`
}

// Metric is a numeric summary plus the names of the entries holding the
// extremes, first occurrence winning ties.
type Metric struct {
	Summary
	MaxHolder string `json:"max_holder,omitempty"`
	MinHolder string `json:"min_holder,omitempty"`
}

// StatMetric is a Metric for one named base stat.
type StatMetric struct {
	Name string `json:"name"`
	Metric
}

// StatTotalName labels the derived sum-of-six-stats series.
const StatTotalName = "total"

// Aggregates is the full output of one aggregation pass. Every slice
// preserves first-occurrence order so downstream "most common" picks
// are deterministic.
type Aggregates struct {
	// Counting.
	TotalUsed              int     `json:"total_used"`
	UniquePokemon          int     `json:"unique_pokemon"`
	TotalGames             int     `json:"total_games"`
	TotalPlaythroughs      int     `json:"total_playthroughs"`
	AvgPlaythroughsPerGame float64 `json:"avg_playthroughs_per_game"`

	// Grouped sizing over valid entries.
	MinTeamSize int `json:"min_team_size"`
	MaxTeamSize int `json:"max_team_size"`

	// Status sums.
	TotalLegendaries      int     `json:"total_legendaries"`
	TotalStarters         int     `json:"total_starters"`
	AvgLegendariesPerTeam float64 `json:"avg_legendaries_per_team"`
	AvgStartersPerTeam    float64 `json:"avg_starters_per_team"`

	// Numeric summaries.
	Height Metric       `json:"height"`
	Weight Metric       `json:"weight"`
	Stats  []StatMetric `json:"stats"`

	// Type analysis.
	TypeCounts             []TagCount `json:"type_counts"`
	StarterTypeCounts      []TagCount `json:"starter_type_counts"`
	AvgTypesPerPlaythrough float64    `json:"avg_types_per_playthrough"`

	// Correlation between height and weight; nil when undefined.
	HeightWeightCorr *float64 `json:"height_weight_corr,omitempty"`

	// Origin-group distribution.
	OriginCounts []GroupCount `json:"origin_counts"`
	TopOriginPct float64      `json:"top_origin_pct"`

	// Dashboard tables.
	MostCommonPokemon []NameCount `json:"most_common_pokemon"`
	AcquisitionCounts []NameCount `json:"acquisition_counts"`
}

// ValidEntries filters the roster to entries that count toward
// statistics: real creature, real acquisition method.
func ValidEntries(r roster.Roster) []roster.Entry {
	var valid []roster.Entry
	for _, e := range r {
		if e.IsValid() {
			valid = append(valid, e)
		}
	}
	return valid
}

// Compute runs the full aggregation pass over a roster.
//
// Postcondition: Compute is deterministic for a given roster, including
// every tie-break, and never fails; an empty roster yields zero-valued
// aggregates.
func Compute(r roster.Roster) Aggregates {
	valid := ValidEntries(r)
	var agg Aggregates

	agg.TotalUsed = len(valid)
	agg.UniquePokemon = distinctNames(valid)
	agg.TotalGames = distinctGames(valid)
	agg.TotalPlaythroughs = len(teamKeys(valid))
	if agg.TotalGames > 0 {
		agg.AvgPlaythroughsPerGame = float64(agg.TotalPlaythroughs) / float64(agg.TotalGames)
	}

	agg.MinTeamSize, agg.MaxTeamSize = teamSizeRange(valid)

	for _, e := range valid {
		if e.Legendary {
			agg.TotalLegendaries++
		}
		if e.Starter {
			agg.TotalStarters++
		}
	}
	if agg.TotalPlaythroughs > 0 {
		agg.AvgLegendariesPerTeam = float64(agg.TotalLegendaries) / float64(agg.TotalPlaythroughs)
		agg.AvgStartersPerTeam = float64(agg.TotalStarters) / float64(agg.TotalPlaythroughs)
	}

	agg.Height = metricOf(valid, func(e roster.Entry) (float64, bool) {
		if e.HeightM == nil {
			return 0, false
		}
		return *e.HeightM, true
	})
	agg.Weight = metricOf(valid, func(e roster.Entry) (float64, bool) {
		if e.WeightKG == nil {
			return 0, false
		}
		return *e.WeightKG, true
	})
	agg.Stats = statMetrics(valid)

	rows := ExplodeTags(valid)
	agg.TypeCounts = countTags(rows)
	agg.StarterTypeCounts = starterTagCounts(rows)
	agg.AvgTypesPerPlaythrough = avgTypesPerTeam(valid)

	if corr, ok := heightWeightCorrelation(valid); ok {
		agg.HeightWeightCorr = &corr
	}

	agg.OriginCounts = originCounts(valid)
	agg.TopOriginPct = topOriginPct(agg.OriginCounts, agg.TotalUsed)

	agg.MostCommonPokemon = topNames(valid, 5)
	agg.AcquisitionCounts = acquisitionCounts(valid)

	return agg
}

func distinctNames(entries []roster.Entry) int {
	seen := make(map[string]bool)
	for _, e := range entries {
		seen[e.Pokemon] = true
	}
	return len(seen)
}

func distinctGames(entries []roster.Entry) int {
	seen := make(map[string]bool)
	for _, e := range entries {
		seen[e.Game] = true
	}
	return len(seen)
}

// teamKeys returns the distinct (game, playthrough) keys in
// first-appearance order.
func teamKeys(entries []roster.Entry) []roster.TeamKey {
	seen := make(map[roster.TeamKey]bool)
	var keys []roster.TeamKey
	for _, e := range entries {
		k := e.Team()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// teamSizeRange returns the smallest and largest per-team entry counts,
// or (0, 0) when there are no teams.
func teamSizeRange(entries []roster.Entry) (min, max int) {
	sizes := make(map[roster.TeamKey]int)
	for _, e := range entries {
		sizes[e.Team()]++
	}
	if len(sizes) == 0 {
		return 0, 0
	}
	first := true
	for _, n := range sizes {
		if first {
			min, max = n, n
			first = false
			continue
		}
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	return min, max
}

// metricOf summarizes a per-entry series, recording the names of the
// entries holding the extremes. Entries for which extract reports no
// value are skipped.
func metricOf(entries []roster.Entry, extract func(roster.Entry) (float64, bool)) Metric {
	var values []float64
	var m Metric
	var runMin, runMax float64
	for _, e := range entries {
		v, ok := extract(e)
		if !ok {
			continue
		}
		// Strict comparisons keep the first occurrence on ties.
		if len(values) == 0 || v > runMax {
			runMax = v
			m.MaxHolder = e.Pokemon
		}
		if len(values) == 0 || v < runMin {
			runMin = v
			m.MinHolder = e.Pokemon
		}
		values = append(values, v)
	}
	m.Summary = Summarize(values)
	return m
}

func statMetrics(entries []roster.Entry) []StatMetric {
	metrics := make([]StatMetric, 0, len(roster.StatNames)+1)
	for _, name := range roster.StatNames {
		name := name
		m := metricOf(entries, func(e roster.Entry) (float64, bool) {
			return float64(e.Stats.Value(name)), true
		})
		metrics = append(metrics, StatMetric{Name: name, Metric: m})
	}
	total := metricOf(entries, func(e roster.Entry) (float64, bool) {
		return float64(e.Stats.Total()), true
	})
	metrics = append(metrics, StatMetric{Name: StatTotalName, Metric: total})
	return metrics
}

func starterTagCounts(rows []TagRow) []TagCount {
	var starterRows []TagRow
	for _, row := range rows {
		if row.Entry.Starter {
			starterRows = append(starterRows, row)
		}
	}
	return countTags(starterRows)
}

// avgTypesPerTeam is the mean, across teams, of the number of distinct
// type tags covered by each team (set union, not sum).
func avgTypesPerTeam(entries []roster.Entry) float64 {
	coverage := make(map[roster.TeamKey]map[string]bool)
	for _, e := range entries {
		k := e.Team()
		if coverage[k] == nil {
			coverage[k] = make(map[string]bool)
		}
		for _, tag := range e.Types {
			coverage[k][tag] = true
		}
	}
	if len(coverage) == 0 {
		return 0
	}
	var sum int
	for _, tags := range coverage {
		sum += len(tags)
	}
	return float64(sum) / float64(len(coverage))
}

func heightWeightCorrelation(entries []roster.Entry) (float64, bool) {
	var hs, ws []float64
	for _, e := range entries {
		if e.HeightM == nil || e.WeightKG == nil {
			continue
		}
		hs = append(hs, *e.HeightM)
		ws = append(ws, *e.WeightKG)
	}
	return Pearson(hs, ws)
}

func originCounts(entries []roster.Entry) []GroupCount {
	index := make(map[string]int)
	var counts []GroupCount
	for _, e := range entries {
		group := e.OriginGroup
		if group == "" {
			group = "Unknown"
		}
		if i, ok := index[group]; ok {
			counts[i].Count++
			continue
		}
		index[group] = len(counts)
		counts = append(counts, GroupCount{Group: group, Count: 1})
	}
	return counts
}

// topOriginPct is the share, in percent, of the most common origin
// group. First occurrence wins ties.
func topOriginPct(counts []GroupCount, total int) float64 {
	if total == 0 || len(counts) == 0 {
		return 0
	}
	top := counts[0].Count
	for _, c := range counts[1:] {
		if c.Count > top {
			top = c.Count
		}
	}
	return float64(top) / float64(total) * 100
}

// topNames returns the n most frequent creature names, counted in
// first-occurrence order and ranked stably.
func topNames(entries []roster.Entry, n int) []NameCount {
	index := make(map[string]int)
	var counts []NameCount
	for _, e := range entries {
		if i, ok := index[e.Pokemon]; ok {
			counts[i].Count++
			continue
		}
		index[e.Pokemon] = len(counts)
		counts = append(counts, NameCount{Name: e.Pokemon, Count: 1})
	}
	sortStableByCount(counts)
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func acquisitionCounts(entries []roster.Entry) []NameCount {
	index := make(map[roster.Acquisition]int)
	var counts []NameCount
	for _, e := range entries {
		if i, ok := index[e.Acquisition]; ok {
			counts[i].Count++
			continue
		}
		index[e.Acquisition] = len(counts)
		counts = append(counts, NameCount{Name: string(e.Acquisition), Count: 1})
	}
	return counts
}

// sortStableByCount orders descending by count, keeping the original
// (first-occurrence) order among equal counts.
func sortStableByCount(counts []NameCount) {
	// Insertion sort: small n, stability required.
	for i := 1; i < len(counts); i++ {
		for j := i; j > 0 && counts[j].Count > counts[j-1].Count; j-- {
			counts[j], counts[j-1] = counts[j-1], counts[j]
		}
	}
}
