package stats

import "github.com/cory-johannsen/trainerlog/internal/roster"

// TagRow is one exploded row: a single tag paired with the entry it
// came from. An entry with k type tags contributes k rows; an entry
// with none contributes zero.
type TagRow struct {
	Tag   string
	Entry roster.Entry
}

// ExplodeTags expands each entry's multi-valued type-tag field into one
// row per tag, preserving roster order and, within an entry, tag order.
func ExplodeTags(entries []roster.Entry) []TagRow {
	var rows []TagRow
	for _, e := range entries {
		for _, tag := range e.Types {
			rows = append(rows, TagRow{Tag: tag, Entry: e})
		}
	}
	return rows
}

// countTags tallies tag frequency over exploded rows, keeping
// first-occurrence order for deterministic tie-breaking.
func countTags(rows []TagRow) []TagCount {
	index := make(map[string]int)
	var counts []TagCount
	for _, row := range rows {
		if i, ok := index[row.Tag]; ok {
			counts[i].Count++
			continue
		}
		index[row.Tag] = len(counts)
		counts = append(counts, TagCount{Tag: row.Tag, Count: 1})
	}
	return counts
}
