// Package roster defines the team-roster domain model: one entry per
// creature-slot per playthrough, plus the reference attributes filled in
// by enrichment.
package roster

// PlaceholderName is the sentinel creature name for an empty team slot.
const PlaceholderName = "None"

// Acquisition describes how a creature was obtained within a playthrough.
type Acquisition string

// Acquisition values. AcquisitionNA marks a placeholder slot and is
// excluded from statistics.
const (
	AcquisitionNA      Acquisition = "N/A"
	AcquisitionCaught  Acquisition = "Caught"
	AcquisitionGifted  Acquisition = "Gifted"
	AcquisitionTraded  Acquisition = "Traded"
	AcquisitionHatched Acquisition = "Hatched"
	AcquisitionOther   Acquisition = "Other"
)

// Acquisitions lists all valid acquisition values in display order.
var Acquisitions = []Acquisition{
	AcquisitionNA,
	AcquisitionCaught,
	AcquisitionGifted,
	AcquisitionTraded,
	AcquisitionHatched,
	AcquisitionOther,
}

// Valid reports whether a is one of the known acquisition values.
func (a Acquisition) Valid() bool {
	for _, known := range Acquisitions {
		if a == known {
			return true
		}
	}
	return false
}

// StatNames lists the six base-stat keys in canonical order.
var StatNames = []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}

// BaseStats holds the six-stat vector for a creature. A zero value means
// the vector has not been populated yet.
type BaseStats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"special-attack"`
	SpecialDefense int `json:"special-defense"`
	Speed          int `json:"speed"`
}

// Value returns the stat for the given canonical key, or 0 for an
// unknown key.
func (b BaseStats) Value(name string) int {
	switch name {
	case "hp":
		return b.HP
	case "attack":
		return b.Attack
	case "defense":
		return b.Defense
	case "special-attack":
		return b.SpecialAttack
	case "special-defense":
		return b.SpecialDefense
	case "speed":
		return b.Speed
	}
	return 0
}

// Total returns the sum of all six stats.
//
// Postcondition: return value == sum over StatNames of Value(name).
func (b BaseStats) Total() int {
	return b.HP + b.Attack + b.Defense + b.SpecialAttack + b.SpecialDefense + b.Speed
}

// IsZero reports whether no stat has been populated.
func (b BaseStats) IsZero() bool {
	return b == BaseStats{}
}

// Enrichment is the block of reference attributes attached to an entry.
// Pointer-typed fields distinguish "not fetched yet" (nil) from a real
// zero value; slice and string fields treat empty as unset.
type Enrichment struct {
	Legendary      bool      `json:"legendary"`
	Starter        bool      `json:"starter"`
	EvolutionStage *int      `json:"evolution_stage,omitempty"`
	EggGroups      []string  `json:"egg_groups,omitempty"`
	HeightM        *float64  `json:"height_m,omitempty"`
	WeightKG       *float64  `json:"weight_kg,omitempty"`
	Stats          BaseStats `json:"base_stats"`
	Types          []string  `json:"types,omitempty"`
	OriginGroup    string    `json:"origin_group,omitempty"`
}

// DefaultEnrichment returns the fixed attribute block used for
// placeholder slots and for entries whose reference lookup failed.
func DefaultEnrichment() Enrichment {
	return Enrichment{EggGroups: []string{}, Types: []string{}}
}

// IsDefault reports whether e carries no fetched attribute values.
func (e Enrichment) IsDefault() bool {
	return !e.Legendary && !e.Starter &&
		e.EvolutionStage == nil &&
		len(e.EggGroups) == 0 &&
		e.HeightM == nil && e.WeightKG == nil &&
		e.Stats.IsZero() &&
		len(e.Types) == 0 &&
		e.OriginGroup == ""
}

// Entry is one creature-slot within one playthrough's team.
type Entry struct {
	Game        string      `json:"game"`
	Playthrough int         `json:"playthrough"`
	Pokemon     string      `json:"pokemon"`
	Acquisition Acquisition `json:"acquisition"`

	Enrichment
}

// IsPlaceholder reports whether the entry is an empty slot.
func (e Entry) IsPlaceholder() bool {
	return e.Pokemon == PlaceholderName
}

// IsValid reports whether the entry counts toward statistics: it must
// name a real creature and carry a real acquisition method.
func (e Entry) IsValid() bool {
	return !e.IsPlaceholder() && e.Acquisition != AcquisitionNA && e.Acquisition != ""
}

// Team returns the (game, playthrough) key identifying the entry's team.
func (e Entry) Team() TeamKey {
	return TeamKey{Game: e.Game, Playthrough: e.Playthrough}
}

// TeamKey identifies one playthrough's team.
type TeamKey struct {
	Game        string `json:"game"`
	Playthrough int    `json:"playthrough"`
}

// Roster is the ordered collection of tracked entries. Order is
// irrelevant for aggregation but preserved across persistence round
// trips, and it drives first-occurrence tie-breaking in statistics.
type Roster []Entry

// Clone returns a deep copy of the roster. Enrichment slices are copied
// so mutating the clone never aliases the original.
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	for i, e := range r {
		out[i] = e.clone()
	}
	return out
}

func (e Entry) clone() Entry {
	if e.EggGroups != nil {
		e.EggGroups = append([]string(nil), e.EggGroups...)
	}
	if e.Types != nil {
		e.Types = append([]string(nil), e.Types...)
	}
	if e.EvolutionStage != nil {
		v := *e.EvolutionStage
		e.EvolutionStage = &v
	}
	if e.HeightM != nil {
		v := *e.HeightM
		e.HeightM = &v
	}
	if e.WeightKG != nil {
		v := *e.WeightKG
		e.WeightKG = &v
	}
	return e
}

// Teams returns the distinct team keys in first-appearance order.
func (r Roster) Teams() []TeamKey {
	seen := make(map[TeamKey]bool)
	var keys []TeamKey
	for _, e := range r {
		k := e.Team()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}
