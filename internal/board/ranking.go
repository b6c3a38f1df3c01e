// Package board generates custom candidate rankings from a weighted blend of
// college production, combine athleticism, conference strength, and consensus
// opinion. The resulting board feeds the CPU selector and the analytics
// engine as an alternative to consensus rank.
package board

import (
	"sort"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
)

// Weights blend the four scoring dimensions. They need not sum to 1; the
// composite is normalized by their sum. All-zero weights produce an all-zero
// board.
type Weights struct {
	Production  float64 `json:"production"`
	Athleticism float64 `json:"athleticism"`
	Conference  float64 `json:"conference"`
	Consensus   float64 `json:"consensus"`
}

// Config controls one board generation.
type Config struct {
	// PositionFilter, when set, restricts the board to one position.
	PositionFilter models.Position `json:"position_filter,omitempty"`
	Weights        Weights         `json:"weights"`
	// StatOverrides replaces the position headline stats used for the
	// production score.
	StatOverrides []string `json:"stat_overrides,omitempty"`
}

// headlineStats are the production stats sampled per position when no
// override is supplied.
var headlineStats = map[models.Position][]string{
	models.PositionQB: {"pass_yards", "pass_tds", "completion_pct"},
	models.PositionRB: {"rush_yards", "rush_tds", "yards_per_carry"},
	models.PositionFB: {"rush_yards", "receptions"},
	models.PositionWR: {"receptions", "rec_yards", "rec_tds"},
	models.PositionTE: {"receptions", "rec_yards", "rec_tds"},
	models.PositionOT: {"games_started", "sacks_allowed"},
	models.PositionOG: {"games_started", "sacks_allowed"},
	models.PositionC:  {"games_started", "sacks_allowed"},
	models.PositionDE: {"sacks", "tackles_for_loss", "pressures"},
	models.PositionDT: {"sacks", "tackles_for_loss", "tackles"},
	models.PositionLB: {"tackles", "sacks", "pass_deflections"},
	models.PositionCB: {"interceptions", "pass_deflections", "tackles"},
	models.PositionS:  {"interceptions", "tackles", "pass_deflections"},
	models.PositionK:  {"field_goal_pct", "long_field_goal"},
	models.PositionP:  {"punt_average"},
}

// combineKeys are the six measurements sampled for the athleticism score.
// lowerIsBetter marks timed drills where a smaller number is the better one.
var combineKeys = []struct {
	key           string
	lowerIsBetter bool
}{
	{models.CombineFortyYard, true},
	{models.CombineVertical, false},
	{models.CombineBroadJump, false},
	{models.CombineBenchReps, false},
	{models.CombineThreeCone, true},
	{models.CombineShuttle, true},
}

// conferenceTiers maps conference names to a strength score.
var conferenceTiers = map[string]float64{
	"SEC":      1.0,
	"Big Ten":  1.0,
	"Big 12":   0.9,
	"ACC":      0.9,
	"Pac-12":   0.85,
	"AAC":      0.75,
	"MWC":      0.75,
	"Sun Belt": 0.7,
	"MAC":      0.7,
	"C-USA":    0.7,
	"FCS":      0.6,
}

const defaultConferenceScore = 0.7

// Entry is one ranked candidate with its composite and dimension scores.
type Entry struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Composite   float64   `json:"composite"`
	Production  float64   `json:"production"`
	Athleticism float64   `json:"athleticism"`
	Conference  float64   `json:"conference"`
	Consensus   float64   `json:"consensus"`
}

// Generate ranks the candidate pool by the configured weighted blend, best
// first. Returns the ranked candidate ids; GenerateEntries exposes the
// per-dimension scores.
func Generate(pool []models.Candidate, cfg Config) []uuid.UUID {
	entries := GenerateEntries(pool, cfg)
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.CandidateID
	}
	return ids
}

// GenerateEntries is Generate with the scored entries exposed.
func GenerateEntries(pool []models.Candidate, cfg Config) []Entry {
	filtered := pool
	if cfg.PositionFilter != "" {
		filtered = nil
		for _, c := range pool {
			if c.Position == cfg.PositionFilter {
				filtered = append(filtered, c)
			}
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	weightSum := cfg.Weights.Production + cfg.Weights.Athleticism + cfg.Weights.Conference + cfg.Weights.Consensus

	entries := make([]Entry, 0, len(filtered))
	for _, c := range filtered {
		e := Entry{
			CandidateID: c.ID,
			Production:  productionScore(c, filtered, cfg.StatOverrides),
			Athleticism: athleticismScore(c, filtered),
			Conference:  conferenceScore(c),
			Consensus:   consensusScore(c, len(filtered)),
		}
		if weightSum > 0 {
			e.Composite = (e.Production*cfg.Weights.Production +
				e.Athleticism*cfg.Weights.Athleticism +
				e.Conference*cfg.Weights.Conference +
				e.Consensus*cfg.Weights.Consensus) / weightSum
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Composite > entries[j].Composite
	})
	return entries
}

// productionScore averages the candidate's percentile rank across the
// relevant stat keys. Candidates with none of the keys score a neutral 0.5.
func productionScore(c models.Candidate, pool []models.Candidate, overrides []string) float64 {
	keys := overrides
	if len(keys) == 0 {
		keys = headlineStats[c.Position]
	}
	var total float64
	var counted int
	for _, key := range keys {
		v, ok := c.Stats[key]
		if !ok {
			continue
		}
		total += percentile(v, key, pool, statValue, false)
		counted++
	}
	if counted == 0 {
		return 0.5
	}
	return total / float64(counted)
}

// athleticismScore averages percentile ranks over the six combine
// measurements, inverting timed drills where lower is better.
func athleticismScore(c models.Candidate, pool []models.Candidate) float64 {
	var total float64
	var counted int
	for _, ck := range combineKeys {
		v, ok := c.Combine[ck.key]
		if !ok {
			continue
		}
		total += percentile(v, ck.key, pool, combineValue, ck.lowerIsBetter)
		counted++
	}
	if counted == 0 {
		return 0.5
	}
	return total / float64(counted)
}

func statValue(c models.Candidate, key string) (float64, bool) {
	v, ok := c.Stats[key]
	return v, ok
}

func combineValue(c models.Candidate, key string) (float64, bool) {
	v, ok := c.Combine[key]
	return v, ok
}

// percentile ranks v within the pool's distribution for key, ties counting
// half. Candidates missing the key are excluded from the distribution.
func percentile(v float64, key string, pool []models.Candidate, value func(models.Candidate, string) (float64, bool), lowerIsBetter bool) float64 {
	var below, equal, total int
	for _, other := range pool {
		ov, ok := value(other, key)
		if !ok {
			continue
		}
		total++
		switch {
		case ov < v:
			below++
		case ov == v:
			equal++
		}
	}
	if total == 0 {
		return 0.5
	}
	// The candidate itself counts once in equal; half-weighting ties keeps
	// the score centered.
	p := (float64(below) + float64(equal)/2) / float64(total)
	if lowerIsBetter {
		p = 1 - p
	}
	return p
}

func conferenceScore(c models.Candidate) float64 {
	if c.Conference == nil {
		return defaultConferenceScore
	}
	if tier, ok := conferenceTiers[*c.Conference]; ok {
		return tier
	}
	return defaultConferenceScore
}

// consensusScore maps consensus rank onto [0, 1], best rank scoring 1,
// floored at 0 for ranks beyond the pool size.
func consensusScore(c models.Candidate, poolSize int) float64 {
	if poolSize <= 0 {
		return 0
	}
	s := 1 - float64(c.ConsensusRank-1)/float64(poolSize)
	if s < 0 {
		return 0
	}
	return s
}
