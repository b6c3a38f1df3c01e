package analytics

import (
	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
)

// Label classifies a single pick's value against consensus.
type Label string

const (
	LabelGreatValue  Label = "GREAT_VALUE"
	LabelGoodValue   Label = "GOOD_VALUE"
	LabelFair        Label = "FAIR"
	LabelSlightReach Label = "SLIGHT_REACH"
	LabelReach       Label = "REACH"
	LabelBigReach    Label = "BIG_REACH"
)

// Tier labels a team's overall draft grade.
type Tier string

const (
	TierElite        Tier = "ELITE"
	TierGreat        Tier = "GREAT"
	TierGood         Tier = "GOOD"
	TierSolid        Tier = "SOLID"
	TierAverage      Tier = "AVERAGE"
	TierBelowAverage Tier = "BELOW_AVERAGE"
	TierPoor         Tier = "POOR"
	TierUndrafted    Tier = "UNDRAFTED"
)

// PickGrade is the per-pick grading output.
type PickGrade struct {
	Overall              int             `json:"overall"`
	CandidateID          uuid.UUID       `json:"candidate_id"`
	Position             models.Position `json:"position"`
	ConsensusRank        int             `json:"consensus_rank"`
	ValueDelta           int             `json:"value_delta"` // overall minus consensus rank
	Score                float64         `json:"score"`       // 0-100 composite
	Label                Label           `json:"label"`
	NeedIndex            int             `json:"need_index"` // -1 when no need matched
	BetterAvailable      bool            `json:"better_available"`
	SurplusValue         float64         `json:"surplus_value"`
	PositionalMultiplier float64         `json:"positional_multiplier"`
	BoardDelta           *int            `json:"board_delta,omitempty"` // overall minus board rank
}

// SubScores are a team's five 0-100 grading dimensions.
type SubScores struct {
	Value        float64 `json:"value"`
	Positional   float64 `json:"positional"`
	Surplus      float64 `json:"surplus"`
	NeedsFilled  float64 `json:"needs_filled"`
	BPAAdherence float64 `json:"bpa_adherence"`
}

// TeamDraftGrade aggregates a team's pick grades.
type TeamDraftGrade struct {
	Team          string      `json:"team"`
	SubScores     SubScores   `json:"sub_scores"`
	Overall       int         `json:"overall"`
	Tier          Tier        `json:"tier"`
	NetTradeValue float64     `json:"net_trade_value"`
	Highlights    []string    `json:"highlights,omitempty"`
	Picks         []PickGrade `json:"picks"`
}

// TradeAnalysis summarizes one accepted trade's value exchange. Winner is
// empty when the trade graded even.
type TradeAnalysis struct {
	TradeID        uuid.UUID `json:"trade_id"`
	ProposerTeam   string    `json:"proposer_team"`
	RecipientTeam  string    `json:"recipient_team"`
	ProposerValue  float64   `json:"proposer_value"`  // value the proposer acquired
	RecipientValue float64   `json:"recipient_value"` // value the recipient acquired
	NetValue       float64   `json:"net_value"`       // proposer acquired minus surrendered
	Even           bool      `json:"even"`
	Winner         string    `json:"winner,omitempty"`
}

// BaselineEntry pairs an actual pick with the strict best-player-available
// counterfactual at the same slot.
type BaselineEntry struct {
	Overall     int       `json:"overall"`
	ActualID    uuid.UUID `json:"actual_id"`
	ActualRank  int       `json:"actual_rank"`
	OptimalID   uuid.UUID `json:"optimal_id"`
	OptimalRank int       `json:"optimal_rank"`
	FollowedBPA bool      `json:"followed_bpa"`
}

// DraftRecap is the full post-draft grading output.
type DraftRecap struct {
	TeamGrades        []TeamDraftGrade `json:"team_grades"` // sorted by overall, descending
	OverallClassGrade int              `json:"overall_class_grade"`
	TradeAnalysis     []TradeAnalysis  `json:"trade_analysis,omitempty"`
	Baseline          []BaselineEntry  `json:"baseline"`
}

// Suggestion is the live advisory output: the best candidate for the slot
// with the dimension that carried the recommendation.
type Suggestion struct {
	Candidate     models.Candidate `json:"candidate"`
	Score         float64          `json:"score"`
	Justification string           `json:"justification"`
}
