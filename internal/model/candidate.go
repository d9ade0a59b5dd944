package model

// Strategy identifies how a match candidate was produced. The set is closed:
// scoring and ranking switch over it exhaustively.
type Strategy string

const (
	StrategyExact           Strategy = "exact"
	StrategyAlias           Strategy = "alias"
	StrategyFuzzy           Strategy = "fuzzy"
	StrategySemantic        Strategy = "semantic"
	StrategyPropertyOverlap Strategy = "property-overlap"
)

// Weight returns the fixed per-strategy scale applied to a raw score.
// Property-overlap carries its ratio in the raw score, so its weight is 1.
func (s Strategy) Weight() float64 {
	switch s {
	case StrategyExact:
		return 1.0
	case StrategyAlias:
		return 0.9
	case StrategyFuzzy:
		return 0.8
	case StrategySemantic:
		return 0.7
	case StrategyPropertyOverlap:
		return 1.0
	default:
		return 0.5
	}
}

// Rank orders strategies for tie-breaking: lower wins.
func (s Strategy) Rank() int {
	switch s {
	case StrategyExact:
		return 0
	case StrategyAlias:
		return 1
	case StrategySemantic:
		return 2
	case StrategyFuzzy:
		return 3
	case StrategyPropertyOverlap:
		return 4
	default:
		return 5
	}
}

// MatchCandidate references a catalog record together with the strategy that
// produced it. It never owns the record and is discarded after ranking.
type MatchCandidate struct {
	Record          *CatalogRecord `json:"record"`
	Strategy        Strategy       `json:"strategy"`
	RawScore        float64        `json:"raw_score"`
	Score           float64        `json:"score"`
	MatchedAlias    string         `json:"matched_alias,omitempty"`
	CatalogPriority int            `json:"-"`
}
