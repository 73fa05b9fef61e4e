package scoring

import (
	"fmt"
	"math"
	"sort"
)

// DefaultTierThreshold is the minimum score for the third recommendation tier.
const DefaultTierThreshold = 0.6

// Tier is a recommendation bucket derived from rank and score.
type Tier string

const (
	TierHighlyRecommended Tier = "highly_recommended"
	TierRecommended       Tier = "recommended"
	TierFairlyRecommended Tier = "fairly_recommended"
	TierNotRecommended    Tier = "not_recommended"
)

// Tiers lists every tier from best to worst.
func Tiers() []Tier {
	return []Tier{TierHighlyRecommended, TierRecommended, TierFairlyRecommended, TierNotRecommended}
}

// Label returns the human-readable tier name.
func (t Tier) Label() string {
	switch t {
	case TierHighlyRecommended:
		return "Highly recommended"
	case TierRecommended:
		return "Recommended"
	case TierFairlyRecommended:
		return "Fairly recommended"
	case TierNotRecommended:
		return "Not recommended"
	default:
		return string(t)
	}
}

// RankConfig holds the ranking policy parameters.
type RankConfig struct {
	TierThreshold float64 `json:"tier_threshold" yaml:"tier_threshold"`
}

// DefaultRankConfig returns the default ranking policy.
func DefaultRankConfig() RankConfig {
	return RankConfig{TierThreshold: DefaultTierThreshold}
}

// Validate checks that the tier threshold lies in [0, 1].
func (c RankConfig) Validate() error {
	if math.IsNaN(c.TierThreshold) || c.TierThreshold < 0 || c.TierThreshold > 1 {
		return &Error{Kind: ErrConfiguration, Msg: fmt.Sprintf("tier threshold %v outside [0, 1]", c.TierThreshold)}
	}
	return nil
}

// AssignTier maps a 1-based rank and a score to a tier:
//
//	rank 1                    -> highly recommended
//	rank 2-3                  -> recommended
//	score >= threshold        -> fairly recommended
//	otherwise                 -> not recommended
func AssignTier(rank int, score, threshold float64) Tier {
	switch {
	case rank == 1:
		return TierHighlyRecommended
	case rank <= 3:
		return TierRecommended
	case score >= threshold:
		return TierFairlyRecommended
	default:
		return TierNotRecommended
	}
}

// Rank orders candidates by descending score and assigns rank and tier.
// Equal scores (exact float equality) keep their input order. The input
// slice is not modified.
func Rank(scored []ScoredCandidate, cfg RankConfig) []ScoredCandidate {
	out := make([]ScoredCandidate, len(scored))
	copy(out, scored)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	for i := range out {
		out[i].Rank = i + 1
		out[i].Tier = AssignTier(out[i].Rank, out[i].Score, cfg.TierThreshold)
	}
	return out
}
