package scoring

import (
	"log/slog"
	"time"
)

// Ranking is the full output of one SAW computation.
type Ranking struct {
	Candidates    []ScoredCandidate `json:"candidates"`
	Normalized    *NormalizedMatrix `json:"normalized"`
	Criteria      []Criterion       `json:"criteria"`
	TierThreshold float64           `json:"tier_threshold"`
}

// Top returns the first-ranked candidate, if any.
func (r *Ranking) Top() (ScoredCandidate, bool) {
	if r == nil || len(r.Candidates) == 0 {
		return ScoredCandidate{}, false
	}
	return r.Candidates[0], true
}

// ComputeRanking runs the SAW pipeline: weight validation, normalization,
// weighted aggregation and ranking. It is a pure function of its inputs and
// safe to call concurrently. An empty decision matrix yields an empty
// ranking once the criterion set itself has been validated.
func ComputeRanking(m DecisionMatrix, set CriterionSet, cfg RankConfig) (*Ranking, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := set.Err(); err != nil {
		return nil, err
	}

	if m.Len() == 0 {
		return &Ranking{
			Candidates:    []ScoredCandidate{},
			Normalized:    &NormalizedMatrix{criteria: criterionIDs(set)},
			Criteria:      set.Criteria(),
			TierThreshold: cfg.TierThreshold,
		}, nil
	}

	normalized, err := Normalize(m, set)
	if err != nil {
		return nil, err
	}
	scored, err := Aggregate(normalized, set)
	if err != nil {
		return nil, err
	}

	return &Ranking{
		Candidates:    Rank(scored, cfg),
		Normalized:    normalized,
		Criteria:      set.Criteria(),
		TierThreshold: cfg.TierThreshold,
	}, nil
}

// Engine wraps ComputeRanking with a fixed ranking policy and optional
// Pareto annotation.
type Engine struct {
	cfg           RankConfig
	paretoEnabled bool
	logger        *slog.Logger
}

// NewEngine creates an Engine with the given policy.
func NewEngine(cfg RankConfig, paretoEnabled bool, logger *slog.Logger) *Engine {
	return &Engine{cfg: cfg, paretoEnabled: paretoEnabled, logger: logger}
}

// Config returns the engine's ranking policy.
func (e *Engine) Config() RankConfig { return e.cfg }

// Compute ranks the matrix with the engine's policy.
func (e *Engine) Compute(m DecisionMatrix, set CriterionSet) (*Ranking, error) {
	return e.ComputeWith(m, set, e.cfg)
}

// ComputeWith ranks the matrix with an explicit policy.
func (e *Engine) ComputeWith(m DecisionMatrix, set CriterionSet, cfg RankConfig) (*Ranking, error) {
	start := time.Now()
	r, err := ComputeRanking(m, set, cfg)
	if err != nil {
		e.logger.Debug("ranking failed", "candidates", m.Len(), "kind", KindName(err), "error", err)
		return nil, err
	}

	if e.paretoEnabled && len(r.Candidates) > 0 {
		annotatePareto(r)
	}

	e.logger.Debug("ranking computed",
		"candidates", len(r.Candidates),
		"criteria", len(r.Criteria),
		"duration_us", time.Since(start).Microseconds(),
	)
	return r, nil
}

func annotatePareto(r *Ranking) {
	optimal := ParetoOptimal(r.Normalized)
	byID := make(map[string]bool, len(optimal))
	for i, id := range r.Normalized.CandidateIDs() {
		byID[id] = optimal[i]
	}
	for i := range r.Candidates {
		v := byID[r.Candidates[i].ID]
		r.Candidates[i].ParetoOptimal = &v
	}
}
