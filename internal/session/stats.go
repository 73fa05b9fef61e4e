package session

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

type CriterionStats struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Direction string  `json:"direction"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// Stats is the dashboard view of the session.
type Stats struct {
	Influencers    int              `json:"influencers"`
	Criteria       []CriterionStats `json:"criteria"`
	WeightSum      float64          `json:"weight_sum"`
	WeightsValid   bool             `json:"weights_valid"`
	TopCandidateID string           `json:"top_candidate_id,omitempty"`
	TopCandidate   string           `json:"top_candidate,omitempty"`
	TopScore       *float64         `json:"top_score,omitempty"`
	Tiers          map[string]int   `json:"tiers"`
	LastComputedAt *time.Time       `json:"last_computed_at,omitempty"`
}

// Stats summarizes raw attribute values per criterion and the latest ranking.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	view, err := s.Criteria(ctx)
	if err != nil {
		return nil, err
	}
	influencers, err := s.store.ListInfluencers(ctx, store.InfluencerFilter{})
	if err != nil {
		return nil, fmt.Errorf("load influencers: %w", err)
	}

	out := &Stats{
		Influencers:  len(influencers),
		Criteria:     make([]CriterionStats, 0, len(view.Criteria)),
		WeightSum:    view.Validation.Sum,
		WeightsValid: view.Validation.Valid,
		Tiers:        map[string]int{},
	}
	for _, c := range view.Criteria {
		values := make([]float64, 0, len(influencers))
		for _, inf := range influencers {
			if v, ok := inf.Attributes[c.ID]; ok {
				values = append(values, v)
			}
		}
		cs := CriterionStats{ID: c.ID, Name: c.Name, Direction: c.Direction, Count: len(values)}
		if len(values) > 0 {
			cs.Mean, cs.StdDev = stat.PopMeanStdDev(values, nil)
			cs.Min = floats.Min(values)
			cs.Max = floats.Max(values)
		}
		out.Criteria = append(out.Criteria, cs)
	}

	for _, t := range scoring.Tiers() {
		out.Tiers[string(t)] = 0
	}
	if res, ok := s.Latest(); ok {
		at := res.ComputedAt
		out.LastComputedAt = &at
		for _, c := range res.Ranking.Candidates {
			out.Tiers[string(c.Tier)]++
		}
		if top, ok := res.Ranking.Top(); ok {
			score := top.Score
			out.TopCandidateID = top.ID
			out.TopCandidate = top.Name
			out.TopScore = &score
		}
	}
	return out, nil
}
