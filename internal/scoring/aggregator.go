package scoring

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// FactorResult captures one criterion's contribution to a candidate's score.
type FactorResult struct {
	Criterion  string  `json:"criterion"`
	Normalized float64 `json:"normalized"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
}

// ScoredCandidate is one entry of a ranking. Rank and Tier are zero until
// the candidate passes through Rank.
type ScoredCandidate struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Score         float64        `json:"score"`
	Rank          int            `json:"rank"`
	Tier          Tier           `json:"tier"`
	Factors       []FactorResult `json:"factors"`
	ParetoOptimal *bool          `json:"pareto_optimal,omitempty"`
}

// Aggregate computes the weighted sum of normalized values for every
// candidate. The criterion set must be valid and must describe the same
// columns as the normalized matrix.
func Aggregate(n *NormalizedMatrix, set CriterionSet) ([]ScoredCandidate, error) {
	if err := set.Err(); err != nil {
		return nil, err
	}
	if len(n.criteria) != set.Len() {
		return nil, schemaErr("normalized matrix has %d criteria, criterion set has %d", len(n.criteria), set.Len())
	}
	for j, id := range n.criteria {
		if set.criteria[j].ID != id {
			return nil, &Error{Kind: ErrSchemaMismatch, Criterion: id, Msg: fmt.Sprintf("column %d is %q, criterion set has %q", j, id, set.criteria[j].ID)}
		}
	}

	weights := set.Weights()
	weighted := make([]float64, len(weights))
	out := make([]ScoredCandidate, 0, len(n.candidates))

	for i, cand := range n.candidates {
		row := n.Row(i)
		floats.MulTo(weighted, row, weights)

		factors := make([]FactorResult, len(row))
		for j := range row {
			factors[j] = FactorResult{
				Criterion:  n.criteria[j],
				Normalized: row[j],
				Weight:     weights[j],
				Weighted:   weighted[j],
			}
		}

		out = append(out, ScoredCandidate{
			ID:      cand.ID,
			Name:    cand.Name,
			Score:   floats.Sum(weighted),
			Factors: factors,
		})
	}
	return out, nil
}
