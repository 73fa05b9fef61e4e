package scoring

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Normalize rescales every criterion column of the decision matrix to a
// common scale.
//
//	benefit: raw / max(column), or 0 for the whole column when max is 0
//	cost:    min(column) / raw, where any raw value of 0 is a domain error
//
// Raw values must be non-negative. The matrix must be non-empty and cover
// every criterion of the set for every candidate.
func Normalize(m DecisionMatrix, set CriterionSet) (*NormalizedMatrix, error) {
	raw, err := m.dense(set)
	if err != nil {
		return nil, err
	}

	rows, cols := raw.Dims()
	out := mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)

	for j, c := range set.criteria {
		mat.Col(col, j, raw)
		for i, v := range col {
			if v < 0 {
				return nil, &Error{
					Kind:      ErrDomain,
					Candidate: m.candidates[i].ID,
					Criterion: c.ID,
					Msg:       fmt.Sprintf("candidate %q has negative value %v for criterion %q", m.candidates[i].ID, v, c.ID),
				}
			}
		}

		switch c.Direction {
		case Benefit:
			hi := floats.Max(col)
			if hi == 0 {
				// Degenerate column: every candidate scores 0 here.
				continue
			}
			for i, v := range col {
				out.Set(i, j, v/hi)
			}
		case Cost:
			for i, v := range col {
				if v == 0 {
					return nil, &Error{
						Kind:      ErrDomain,
						Candidate: m.candidates[i].ID,
						Criterion: c.ID,
						Msg:       fmt.Sprintf("candidate %q has zero value for cost criterion %q", m.candidates[i].ID, c.ID),
					}
				}
			}
			lo := floats.Min(col)
			for i, v := range col {
				out.Set(i, j, lo/v)
			}
		}
	}

	return &NormalizedMatrix{
		candidates: m.Candidates(),
		criteria:   criterionIDs(set),
		data:       out,
	}, nil
}

func criterionIDs(set CriterionSet) []string {
	ids := make([]string, len(set.criteria))
	for i, c := range set.criteria {
		ids[i] = c.ID
	}
	return ids
}
