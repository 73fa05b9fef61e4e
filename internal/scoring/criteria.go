package scoring

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// WeightTolerance is the maximum allowed deviation of a weight sum from 1.0.
const WeightTolerance = 1e-3

// Direction says whether higher or lower raw values are preferable.
type Direction string

const (
	Benefit Direction = "benefit"
	Cost    Direction = "cost"
)

// ParseDirection accepts "benefit" or "cost" in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Benefit:
		return Benefit, nil
	case Cost:
		return Cost, nil
	}
	return "", fmt.Errorf("unknown direction %q (want benefit or cost)", s)
}

// Criterion is one evaluation dimension of the decision matrix.
type Criterion struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Direction Direction `json:"direction"`
	Weight    float64   `json:"weight"`
}

// CriterionSet is an immutable, ordered set of criteria. Construct it with
// NewCriterionSet; the zero value is an empty set.
type CriterionSet struct {
	criteria []Criterion
	index    map[string]int
}

// NewCriterionSet checks ids, directions and weight ranges. It does not
// require the weights to sum to 1.0; use Validate for that.
func NewCriterionSet(criteria ...Criterion) (CriterionSet, error) {
	set := CriterionSet{
		criteria: make([]Criterion, len(criteria)),
		index:    make(map[string]int, len(criteria)),
	}
	for i, c := range criteria {
		if c.ID == "" {
			return CriterionSet{}, schemaErr("criterion at position %d has no id", i)
		}
		if _, dup := set.index[c.ID]; dup {
			return CriterionSet{}, &Error{Kind: ErrSchemaMismatch, Criterion: c.ID, Msg: fmt.Sprintf("duplicate criterion id %q", c.ID)}
		}
		if c.Direction != Benefit && c.Direction != Cost {
			return CriterionSet{}, &Error{Kind: ErrSchemaMismatch, Criterion: c.ID, Msg: fmt.Sprintf("criterion %q has unknown direction %q", c.ID, c.Direction)}
		}
		if math.IsNaN(c.Weight) || c.Weight < 0 || c.Weight > 1 {
			return CriterionSet{}, &Error{Kind: ErrConfiguration, Criterion: c.ID, Msg: fmt.Sprintf("criterion %q weight %v outside [0, 1]", c.ID, c.Weight)}
		}
		set.criteria[i] = c
		set.index[c.ID] = i
	}
	return set, nil
}

// MustCriterionSet is NewCriterionSet for static, known-good input.
func MustCriterionSet(criteria ...Criterion) CriterionSet {
	set, err := NewCriterionSet(criteria...)
	if err != nil {
		panic(err)
	}
	return set
}

// Len returns the number of criteria.
func (s CriterionSet) Len() int { return len(s.criteria) }

// Criteria returns a copy of the criteria in order.
func (s CriterionSet) Criteria() []Criterion {
	out := make([]Criterion, len(s.criteria))
	copy(out, s.criteria)
	return out
}

// Get looks up a criterion by id.
func (s CriterionSet) Get(id string) (Criterion, bool) {
	i, ok := s.index[id]
	if !ok {
		return Criterion{}, false
	}
	return s.criteria[i], true
}

// Weights returns the weight vector in criterion order.
func (s CriterionSet) Weights() []float64 {
	w := make([]float64, len(s.criteria))
	for i, c := range s.criteria {
		w[i] = c.Weight
	}
	return w
}

// Sum returns the total of all weights.
func (s CriterionSet) Sum() float64 {
	return floats.Sum(s.Weights())
}

// Validation is the outcome of CriterionSet.Validate.
type Validation struct {
	Valid bool    `json:"valid"`
	Sum   float64 `json:"sum"`
}

// Validate checks that the weights sum to 1.0 within WeightTolerance.
func (s CriterionSet) Validate() Validation {
	sum := s.Sum()
	return Validation{Valid: math.Abs(sum-1.0) < WeightTolerance, Sum: sum}
}

// Message renders the validation as an actionable sentence.
func (v Validation) Message() string {
	if v.Valid {
		return fmt.Sprintf("weights sum to %.1f%%", v.Sum*100)
	}
	return fmt.Sprintf("weights sum to %.1f%%, adjust them to 100%%", v.Sum*100)
}

// Err returns an ErrInvalidConfiguration error when the set is not valid.
func (s CriterionSet) Err() error {
	v := s.Validate()
	if v.Valid {
		return nil
	}
	return &Error{Kind: ErrInvalidConfiguration, Sum: v.Sum, Msg: v.Message()}
}

// NormalizeWeights returns a copy of the set with every weight scaled by
// 1/sum so the weights sum to 1.0. An all-zero weight vector cannot be
// normalized and yields ErrConfiguration.
func (s CriterionSet) NormalizeWeights() (CriterionSet, error) {
	w := s.Weights()
	sum := floats.Sum(w)
	if sum == 0 {
		return s, &Error{Kind: ErrConfiguration, Msg: "cannot normalize weights that are all zero"}
	}
	floats.Scale(1/sum, w)

	out := CriterionSet{
		criteria: s.Criteria(),
		index:    make(map[string]int, len(s.criteria)),
	}
	for i := range out.criteria {
		out.criteria[i].Weight = w[i]
		out.index[out.criteria[i].ID] = i
	}
	return out, nil
}
