package scoring

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Candidate is one row of the decision matrix: raw attribute values keyed by
// criterion id.
type Candidate struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Attributes map[string]float64 `json:"attributes"`
}

// DecisionMatrix is an ordered, immutable collection of candidates. The
// order is the tie-break order used by the ranker.
type DecisionMatrix struct {
	candidates []Candidate
}

// NewDecisionMatrix copies the candidates and checks their ids. Coverage of
// criteria is checked later against a concrete CriterionSet.
func NewDecisionMatrix(candidates ...Candidate) (DecisionMatrix, error) {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		if c.ID == "" {
			return DecisionMatrix{}, schemaErr("candidate at position %d has no id", i)
		}
		if _, dup := seen[c.ID]; dup {
			return DecisionMatrix{}, &Error{Kind: ErrSchemaMismatch, Candidate: c.ID, Msg: fmt.Sprintf("duplicate candidate id %q", c.ID)}
		}
		seen[c.ID] = struct{}{}

		attrs := make(map[string]float64, len(c.Attributes))
		for k, v := range c.Attributes {
			attrs[k] = v
		}
		out[i] = Candidate{ID: c.ID, Name: c.Name, Attributes: attrs}
	}
	return DecisionMatrix{candidates: out}, nil
}

// Len returns the number of candidates.
func (m DecisionMatrix) Len() int { return len(m.candidates) }

// Candidates returns the candidates in insertion order. Attribute maps are shared; do not mutate.
func (m DecisionMatrix) Candidates() []Candidate {
	out := make([]Candidate, len(m.candidates))
	copy(out, m.candidates)
	return out
}

// dense lays the raw values out as a candidates x criteria matrix, checking
// that every candidate supplies exactly the criteria of the set.
func (m DecisionMatrix) dense(set CriterionSet) (*mat.Dense, error) {
	if set.Len() == 0 {
		return nil, schemaErr("criterion set is empty")
	}
	if len(m.candidates) == 0 {
		return nil, schemaErr("decision matrix is empty")
	}

	criteria := set.criteria
	raw := mat.NewDense(len(m.candidates), len(criteria), nil)
	for i, cand := range m.candidates {
		for j, c := range criteria {
			v, ok := cand.Attributes[c.ID]
			if !ok {
				return nil, &Error{
					Kind:      ErrSchemaMismatch,
					Candidate: cand.ID,
					Criterion: c.ID,
					Msg:       fmt.Sprintf("candidate %q has no value for criterion %q", cand.ID, c.ID),
				}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &Error{
					Kind:      ErrSchemaMismatch,
					Candidate: cand.ID,
					Criterion: c.ID,
					Msg:       fmt.Sprintf("candidate %q has non-finite value for criterion %q", cand.ID, c.ID),
				}
			}
			raw.Set(i, j, v)
		}
		if len(cand.Attributes) != len(criteria) {
			for k := range cand.Attributes {
				if _, known := set.index[k]; !known {
					return nil, &Error{
						Kind:      ErrSchemaMismatch,
						Candidate: cand.ID,
						Criterion: k,
						Msg:       fmt.Sprintf("candidate %q has value for unknown criterion %q", cand.ID, k),
					}
				}
			}
		}
	}
	return raw, nil
}

// NormalizedMatrix holds the per-criterion normalized values of one
// computation. Rows follow the decision matrix order, columns the criterion
// set order.
type NormalizedMatrix struct {
	candidates []Candidate
	criteria   []string
	data       *mat.Dense
}

// CandidateIDs returns the row ids.
func (n *NormalizedMatrix) CandidateIDs() []string {
	ids := make([]string, len(n.candidates))
	for i, c := range n.candidates {
		ids[i] = c.ID
	}
	return ids
}

// CriterionIDs returns the column ids.
func (n *NormalizedMatrix) CriterionIDs() []string {
	out := make([]string, len(n.criteria))
	copy(out, n.criteria)
	return out
}

// Rows returns the number of candidates.
func (n *NormalizedMatrix) Rows() int { return len(n.candidates) }

// Row returns a copy of the normalized values for row i.
func (n *NormalizedMatrix) Row(i int) []float64 {
	return mat.Row(nil, i, n.data)
}

// At returns the normalized value for a candidate/criterion pair.
func (n *NormalizedMatrix) At(candidateID, criterionID string) (float64, bool) {
	col := -1
	for j, id := range n.criteria {
		if id == criterionID {
			col = j
			break
		}
	}
	if col < 0 {
		return 0, false
	}
	for i, c := range n.candidates {
		if c.ID == candidateID {
			return n.data.At(i, col), true
		}
	}
	return 0, false
}

// NormalizedRow is the wire form of one normalized row.
type NormalizedRow struct {
	CandidateID string             `json:"candidate_id"`
	Name        string             `json:"name"`
	Values      map[string]float64 `json:"values"`
}

// Table returns every row keyed by criterion id.
func (n *NormalizedMatrix) Table() []NormalizedRow {
	rows := make([]NormalizedRow, len(n.candidates))
	for i, c := range n.candidates {
		values := make(map[string]float64, len(n.criteria))
		for j, id := range n.criteria {
			values[id] = n.data.At(i, j)
		}
		rows[i] = NormalizedRow{CandidateID: c.ID, Name: c.Name, Values: values}
	}
	return rows
}

func (n *NormalizedMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Criteria []string        `json:"criteria"`
		Rows     []NormalizedRow `json:"rows"`
	}{Criteria: n.criteria, Rows: n.Table()})
}
