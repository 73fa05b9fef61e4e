package scoring

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeBenefitMaxIsOne(t *testing.T) {
	m := sampleMatrix(t)
	set := DefaultCriterionSet()
	n, err := Normalize(m, set)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	for _, c := range set.Criteria() {
		if c.Direction != Benefit {
			continue
		}
		best, bestID := -1.0, ""
		for _, cand := range m.Candidates() {
			if v := cand.Attributes[c.ID]; v > best {
				best, bestID = v, cand.ID
			}
		}
		got, ok := n.At(bestID, c.ID)
		if !ok || got != 1.0 {
			t.Errorf("%s: expected max holder %s to normalize to exactly 1.0, got %v", c.ID, bestID, got)
		}
	}
}

func TestNormalizeCostMinIsOne(t *testing.T) {
	n, err := Normalize(sampleMatrix(t), DefaultCriterionSet())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	got, ok := n.At("5", CriterionCost)
	if !ok || got != 1.0 {
		t.Errorf("expected cheapest candidate to normalize to exactly 1.0, got %v", got)
	}
	got, _ = n.At("1", CriterionCost)
	if math.Abs(got-7.0/15.0) > 1e-12 {
		t.Errorf("expected 7/15 for most expensive candidate, got %v", got)
	}
}

func TestNormalizeValuesInUnitInterval(t *testing.T) {
	n, err := Normalize(sampleMatrix(t), DefaultCriterionSet())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n.Rows(); i++ {
		for j, v := range n.Row(i) {
			if v <= 0 || v > 1 {
				t.Errorf("row %d col %d: %v outside (0, 1]", i, j, v)
			}
		}
	}
}

func TestNormalizeDegenerateBenefitColumn(t *testing.T) {
	set := MustCriterionSet(
		Criterion{ID: "awards", Direction: Benefit, Weight: 0.5},
		Criterion{ID: "fee", Direction: Cost, Weight: 0.5},
	)
	m, err := NewDecisionMatrix(
		Candidate{ID: "a", Attributes: map[string]float64{"awards": 0, "fee": 10}},
		Candidate{ID: "b", Attributes: map[string]float64{"awards": 0, "fee": 20}},
	)
	if err != nil {
		t.Fatal(err)
	}

	n, err := Normalize(m, set)
	if err != nil {
		t.Fatalf("expected degenerate column to be tolerated, got %v", err)
	}
	for _, id := range []string{"a", "b"} {
		if v, _ := n.At(id, "awards"); v != 0 {
			t.Errorf("%s: expected 0 for all-zero benefit column, got %v", id, v)
		}
	}
	if v, _ := n.At("b", "fee"); v != 0.5 {
		t.Errorf("expected 0.5 for fee, got %v", v)
	}
}

func TestNormalizeSchemaMismatch(t *testing.T) {
	set := DefaultCriterionSet()

	t.Run("missing criterion", func(t *testing.T) {
		candidates := sampleCandidates()
		delete(candidates[1].Attributes, CriterionBrandFit)
		m, _ := NewDecisionMatrix(candidates...)
		_, err := Normalize(m, set)
		var se *Error
		if !errors.As(err, &se) || !errors.Is(err, ErrSchemaMismatch) {
			t.Fatalf("expected schema mismatch, got %v", err)
		}
		if se.Candidate != "2" || se.Criterion != CriterionBrandFit {
			t.Errorf("expected candidate 2 / %s, got %s / %s", CriterionBrandFit, se.Candidate, se.Criterion)
		}
	})

	t.Run("unknown criterion", func(t *testing.T) {
		candidates := sampleCandidates()
		candidates[0].Attributes["C9"] = 1
		m, _ := NewDecisionMatrix(candidates...)
		if _, err := Normalize(m, set); !errors.Is(err, ErrSchemaMismatch) {
			t.Fatalf("expected schema mismatch, got %v", err)
		}
	})

	t.Run("non-finite value", func(t *testing.T) {
		candidates := sampleCandidates()
		candidates[0].Attributes[CriterionFollowers] = math.Inf(1)
		m, _ := NewDecisionMatrix(candidates...)
		if _, err := Normalize(m, set); !errors.Is(err, ErrSchemaMismatch) {
			t.Fatalf("expected schema mismatch, got %v", err)
		}
	})

	t.Run("empty matrix", func(t *testing.T) {
		m, _ := NewDecisionMatrix()
		if _, err := Normalize(m, set); !errors.Is(err, ErrSchemaMismatch) {
			t.Fatalf("expected schema mismatch, got %v", err)
		}
	})

	t.Run("empty criterion set", func(t *testing.T) {
		if _, err := Normalize(sampleMatrix(t), CriterionSet{}); !errors.Is(err, ErrSchemaMismatch) {
			t.Fatalf("expected schema mismatch, got %v", err)
		}
	})
}

func TestNormalizeNegativeValue(t *testing.T) {
	candidates := sampleCandidates()
	candidates[3].Attributes[CriterionExperience] = -1
	m, _ := NewDecisionMatrix(candidates...)
	if _, err := Normalize(m, DefaultCriterionSet()); !errors.Is(err, ErrDomain) {
		t.Fatalf("expected ErrDomain for negative value, got %v", err)
	}
}

func TestNewDecisionMatrixRejectsDuplicateIDs(t *testing.T) {
	_, err := NewDecisionMatrix(Candidate{ID: "x"}, Candidate{ID: "x"})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
	_, err = NewDecisionMatrix(Candidate{})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch for empty id, got %v", err)
	}
}

func TestNewDecisionMatrixCopiesAttributes(t *testing.T) {
	candidates := sampleCandidates()
	m, _ := NewDecisionMatrix(candidates...)
	candidates[0].Attributes[CriterionFollowers] = 1

	n, err := Normalize(m, DefaultCriterionSet())
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := n.At("1", CriterionFollowers); v != 1.0 {
		t.Errorf("matrix must not observe caller mutation, got %v", v)
	}
}

func TestNormalizedMatrixTable(t *testing.T) {
	n, err := Normalize(sampleMatrix(t), DefaultCriterionSet())
	if err != nil {
		t.Fatal(err)
	}
	rows := n.Table()
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[0].Name != "Sarah Fashion" || rows[0].Values[CriterionEngagement] != 1.0 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if _, ok := n.At("nobody", CriterionCost); ok {
		t.Error("expected lookup of unknown candidate to fail")
	}
}
