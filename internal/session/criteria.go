package session

import (
	"context"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/Endorse/internal/hermes"
	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

// CriteriaView is the criteria set plus its weight validation.
type CriteriaView struct {
	Criteria   []*store.Criterion `json:"criteria"`
	Validation scoring.Validation `json:"validation"`
	Message    string             `json:"message"`
}

func (s *Service) Criteria(ctx context.Context) (*CriteriaView, error) {
	records, err := s.store.GetCriteria(ctx)
	if err != nil {
		return nil, fmt.Errorf("load criteria: %w", err)
	}
	set, err := toCriterionSet(records)
	if err != nil {
		return nil, err
	}
	v := set.Validate()
	return &CriteriaView{Criteria: records, Validation: v, Message: v.Message()}, nil
}

// ReplaceCriteria stores a new criteria set. Ids, directions and weight
// ranges must be valid; weights that do not sum to 1.0 are accepted and only
// rejected when a ranking is computed.
func (s *Service) ReplaceCriteria(ctx context.Context, records []*store.Criterion) (*CriteriaView, error) {
	set, err := toCriterionSet(records)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceCriteria(ctx, records); err != nil {
		return nil, fmt.Errorf("save criteria: %w", err)
	}
	s.metrics.Mutations.WithLabelValues("criteria", "replace").Inc()
	s.criteriaChanged(set)
	return s.Criteria(ctx)
}

// UpdateWeight changes one criterion's weight.
func (s *Service) UpdateWeight(ctx context.Context, id string, weight float64) (*CriteriaView, error) {
	records, err := s.store.GetCriteria(ctx)
	if err != nil {
		return nil, fmt.Errorf("load criteria: %w", err)
	}
	found := false
	for _, c := range records {
		if c.ID == id {
			c.Weight = weight
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("criterion %q: %w", id, store.ErrNotFound)
	}
	return s.ReplaceCriteria(ctx, records)
}

// NormalizeWeights rescales the weights so they sum to 1.0.
func (s *Service) NormalizeWeights(ctx context.Context) (*CriteriaView, error) {
	records, err := s.store.GetCriteria(ctx)
	if err != nil {
		return nil, fmt.Errorf("load criteria: %w", err)
	}
	set, err := toCriterionSet(records)
	if err != nil {
		return nil, err
	}
	normalized, err := set.NormalizeWeights()
	if err != nil {
		return nil, err
	}
	weights := normalized.Weights()
	for i, c := range records {
		c.Weight = weights[i]
	}
	return s.ReplaceCriteria(ctx, records)
}

// ResetCriteria restores the configured default criteria.
func (s *Service) ResetCriteria(ctx context.Context) (*CriteriaView, error) {
	return s.ReplaceCriteria(ctx, s.defaultCriteria())
}

// EnsureCriteria seeds the configured defaults into an empty store.
func (s *Service) EnsureCriteria(ctx context.Context) error {
	records, err := s.store.GetCriteria(ctx)
	if err != nil {
		return fmt.Errorf("load criteria: %w", err)
	}
	if len(records) > 0 {
		return nil
	}
	if err := s.store.ReplaceCriteria(ctx, s.defaultCriteria()); err != nil {
		return fmt.Errorf("seed criteria: %w", err)
	}
	s.logger.Info("seeded default criteria", "count", len(s.cfg.Criteria))
	return nil
}

func (s *Service) defaultCriteria() []*store.Criterion {
	out := make([]*store.Criterion, len(s.cfg.Criteria))
	for i, c := range s.cfg.Criteria {
		out[i] = &store.Criterion{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Unit:        c.Unit,
			Direction:   c.Direction,
			Weight:      c.Weight,
			Position:    i,
		}
	}
	return out
}

func (s *Service) criteriaChanged(set scoring.CriterionSet) {
	v := set.Validate()
	s.metrics.WeightSum.Set(v.Sum)
	weights := make([]hermes.CriterionWeight, 0, set.Len())
	for _, c := range set.Criteria() {
		weights = append(weights, hermes.CriterionWeight{ID: c.ID, Direction: string(c.Direction), Weight: c.Weight})
	}
	s.publish(hermes.SubjectCriteriaUpdated, hermes.CriteriaUpdatedEvent{
		Criteria:  weights,
		WeightSum: v.Sum,
		Valid:     v.Valid,
		Timestamp: time.Now().UTC(),
	})
	s.MarkDirty()
}

func toCriterionSet(records []*store.Criterion) (scoring.CriterionSet, error) {
	criteria := make([]scoring.Criterion, len(records))
	for i, r := range records {
		dir, err := scoring.ParseDirection(r.Direction)
		if err != nil {
			return scoring.CriterionSet{}, &scoring.Error{Kind: scoring.ErrSchemaMismatch, Criterion: r.ID, Msg: err.Error()}
		}
		criteria[i] = scoring.Criterion{ID: r.ID, Name: r.Name, Direction: dir, Weight: r.Weight}
	}
	return scoring.NewCriterionSet(criteria...)
}
