package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Endorse/internal/config"
	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

// Dataset is the file format read by every subcommand. Criteria fall back to
// the built-in fashion campaign defaults when omitted.
type Dataset struct {
	TierThreshold *float64            `yaml:"tier_threshold,omitempty"`
	Criteria      []*store.Criterion  `yaml:"criteria"`
	Influencers   []DatasetInfluencer `yaml:"influencers"`
}

type DatasetInfluencer struct {
	ID         string             `yaml:"id,omitempty"`
	Name       string             `yaml:"name"`
	Category   string             `yaml:"category,omitempty"`
	Attributes map[string]float64 `yaml:"attributes"`
}

func loadDataset(path string) (*Dataset, error) {
	if path == "" {
		return nil, errors.New("no dataset given: pass one with -f <file.yaml>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if len(ds.Criteria) == 0 {
		for _, c := range config.DefaultCriteria() {
			ds.Criteria = append(ds.Criteria, &store.Criterion{
				ID:          c.ID,
				Name:        c.Name,
				Description: c.Description,
				Unit:        c.Unit,
				Direction:   c.Direction,
				Weight:      c.Weight,
			})
		}
	}
	for i := range ds.Influencers {
		if ds.Influencers[i].ID == "" {
			ds.Influencers[i].ID = fmt.Sprintf("I%d", i+1)
		}
	}
	return &ds, nil
}

func (ds *Dataset) criterionSet() (scoring.CriterionSet, error) {
	criteria := make([]scoring.Criterion, len(ds.Criteria))
	for i, c := range ds.Criteria {
		dir, err := scoring.ParseDirection(c.Direction)
		if err != nil {
			return scoring.CriterionSet{}, &scoring.Error{Kind: scoring.ErrSchemaMismatch, Criterion: c.ID, Msg: err.Error()}
		}
		criteria[i] = scoring.Criterion{ID: c.ID, Name: c.Name, Direction: dir, Weight: c.Weight}
	}
	return scoring.NewCriterionSet(criteria...)
}

func (ds *Dataset) matrix() (scoring.DecisionMatrix, error) {
	candidates := make([]scoring.Candidate, len(ds.Influencers))
	for i, inf := range ds.Influencers {
		candidates[i] = scoring.Candidate{ID: inf.ID, Name: inf.Name, Attributes: inf.Attributes}
	}
	return scoring.NewDecisionMatrix(candidates...)
}

// threshold resolves the tier threshold: flag, then dataset, then default.
func (ds *Dataset) threshold(flag *float64) float64 {
	switch {
	case flag != nil:
		return *flag
	case ds.TierThreshold != nil:
		return *ds.TierThreshold
	default:
		return scoring.DefaultTierThreshold
	}
}

// explain adds a next step to scoring failures.
func explain(err error) error {
	var se *scoring.Error
	if !errors.As(err, &se) {
		return err
	}
	var hint string
	switch {
	case errors.Is(err, scoring.ErrInvalidConfiguration):
		hint = "adjust the weights or run `endorsectl normalize`"
	case errors.Is(err, scoring.ErrDomain):
		hint = "cost criteria need strictly positive values and no value may be negative"
	case errors.Is(err, scoring.ErrSchemaMismatch):
		hint = "every influencer needs a value for every criterion"
	case errors.Is(err, scoring.ErrConfiguration):
		hint = "weights and the tier threshold must lie in [0, 1]"
	}
	if hint == "" {
		return fmt.Errorf("%s: %s", se.KindName(), se.Msg)
	}
	return fmt.Errorf("%s: %s (%s)", se.KindName(), se.Msg, hint)
}
