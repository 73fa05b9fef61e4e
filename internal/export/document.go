package export

import (
	"encoding/json"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

type document struct {
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	Ranking     *rankingSection  `json:"ranking,omitempty" yaml:"ranking,omitempty"`
	Criteria    *criteriaSection `json:"criteria,omitempty" yaml:"criteria,omitempty"`
	Summary     *summarySection  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Analysis    *analysisSection `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

type rankingRow struct {
	Rank          int     `json:"rank" yaml:"rank"`
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Score         float64 `json:"score" yaml:"score"`
	Tier          string  `json:"tier" yaml:"tier"`
	TierLabel     string  `json:"tier_label" yaml:"tier_label"`
	ParetoOptimal *bool   `json:"pareto_optimal,omitempty" yaml:"pareto_optimal,omitempty"`
}

type rankingSection struct {
	TierThreshold float64      `json:"tier_threshold" yaml:"tier_threshold"`
	Rows          []rankingRow `json:"rows" yaml:"rows"`
}

type criteriaSection struct {
	Criteria  []*store.Criterion `json:"items" yaml:"items"`
	WeightSum float64            `json:"weight_sum" yaml:"weight_sum"`
	Valid     bool               `json:"valid" yaml:"valid"`
	Message   string             `json:"message" yaml:"message"`
}

type topEntry struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Score float64 `json:"score" yaml:"score"`
}

type summarySection struct {
	Influencers   int            `json:"influencers" yaml:"influencers"`
	Ranked        int            `json:"ranked" yaml:"ranked"`
	Criteria      int            `json:"criteria" yaml:"criteria"`
	WeightSum     float64        `json:"weight_sum" yaml:"weight_sum"`
	TierThreshold float64        `json:"tier_threshold" yaml:"tier_threshold"`
	Top           *topEntry      `json:"top,omitempty" yaml:"top,omitempty"`
	Recommended   []topEntry     `json:"recommended" yaml:"recommended"`
	Tiers         map[string]int `json:"tiers" yaml:"tiers"`
}

type analysisSection struct {
	Normalized *scoring.NormalizedMatrix `json:"normalized" yaml:"-"`
	Candidates []scoring.ScoredCandidate `json:"candidates" yaml:"-"`
}

func buildDocument(rep Report, kinds []Kind) document {
	doc := document{GeneratedAt: rep.GeneratedAt.UTC()}
	for _, k := range kinds {
		switch k {
		case KindRanking:
			doc.Ranking = buildRanking(rep)
		case KindCriteria:
			doc.Criteria = &criteriaSection{
				Criteria:  rep.Criteria,
				WeightSum: rep.Validation.Sum,
				Valid:     rep.Validation.Valid,
				Message:   rep.Validation.Message(),
			}
		case KindSummary:
			doc.Summary = buildSummary(rep)
		case KindAnalysis:
			doc.Analysis = &analysisSection{Normalized: rep.Ranking.Normalized, Candidates: rep.Ranking.Candidates}
		}
	}
	return doc
}

func buildRanking(rep Report) *rankingSection {
	rows := make([]rankingRow, len(rep.Ranking.Candidates))
	for i, c := range rep.Ranking.Candidates {
		rows[i] = rankingRow{
			Rank:          c.Rank,
			ID:            c.ID,
			Name:          c.Name,
			Score:         c.Score,
			Tier:          string(c.Tier),
			TierLabel:     c.Tier.Label(),
			ParetoOptimal: c.ParetoOptimal,
		}
	}
	return &rankingSection{TierThreshold: rep.Ranking.TierThreshold, Rows: rows}
}

func buildSummary(rep Report) *summarySection {
	s := &summarySection{
		Influencers:   rep.Influencers,
		Ranked:        len(rep.Ranking.Candidates),
		Criteria:      len(rep.Criteria),
		WeightSum:     rep.Validation.Sum,
		TierThreshold: rep.Ranking.TierThreshold,
		Recommended:   []topEntry{},
		Tiers:         map[string]int{},
	}
	for _, t := range scoring.Tiers() {
		s.Tiers[string(t)] = 0
	}
	for _, c := range rep.Ranking.Candidates {
		s.Tiers[string(c.Tier)]++
		if c.Tier == scoring.TierHighlyRecommended || c.Tier == scoring.TierRecommended {
			s.Recommended = append(s.Recommended, topEntry{ID: c.ID, Name: c.Name, Score: c.Score})
		}
	}
	if top, ok := rep.Ranking.Top(); ok {
		s.Top = &topEntry{ID: top.ID, Name: top.Name, Score: top.Score}
	}
	return s
}

func renderJSON(w io.Writer, doc document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func renderYAML(w io.Writer, doc document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
