package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Endorse/internal/hermes"
	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

const (
	TriggerAPI       = "api"
	TriggerRecompute = "recompute"
	TriggerExport    = "export"
)

// Result is one completed ranking together with its provenance.
type Result struct {
	RunID      uuid.UUID        `json:"run_id"`
	Generation uint64           `json:"generation"`
	ComputedAt time.Time        `json:"computed_at"`
	Ranking    *scoring.Ranking `json:"ranking"`
}

type RankOptions struct {
	// TierThreshold overrides the configured threshold for this call only.
	// Results computed with an override are not cached as the latest ranking.
	TierThreshold *float64
	Trigger       string
}

// Rank snapshots the session, runs the SAW pipeline and records the run.
func (s *Service) Rank(ctx context.Context, opts RankOptions) (*Result, error) {
	if opts.Trigger == "" {
		opts.Trigger = TriggerAPI
	}
	gen := s.generation.Load()
	start := time.Now()
	run := store.Run{ID: uuid.New(), Trigger: opts.Trigger, StartedAt: start.UTC()}

	m, set, err := s.snapshot(ctx)
	if err != nil {
		s.recordFailure(run, start, err)
		return nil, err
	}
	run.Candidates = m.Len()
	run.WeightSum = set.Sum()
	s.metrics.WeightSum.Set(run.WeightSum)

	cfg := s.engine.Config()
	if opts.TierThreshold != nil {
		cfg.TierThreshold = *opts.TierThreshold
	}
	ranking, err := s.engine.ComputeWith(m, set, cfg)
	if err != nil {
		s.recordFailure(run, start, err)
		return nil, err
	}

	elapsed := time.Since(start)
	run.DurationMs = float64(elapsed.Microseconds()) / 1000
	if top, ok := ranking.Top(); ok {
		score := top.Score
		run.TopCandidate = top.Name
		run.TopScore = &score
	}
	s.runs.Append(run)
	s.metrics.Rankings.WithLabelValues("ok").Inc()
	s.metrics.RankingDuration.Observe(elapsed.Seconds())
	s.metrics.Candidates.Set(float64(len(ranking.Candidates)))

	res := &Result{RunID: run.ID, Generation: gen, ComputedAt: run.StartedAt, Ranking: ranking}
	if opts.TierThreshold == nil {
		s.cache(res)
	}

	s.publish(hermes.SubjectRankingComputed, hermes.RankingComputedEvent{
		RunID:         run.ID.String(),
		Trigger:       run.Trigger,
		Candidates:    len(ranking.Candidates),
		TierThreshold: ranking.TierThreshold,
		Top:           topEntries(ranking, 3),
		DurationMs:    run.DurationMs,
		Timestamp:     time.Now().UTC(),
	})
	s.logger.Info("ranking computed",
		"run_id", run.ID,
		"trigger", run.Trigger,
		"candidates", run.Candidates,
		"top", run.TopCandidate,
		"duration_ms", run.DurationMs,
	)
	return res, nil
}

// Latest returns the most recent cached ranking, if any.
func (s *Service) Latest() (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}

// Current returns the cached ranking when it reflects every mutation so far
// and computes a fresh one otherwise.
func (s *Service) Current(ctx context.Context, trigger string) (*Result, error) {
	if res, ok := s.Latest(); ok && res.Generation == s.generation.Load() {
		return res, nil
	}
	return s.Rank(ctx, RankOptions{Trigger: trigger})
}

func (s *Service) cache(res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest != nil && s.latest.Generation > res.Generation {
		s.metrics.StaleDiscarded.Inc()
		s.logger.Debug("discarding stale ranking", "run_id", res.RunID, "generation", res.Generation, "cached_generation", s.latest.Generation)
		return
	}
	s.latest = res
}

// Runs returns the run log, newest first.
func (s *Service) Runs() []store.Run {
	return s.runs.List()
}

// ClearRuns empties the run log and reports how many runs were dropped.
func (s *Service) ClearRuns() int {
	return s.runs.Clear()
}

func (s *Service) recordFailure(run store.Run, start time.Time, err error) {
	run.DurationMs = float64(time.Since(start).Microseconds()) / 1000
	run.ErrorKind = scoring.KindName(err)
	run.Error = err.Error()
	s.runs.Append(run)
	s.metrics.Rankings.WithLabelValues(run.ErrorKind).Inc()

	s.publish(hermes.SubjectRankingFailed, hermes.RankingFailedEvent{
		RunID:     run.ID.String(),
		Trigger:   run.Trigger,
		Kind:      run.ErrorKind,
		Error:     run.Error,
		Timestamp: time.Now().UTC(),
	})
	s.logger.Warn("ranking failed", "run_id", run.ID, "trigger", run.Trigger, "kind", run.ErrorKind, "error", err)
}

// snapshot reads the criteria and candidates and builds the scoring inputs.
// Attributes for criteria that are no longer in the set are ignored.
func (s *Service) snapshot(ctx context.Context) (scoring.DecisionMatrix, scoring.CriterionSet, error) {
	records, err := s.store.GetCriteria(ctx)
	if err != nil {
		return scoring.DecisionMatrix{}, scoring.CriterionSet{}, fmt.Errorf("load criteria: %w", err)
	}
	set, err := toCriterionSet(records)
	if err != nil {
		return scoring.DecisionMatrix{}, scoring.CriterionSet{}, err
	}

	influencers, err := s.store.ListInfluencers(ctx, store.InfluencerFilter{})
	if err != nil {
		return scoring.DecisionMatrix{}, scoring.CriterionSet{}, fmt.Errorf("load influencers: %w", err)
	}
	candidates := make([]scoring.Candidate, len(influencers))
	for i, inf := range influencers {
		attrs := make(map[string]float64, set.Len())
		for _, c := range set.Criteria() {
			if v, ok := inf.Attributes[c.ID]; ok {
				attrs[c.ID] = v
			}
		}
		candidates[i] = scoring.Candidate{ID: inf.ID.String(), Name: inf.Name, Attributes: attrs}
	}

	m, err := scoring.NewDecisionMatrix(candidates...)
	if err != nil {
		return scoring.DecisionMatrix{}, scoring.CriterionSet{}, err
	}
	return m, set, nil
}

func topEntries(r *scoring.Ranking, n int) []hermes.RankedEntry {
	if len(r.Candidates) < n {
		n = len(r.Candidates)
	}
	out := make([]hermes.RankedEntry, n)
	for i := 0; i < n; i++ {
		c := r.Candidates[i]
		out[i] = hermes.RankedEntry{CandidateID: c.ID, Name: c.Name, Rank: c.Rank, Score: c.Score, Tier: string(c.Tier)}
	}
	return out
}
