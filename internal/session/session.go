package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/Endorse/internal/config"
	"github.com/MikeSquared-Agency/Endorse/internal/hermes"
	"github.com/MikeSquared-Agency/Endorse/internal/metrics"
	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

// Service owns the session: the candidate list, the criteria set, the cached
// ranking and the in-memory run and export logs. It is the only writer to the
// store and recomputes the ranking after every mutation.
type Service struct {
	store   store.Store
	hermes  hermes.Client
	engine  *scoring.Engine
	metrics *metrics.Metrics
	runs    *store.History[store.Run]
	exports *store.History[store.ExportRecord]
	cfg     *config.Config
	logger  *slog.Logger

	// generation counts mutations. A computed ranking carries the generation
	// it was snapshotted at and never replaces a newer cached one.
	generation atomic.Uint64

	mu     sync.RWMutex
	latest *Result

	dirty    chan struct{}
	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, h hermes.Client, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *Service {
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	rankCfg := scoring.RankConfig{TierThreshold: cfg.Ranking.TierThreshold}
	return &Service{
		store:   s,
		hermes:  h,
		engine:  scoring.NewEngine(rankCfg, cfg.Ranking.ParetoEnabled, logger),
		metrics: m,
		runs:    store.NewRunLog(cfg.Ranking.RunLogSize),
		exports: store.NewHistory[store.ExportRecord](cfg.Ranking.RunLogSize),
		cfg:     cfg,
		logger:  logger,
		dirty:   make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

// Start seeds the default criteria when the store has none and launches the
// debounced recompute loop.
func (s *Service) Start(ctx context.Context) error {
	if err := s.EnsureCriteria(ctx); err != nil {
		return err
	}
	s.wg.Add(1)
	go s.recomputeLoop(ctx)
	s.MarkDirty()
	return nil
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// Generation returns the current mutation count.
func (s *Service) Generation() uint64 {
	return s.generation.Load()
}

// MarkDirty records a mutation and schedules a recompute.
func (s *Service) MarkDirty() {
	s.generation.Add(1)
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// SetupSubscriptions lets other services request a recompute over NATS.
func (s *Service) SetupSubscriptions() {
	if s.hermes == nil {
		return
	}
	err := s.hermes.Subscribe(hermes.SubjectRankingRequest, func(_ string, data []byte) {
		var req hermes.RankingRequestEvent
		if err := json.Unmarshal(data, &req); err != nil {
			s.logger.Warn("invalid ranking request", "error", err)
			return
		}
		s.logger.Info("ranking requested", "source", req.Source)
		s.MarkDirty()
	})
	if err != nil {
		s.logger.Warn("failed to subscribe", "subject", hermes.SubjectRankingRequest, "error", err)
	}
}

func (s *Service) publish(subject string, data interface{}) {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Publish(subject, data); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
