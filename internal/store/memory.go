package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps the session in process memory. It is the default when no
// database URL is configured.
type MemoryStore struct {
	mu          sync.RWMutex
	influencers []*Influencer
	criteria    []*Criterion
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateInfluencer(_ context.Context, inf *Influencer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inf.ID == uuid.Nil {
		inf.ID = uuid.New()
	}
	for _, existing := range s.influencers {
		if existing.ID == inf.ID {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	inf.CreatedAt = now
	inf.UpdatedAt = now
	if inf.Attributes == nil {
		inf.Attributes = map[string]float64{}
	}
	s.influencers = append(s.influencers, inf.Clone())
	return nil
}

func (s *MemoryStore) GetInfluencer(_ context.Context, id uuid.UUID) (*Influencer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.influencers[i].Clone(), nil
	}
	return nil, nil
}

func (s *MemoryStore) ListInfluencers(_ context.Context, filter InfluencerFilter) ([]*Influencer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Influencer, 0, len(s.influencers))
	skipped := 0
	for _, inf := range s.influencers {
		if filter.Category != "" && inf.Category != filter.Category {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
		out = append(out, inf.Clone())
	}
	return out, nil
}

func (s *MemoryStore) UpdateInfluencer(_ context.Context, inf *Influencer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(inf.ID)
	if i < 0 {
		return ErrNotFound
	}
	inf.CreatedAt = s.influencers[i].CreatedAt
	inf.UpdatedAt = time.Now().UTC()
	s.influencers[i] = inf.Clone()
	return nil
}

func (s *MemoryStore) DeleteInfluencer(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.influencers = append(s.influencers[:i], s.influencers[i+1:]...)
	return nil
}

func (s *MemoryStore) CountInfluencers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.influencers), nil
}

func (s *MemoryStore) GetCriteria(_ context.Context) ([]*Criterion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Criterion, len(s.criteria))
	for i, c := range s.criteria {
		cp := *c
		out[i] = &cp
	}
	return out, nil
}

func (s *MemoryStore) ReplaceCriteria(_ context.Context, criteria []*Criterion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*Criterion, len(criteria))
	for i, c := range criteria {
		cp := *c
		cp.Position = i
		next[i] = &cp
	}
	s.criteria = next
	return nil
}

func (s *MemoryStore) indexOf(id uuid.UUID) int {
	for i, inf := range s.influencers {
		if inf.ID == id {
			return i
		}
	}
	return -1
}
