package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Endorse/internal/hermes"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

// ErrInvalidInfluencer wraps every influencer validation failure.
var ErrInvalidInfluencer = errors.New("invalid influencer")

func (s *Service) CreateInfluencer(ctx context.Context, inf *store.Influencer) error {
	if err := validateInfluencer(inf); err != nil {
		return err
	}
	if err := s.store.CreateInfluencer(ctx, inf); err != nil {
		return fmt.Errorf("create influencer: %w", err)
	}
	s.influencerChanged("create", hermes.SubjectInfluencerCreated(inf.ID.String()), inf)
	s.logger.Info("influencer created", "influencer_id", inf.ID, "name", inf.Name)
	return nil
}

// GetInfluencer returns store.ErrNotFound when the id is unknown.
func (s *Service) GetInfluencer(ctx context.Context, id uuid.UUID) (*store.Influencer, error) {
	inf, err := s.store.GetInfluencer(ctx, id)
	if err != nil {
		return nil, err
	}
	if inf == nil {
		return nil, store.ErrNotFound
	}
	return inf, nil
}

func (s *Service) ListInfluencers(ctx context.Context, filter store.InfluencerFilter) ([]*store.Influencer, error) {
	return s.store.ListInfluencers(ctx, filter)
}

func (s *Service) UpdateInfluencer(ctx context.Context, inf *store.Influencer) error {
	if err := validateInfluencer(inf); err != nil {
		return err
	}
	if err := s.store.UpdateInfluencer(ctx, inf); err != nil {
		return fmt.Errorf("update influencer %s: %w", inf.ID, err)
	}
	s.influencerChanged("update", hermes.SubjectInfluencerUpdated(inf.ID.String()), inf)
	return nil
}

func (s *Service) DeleteInfluencer(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteInfluencer(ctx, id); err != nil {
		return fmt.Errorf("delete influencer %s: %w", id, err)
	}
	s.influencerChanged("delete", hermes.SubjectInfluencerDeleted(id.String()), &store.Influencer{ID: id})
	s.logger.Info("influencer deleted", "influencer_id", id)
	return nil
}

func (s *Service) influencerChanged(op, subject string, inf *store.Influencer) {
	s.metrics.Mutations.WithLabelValues("influencer", op).Inc()
	s.publish(subject, hermes.InfluencerEvent{
		InfluencerID: inf.ID.String(),
		Name:         inf.Name,
		Category:     inf.Category,
		Timestamp:    time.Now().UTC(),
	})
	s.MarkDirty()
}

func validateInfluencer(inf *store.Influencer) error {
	if strings.TrimSpace(inf.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInfluencer)
	}
	for id, v := range inf.Attributes {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: attribute %q is not a finite number", ErrInvalidInfluencer, id)
		}
		if v < 0 {
			return fmt.Errorf("%w: attribute %q is negative (%v)", ErrInvalidInfluencer, id, v)
		}
	}
	return nil
}
