package session

import (
	"context"
	"time"
)

func (s *Service) recomputeLoop(ctx context.Context) {
	defer s.wg.Done()

	debounce := s.cfg.RecomputeDebounce()
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-s.dirty:
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if _, err := s.Rank(ctx, RankOptions{Trigger: TriggerRecompute}); err != nil {
				s.logger.Warn("background recompute failed", "error", err)
			}
		}
	}
}
