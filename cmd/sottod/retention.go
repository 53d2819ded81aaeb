package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// runJanitor enforces the remote retention policy on a schedule: delivered
// envelopes are dropped once the grace period elapses, and anything older
// than maxAge is dropped regardless. This runs independently of the
// read/delivery path.
func (s *server) runJanitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *server) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for user, box := range s.boxes {
		kept := box[:0]
		for _, se := range box {
			expired := (!se.deliveredAt.IsZero() && now.Sub(se.deliveredAt) > s.grace) ||
				now.Sub(se.receivedAt) > s.maxAge
			if expired {
				removed++
				continue
			}
			kept = append(kept, se)
		}
		if len(kept) == 0 {
			delete(s.boxes, user)
			continue
		}
		s.boxes[user] = kept
	}
	if removed > 0 {
		s.log.Info("retention sweep", zap.Int("removed", removed))
	}
}
