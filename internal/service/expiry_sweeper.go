package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/repository"
)

const sweepInterval = 15 * time.Minute

// ExpirySweeper periodically zeroes the stock of flowers whose shelf life has
// elapsed since their last restock.
type ExpirySweeper struct {
	flowers  repository.FlowerRepository
	interval time.Duration
	log      *zap.SugaredLogger
}

func NewExpirySweeper(flowers repository.FlowerRepository, log *zap.SugaredLogger) *ExpirySweeper {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ExpirySweeper{
		flowers:  flowers,
		interval: sweepInterval,
		log:      log,
	}
}

// Run sweeps immediately, then on every tick until ctx is cancelled.
func (s *ExpirySweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	expired, err := s.flowers.ExpireStale(ctx)
	if err != nil {
		s.log.Errorw("expiry sweep failed", "error", err)
		return
	}
	if expired > 0 {
		s.log.Infow("expired stale flowers", "count", expired)
	}
}
