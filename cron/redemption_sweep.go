package cron

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RedemptionSweeper re-dispatches redemptions left pending at booking creation.
type RedemptionSweeper interface {
	RetryPendingRedemptions(ctx context.Context) (int, error)
}

// StartRedemptionSweep runs one sweep immediately and then every interval until ctx is done.
func StartRedemptionSweep(ctx context.Context, sweeper RedemptionSweeper, interval time.Duration, logger *zap.Logger) {
	sweep := func() {
		if _, err := sweeper.RetryPendingRedemptions(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("redemption sweep failed", zap.Error(err))
		}
	}

	go func() {
		sweep()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}
