package cron

import (
	"context"
	"time"

	"carwash/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NewServeMux routes each booking task type to its handler.
func NewServeMux(h *tasks.Handlers) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRedeemDiscounts, h.HandleRedemptionTask)
	mux.HandleFunc(tasks.TypeNotifyStatusChange, h.HandleStatusNotificationTask)
	return mux
}

// StartBookingWorker starts the queue consumer in the background. Call
// Shutdown on the returned server when the process stops.
func StartBookingWorker(h *tasks.Handlers, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		tasks.RedisConnOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				logger.Warn("task failed", zap.String("type", task.Type()), zap.Error(err))
			}),
		},
	)
	mux := NewServeMux(h)

	go func() {
		logger.Info("starting booking worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("failed to start booking worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("booking worker gave up; queued tasks wait for the next start")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}
