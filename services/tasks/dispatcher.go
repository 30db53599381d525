package tasks

import (
	"context"

	"carwash/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of asynq.Client the dispatcher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqDispatcher hands post-commit booking work to the redis queue.
type AsynqDispatcher struct {
	Client Enqueuer
	Logger *zap.Logger
}

func (d *AsynqDispatcher) EnqueueRedemption(ctx context.Context, payload models.RedemptionPayload) error {
	task, opts, err := NewRedemptionTask(payload)
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task, opts)
}

func (d *AsynqDispatcher) EnqueueStatusNotification(ctx context.Context, payload models.StatusNotificationPayload) error {
	task, opts, err := NewStatusNotificationTask(payload)
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task, opts)
}

func (d *AsynqDispatcher) enqueue(ctx context.Context, task *asynq.Task, opts []asynq.Option) error {
	info, err := d.Client.EnqueueContext(ctx, task, opts...)
	if IsDuplicate(err) {
		d.Logger.Debug("task already queued", zap.String("type", task.Type()))
		return nil
	}
	if err != nil {
		return err
	}
	d.Logger.Debug("task enqueued", zap.String("type", task.Type()), zap.String("taskId", info.ID))
	return nil
}

// InlineDispatcher runs the handlers in the caller's goroutine. Used with the memory store.
type InlineDispatcher struct {
	Handlers *Handlers
}

func (d *InlineDispatcher) EnqueueRedemption(ctx context.Context, payload models.RedemptionPayload) error {
	return d.Handlers.Redeem(ctx, payload)
}

func (d *InlineDispatcher) EnqueueStatusNotification(ctx context.Context, payload models.StatusNotificationPayload) error {
	return d.Handlers.Notify(ctx, payload)
}
