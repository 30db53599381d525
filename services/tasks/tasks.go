package tasks

import (
	"encoding/json"
	"time"

	"carwash/config"
	"carwash/models"

	"github.com/hibiken/asynq"
)

const (
	TypeRedeemDiscounts    = "booking:redeem"
	TypeNotifyStatusChange = "booking:notify"
)

// RedisConnOpt points asynq clients and servers at the queue database.
func RedisConnOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewRedemptionTask is keyed by booking id so a booking is redeemed through the queue once.
func NewRedemptionTask(payload models.RedemptionPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRedeemDiscounts, b)
	opts := []asynq.Option{
		asynq.TaskID("redeem:" + payload.BookingID),
		asynq.MaxRetry(10),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

func NewStatusNotificationTask(payload models.StatusNotificationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeNotifyStatusChange, b)
	opts := []asynq.Option{
		asynq.TaskID("notify:" + payload.BookingID + ":" + string(payload.Status)),
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}
