package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"carwash/models"
	"carwash/services/notification"
	"carwash/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Redeemer consumes promo uses and referral grants.
type Redeemer interface {
	RedeemPromoCode(ctx context.Context, code, bookingID string) error
	ConsumeReferral(ctx context.Context, userID, bookingID string) error
}

// Handlers runs the work behind each task type.
type Handlers struct {
	Redeemer Redeemer
	Notifier notification.NotificationService
	Logger   *zap.Logger
}

// Redeem consumes whatever the booking was priced with. Business rejections
// are final and only logged; infrastructure errors are returned for retry.
func (h *Handlers) Redeem(ctx context.Context, p models.RedemptionPayload) error {
	log := h.Logger.With(zap.String("bookingId", p.BookingID))

	if p.PromoCode != "" {
		if err := h.Redeemer.RedeemPromoCode(ctx, p.PromoCode, p.BookingID); err != nil {
			if retryable(err) {
				return fmt.Errorf("redeem promo %s: %w", p.PromoCode, err)
			}
			log.Warn("promo could not be redeemed", zap.String("code", p.PromoCode), zap.Error(err))
		}
	}
	if p.ReferralUserID != "" {
		if err := h.Redeemer.ConsumeReferral(ctx, p.ReferralUserID, p.BookingID); err != nil {
			if retryable(err) {
				return fmt.Errorf("consume referral of %s: %w", p.ReferralUserID, err)
			}
			log.Warn("referral could not be consumed", zap.String("userId", p.ReferralUserID), zap.Error(err))
		}
	}
	return nil
}

func (h *Handlers) Notify(ctx context.Context, p models.StatusNotificationPayload) error {
	return h.Notifier.NotifyBookingStatus(ctx, p)
}

func retryable(err error) bool {
	return utils.KindOf(err) == utils.KindInfrastructure
}

// HandleRedemptionTask adapts Redeem to asynq.
func (h *Handlers) HandleRedemptionTask(ctx context.Context, task *asynq.Task) error {
	var p models.RedemptionPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		h.Logger.Error("invalid redemption payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return h.Redeem(ctx, p)
}

func (h *Handlers) HandleStatusNotificationTask(ctx context.Context, task *asynq.Task) error {
	var p models.StatusNotificationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		h.Logger.Error("invalid notification payload", zap.Error(err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err := h.Notify(ctx, p); err != nil {
		h.Logger.Warn("status notification failed", zap.String("bookingId", p.BookingID), zap.Error(err))
		return err
	}
	return nil
}

// IsDuplicate reports an enqueue rejected because the task id is already queued.
func IsDuplicate(err error) bool {
	return errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask)
}
