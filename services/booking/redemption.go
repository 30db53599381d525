package booking

import (
	"context"

	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
)

const pendingRedemptionBatch = 100

func redemptionPayload(b *models.Booking) models.RedemptionPayload {
	payload := models.RedemptionPayload{BookingID: b.ID, PromoCode: b.Selection.PromoCode}
	if b.ReferralApplied {
		payload.ReferralUserID = b.CustomerRef
	}
	return payload
}

// settleRedemption hands the redemption to the queue. When the queue refuses it
// the uses are consumed inline against the store. It reports false only when
// neither worked and the booking has to stay flagged.
func (s *DefaultBookingService) settleRedemption(ctx context.Context, payload models.RedemptionPayload) bool {
	log := s.Logger.With(zap.String("bookingId", payload.BookingID))
	if s.Dispatcher != nil {
		err := s.Dispatcher.EnqueueRedemption(ctx, payload)
		if err == nil {
			return true
		}
		log.Warn("redemption enqueue failed, redeeming inline", zap.Error(err))
	}
	if err := s.redeemInline(ctx, payload); err != nil {
		log.Error("redemption left pending", zap.Error(err))
		return false
	}
	return true
}

// redeemInline consumes the promo use and referral grant directly. Business
// rejections are final and only logged; infrastructure errors are returned.
func (s *DefaultBookingService) redeemInline(ctx context.Context, p models.RedemptionPayload) error {
	if p.PromoCode != "" {
		if err := s.Pricing.RedeemPromoCode(ctx, p.PromoCode, p.BookingID); err != nil {
			if utils.KindOf(err) == utils.KindInfrastructure {
				return err
			}
			s.Logger.Warn("promo could not be redeemed", zap.String("bookingId", p.BookingID), zap.Error(err))
		}
	}
	if p.ReferralUserID != "" {
		if err := s.Pricing.ConsumeReferral(ctx, p.ReferralUserID, p.BookingID); err != nil {
			if utils.KindOf(err) == utils.KindInfrastructure {
				return err
			}
			s.Logger.Warn("referral could not be consumed", zap.String("bookingId", p.BookingID), zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultBookingService) clearRedemptionPending(ctx context.Context, b *models.Booking) {
	if err := s.Repo.SetRedemptionPending(ctx, b.ID, false); err != nil {
		// The sweep picks it up again; redemption is idempotent per booking.
		s.Logger.Warn("failed to clear redemption marker", zap.String("bookingId", b.ID), zap.Error(err))
		return
	}
	b.RedemptionPending = false
}

// RetryPendingRedemptions settles bookings still flagged after creation and
// returns how many were handed off.
func (s *DefaultBookingService) RetryPendingRedemptions(ctx context.Context) (int, error) {
	pending, err := s.Repo.ListRedemptionPending(ctx, pendingRedemptionBatch)
	if err != nil {
		return 0, err
	}
	settled := 0
	for i := range pending {
		b := &pending[i]
		if !s.settleRedemption(ctx, redemptionPayload(b)) {
			continue
		}
		s.clearRedemptionPending(ctx, b)
		if !b.RedemptionPending {
			settled++
		}
	}
	if len(pending) > 0 {
		s.Logger.Info("pending redemptions swept", zap.Int("found", len(pending)), zap.Int("settled", settled))
	}
	return settled, nil
}
