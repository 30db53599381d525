package pricing

import (
	"context"
	"errors"
	"strings"

	"carwash/models"
	"carwash/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	referralCodeLength   = 8
	referralCodeAttempts = 5
)

func newReferralCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:referralCodeLength])
}

// GetOrCreateReferral returns the user's referral record, creating it with a fresh code.
func (s *DefaultPricingService) GetOrCreateReferral(ctx context.Context, userID string) (*models.ReferralCredit, error) {
	credit, err := s.Referrals.GetByUser(ctx, userID)
	if err == nil {
		return credit, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, err
	}

	for attempt := 0; attempt < referralCodeAttempts; attempt++ {
		credit = &models.ReferralCredit{
			UserID:    userID,
			Code:      newReferralCode(),
			CreatedAt: s.Clock.Now(),
		}
		err = s.Referrals.Create(ctx, credit)
		if err == nil {
			return credit, nil
		}
		if !errors.Is(err, utils.ErrAlreadyExists) {
			return nil, err
		}
		// Another request may have created the user's record meanwhile.
		if existing, getErr := s.Referrals.GetByUser(ctx, userID); getErr == nil {
			return existing, nil
		}
	}
	return nil, err
}

// ApplyReferralCode links userID to the owner of code and grants the one-time discount.
func (s *DefaultPricingService) ApplyReferralCode(ctx context.Context, userID, code string) (*models.ReferralCredit, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	referrer, err := s.Referrals.GetByCode(ctx, code)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewError(utils.ErrReferralUnavailable, "referral code %s not found", code)
	}
	if err != nil {
		return nil, err
	}
	if referrer.UserID == userID {
		return nil, utils.NewError(utils.ErrReferralUnavailable, "cannot use your own referral code")
	}

	if _, err := s.GetOrCreateReferral(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.Referrals.LinkReferrer(ctx, userID, referrer.UserID, models.DiscountPercentage, s.ReferralPercent); err != nil {
		return nil, err
	}
	s.Logger.Info("referral linked", zap.String("userId", userID), zap.String("referrerId", referrer.UserID))
	return s.Referrals.GetByUser(ctx, userID)
}

// ConsumeReferral spends the user's grant for bookingID. Safe to repeat.
func (s *DefaultPricingService) ConsumeReferral(ctx context.Context, userID, bookingID string) error {
	if err := s.Referrals.Consume(ctx, userID, bookingID, s.Clock.Now()); err != nil {
		s.Logger.Warn("referral consumption failed", zap.String("userId", userID), zap.String("bookingId", bookingID), zap.Error(err))
		return err
	}
	return nil
}
