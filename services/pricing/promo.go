package pricing

import (
	"context"

	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
)

// ValidatePromoCode runs the read-only promo checks for packageID.
func (s *DefaultPricingService) ValidatePromoCode(ctx context.Context, code, packageID string) (*models.PromoCode, error) {
	promo, err := s.Promos.GetByCode(ctx, models.NormalizePromoCode(code))
	if err != nil {
		return nil, err
	}
	if err := ValidatePromo(promo, packageID, s.Clock.Now()); err != nil {
		return nil, err
	}
	return promo, nil
}

// RedeemPromoCode consumes one use of code for bookingID. Safe to repeat.
func (s *DefaultPricingService) RedeemPromoCode(ctx context.Context, code, bookingID string) error {
	code = models.NormalizePromoCode(code)
	if err := s.Promos.Redeem(ctx, code, bookingID, s.Clock.Now()); err != nil {
		s.Logger.Warn("promo redemption failed", zap.String("code", code), zap.String("bookingId", bookingID), zap.Error(err))
		return err
	}
	return nil
}

func validatePromoFields(promo *models.PromoCode) error {
	if promo.Code == "" {
		return utils.NewError(utils.ErrInvalidSelection, "promo code is required")
	}
	switch promo.DiscountType {
	case models.DiscountPercentage:
		if promo.DiscountValue <= 0 || promo.DiscountValue > 100 {
			return utils.NewError(utils.ErrInvalidSelection, "percentage must be between 1 and 100")
		}
	case models.DiscountFixed:
		if promo.DiscountValue <= 0 {
			return utils.NewError(utils.ErrInvalidSelection, "fixed discount must be positive")
		}
	default:
		return utils.NewError(utils.ErrInvalidSelection, "unknown discount type %q", promo.DiscountType)
	}
	if promo.MaxUses < 0 {
		return utils.NewError(utils.ErrInvalidSelection, "max uses cannot be negative")
	}
	return nil
}

func (s *DefaultPricingService) CreatePromo(ctx context.Context, promo models.PromoCode, actor models.Actor) (*models.PromoCode, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	promo.Code = models.NormalizePromoCode(promo.Code)
	if err := validatePromoFields(&promo); err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	promo.CurrentUses = 0
	promo.CreatedAt = now
	promo.UpdatedAt = now
	if err := s.Promos.Create(ctx, &promo); err != nil {
		return nil, err
	}
	s.Logger.Info("promo created", zap.String("code", promo.Code), zap.String("managerId", actor.ActorID()))
	return &promo, nil
}

func (s *DefaultPricingService) UpdatePromo(ctx context.Context, promo models.PromoCode, actor models.Actor) (*models.PromoCode, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	promo.Code = models.NormalizePromoCode(promo.Code)
	if err := validatePromoFields(&promo); err != nil {
		return nil, err
	}
	promo.UpdatedAt = s.Clock.Now()
	if err := s.Promos.Update(ctx, &promo); err != nil {
		return nil, err
	}
	return s.Promos.GetByCode(ctx, promo.Code)
}

func (s *DefaultPricingService) DeletePromo(ctx context.Context, code string, actor models.Actor) error {
	if err := requireManager(actor); err != nil {
		return err
	}
	return s.Promos.Delete(ctx, models.NormalizePromoCode(code))
}

func (s *DefaultPricingService) SetPromoActive(ctx context.Context, code string, active bool, actor models.Actor) error {
	if err := requireManager(actor); err != nil {
		return err
	}
	return s.Promos.SetActive(ctx, models.NormalizePromoCode(code), active, s.Clock.Now())
}

func (s *DefaultPricingService) ListPromos(ctx context.Context, actor models.Actor) ([]models.PromoCode, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	return s.Promos.List(ctx)
}
