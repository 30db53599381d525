package pricing

import (
	"context"
	"errors"

	promoRepo "carwash/database/repository/promo"
	referralRepo "carwash/database/repository/referral"
	settingsRepo "carwash/database/repository/settings"
	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Quote is a computed price plus the configuration versions it was computed from.
type Quote struct {
	Breakdown      models.PriceBreakdown `json:"breakdown"`
	MonthlyTotal   int64                 `json:"monthlyTotal"`
	CatalogVersion int                   `json:"catalogVersion"`
	AddOnsVersion  int                   `json:"addOnsVersion"`
	Referral       bool                  `json:"referralApplied"`
}

// QuoteOptions tune how discounts attach to a quote.
type QuoteOptions struct {
	// ReferralUserID, when set, applies that user's referral grant.
	ReferralUserID string
	// PromoHeld and ReferralHeld reprice an existing booking that already
	// redeemed its promo or referral grant.
	PromoHeld    bool
	ReferralHeld bool
}

type PricingService interface {
	Quote(ctx context.Context, sel models.ServiceSelection, opts QuoteOptions) (Quote, error)
	Catalog(ctx context.Context) (models.PackageCatalog, error)
	ValidateSelection(ctx context.Context, sel models.ServiceSelection) error

	// Console configuration.
	AddOns(ctx context.Context) (models.AddOnConfig, error)
	UpsertAddOn(ctx context.Context, addOn models.AddOn, actor models.Actor) (models.AddOnConfig, error)
	SetAddOnEnabled(ctx context.Context, id string, enabled bool, actor models.Actor) (models.AddOnConfig, error)
	SetPackageAvailability(ctx context.Context, packageID string, available bool, actor models.Actor) (models.PackageCatalog, error)
	SeedDefaults(ctx context.Context) error

	// Promo codes.
	ValidatePromoCode(ctx context.Context, code, packageID string) (*models.PromoCode, error)
	RedeemPromoCode(ctx context.Context, code, bookingID string) error
	CreatePromo(ctx context.Context, promo models.PromoCode, actor models.Actor) (*models.PromoCode, error)
	UpdatePromo(ctx context.Context, promo models.PromoCode, actor models.Actor) (*models.PromoCode, error)
	DeletePromo(ctx context.Context, code string, actor models.Actor) error
	SetPromoActive(ctx context.Context, code string, active bool, actor models.Actor) error
	ListPromos(ctx context.Context, actor models.Actor) ([]models.PromoCode, error)

	// Referrals.
	GetOrCreateReferral(ctx context.Context, userID string) (*models.ReferralCredit, error)
	ApplyReferralCode(ctx context.Context, userID, code string) (*models.ReferralCredit, error)
	ConsumeReferral(ctx context.Context, userID, bookingID string) error
}

type DefaultPricingService struct {
	Settings  settingsRepo.SettingsRepository
	Promos    promoRepo.PromoRepository
	Referrals referralRepo.ReferralRepository
	Clock     utils.Clock
	Logger    *zap.Logger
	// ReferralPercent is the one-time discount granted to a referred user.
	ReferralPercent int64
}

// Quote loads the configuration aggregates concurrently and runs ComputePrice.
func (s *DefaultPricingService) Quote(ctx context.Context, sel models.ServiceSelection, opts QuoteOptions) (Quote, error) {
	sel.PromoCode = models.NormalizePromoCode(sel.PromoCode)
	in := Input{Selection: sel, Now: s.Clock.Now(), PromoHeld: opts.PromoHeld, ReferralHeld: opts.ReferralHeld}
	referralUserID := opts.ReferralUserID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Catalog, err = s.Settings.GetCatalog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.AddOns, err = s.Settings.GetAddOns(gctx)
		return err
	})
	if sel.PromoCode != "" {
		g.Go(func() error {
			promo, err := s.Promos.GetByCode(gctx, sel.PromoCode)
			if errors.Is(err, utils.ErrPromoNotFound) {
				return nil
			}
			in.Promo = promo
			return err
		})
	}
	if referralUserID != "" {
		g.Go(func() error {
			credit, err := s.Referrals.GetByUser(gctx, referralUserID)
			if errors.Is(err, utils.ErrNotFound) {
				return nil
			}
			in.Referral = credit
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.Logger.Error("failed to load pricing configuration", zap.Error(err))
		return Quote{}, err
	}

	breakdown, err := ComputePrice(in)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Breakdown:      breakdown,
		MonthlyTotal:   MonthlyTotal(breakdown),
		CatalogVersion: in.Catalog.Version,
		AddOnsVersion:  in.AddOns.Version,
		Referral:       breakdown.ReferralDiscount > 0,
	}, nil
}

func (s *DefaultPricingService) Catalog(ctx context.Context) (models.PackageCatalog, error) {
	return s.Settings.GetCatalog(ctx)
}

func (s *DefaultPricingService) ValidateSelection(ctx context.Context, sel models.ServiceSelection) error {
	catalog, err := s.Settings.GetCatalog(ctx)
	if err != nil {
		return err
	}
	if err := ValidateSelection(sel, catalog); err != nil {
		return err
	}
	_, err = BasePrice(sel, catalog)
	return err
}

func requireManager(actor models.Actor) error {
	if _, ok := actor.(models.ManagerActor); !ok {
		return utils.NewError(utils.ErrForbidden, "manager access required")
	}
	return nil
}
