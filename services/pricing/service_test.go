package pricing

import (
	"context"
	"errors"
	"testing"

	promoRepo "carwash/database/repository/promo"
	referralRepo "carwash/database/repository/referral"
	settingsRepo "carwash/database/repository/settings"
	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
)

var manager = models.ManagerActor{ManagerID: "m1"}

func newTestService(t *testing.T) *DefaultPricingService {
	t.Helper()
	svc := &DefaultPricingService{
		Settings:        settingsRepo.NewMemorySettingsRepo(),
		Promos:          promoRepo.NewMemoryPromoRepo(),
		Referrals:       referralRepo.NewMemoryReferralRepo(),
		Clock:           utils.FixedClock{T: evalTime},
		Logger:          zap.NewNop(),
		ReferralPercent: 10,
	}
	if err := svc.SeedDefaults(context.Background()); err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestQuoteWithPromoAndAddOns(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreatePromo(ctx, models.PromoCode{Code: "save10", DiscountType: models.DiscountPercentage, DiscountValue: 10, Active: true}, manager); err != nil {
		t.Fatal(err)
	}
	q, err := svc.Quote(ctx, models.ServiceSelection{
		PackageID: "platinum", VehicleType: "sedan", AddOns: []string{"interior_vacuum", "tire_shine"}, PromoCode: " Save10 ",
	}, QuoteOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if q.Breakdown.Total != 94 || q.MonthlyTotal != 376 {
		t.Errorf("unexpected quote %+v", q)
	}
}

func TestQuoteUnknownPromo(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Quote(context.Background(), models.ServiceSelection{PackageID: "basic", VehicleType: "sedan", PromoCode: "GHOST"}, QuoteOptions{})
	if !errors.Is(err, utils.ErrPromoNotFound) {
		t.Errorf("expected PromoNotFound, got %v", err)
	}
}

func TestAddOnChangesAffectQuote(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sel := models.ServiceSelection{PackageID: "basic", VehicleType: "sedan", AddOns: []string{"wax"}}

	if _, err := svc.SetAddOnEnabled(ctx, "wax", false, manager); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Quote(ctx, sel, QuoteOptions{}); !errors.Is(err, utils.ErrInvalidAddOn) {
		t.Errorf("expected InvalidAddOn, got %v", err)
	}

	if _, err := svc.UpsertAddOn(ctx, models.AddOn{ID: "wax", Name: "Wax", Price: 25, Enabled: true}, manager); err != nil {
		t.Fatal(err)
	}
	q, err := svc.Quote(ctx, sel, QuoteOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if q.Breakdown.Total != 49+25 {
		t.Errorf("expected 74, got %d", q.Breakdown.Total)
	}
	if q.AddOnsVersion != 3 {
		t.Errorf("expected add-ons version 3, got %d", q.AddOnsVersion)
	}
}

func TestPackageAvailabilityToggle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.SetPackageAvailability(ctx, "premium", false, manager); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Quote(ctx, models.ServiceSelection{PackageID: "premium", VehicleType: "sedan"}, QuoteOptions{})
	if !errors.Is(err, utils.ErrNoPriceForSelection) {
		t.Errorf("expected NoPriceForSelection, got %v", err)
	}
	if _, err := svc.SetPackageAvailability(ctx, "premium", true, models.StaffActor{StaffID: "s"}); !errors.Is(err, utils.ErrForbidden) {
		t.Errorf("expected Forbidden for staff, got %v", err)
	}
}

func TestPromoManagement(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreatePromo(ctx, models.PromoCode{Code: "BAD", DiscountType: models.DiscountPercentage, DiscountValue: 150}, manager); !errors.Is(err, utils.ErrInvalidSelection) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := svc.CreatePromo(ctx, models.PromoCode{Code: "ONCE", DiscountType: models.DiscountFixed, DiscountValue: 5, MaxUses: 1, Active: true}, manager); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreatePromo(ctx, models.PromoCode{Code: "once", DiscountType: models.DiscountFixed, DiscountValue: 5, Active: true}, manager); !errors.Is(err, utils.ErrAlreadyExists) {
		t.Errorf("expected AlreadyExists for normalized duplicate, got %v", err)
	}

	if _, err := svc.ValidatePromoCode(ctx, "once", "basic"); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := svc.RedeemPromoCode(ctx, "ONCE", "b1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.RedeemPromoCode(ctx, "ONCE", "b1"); err != nil {
		t.Fatalf("repeat redemption must be a no-op: %v", err)
	}
	if _, err := svc.ValidatePromoCode(ctx, "ONCE", "basic"); !errors.Is(err, utils.ErrPromoExhausted) {
		t.Errorf("expected PromoExhausted, got %v", err)
	}

	if _, err := svc.CreatePromo(ctx, models.PromoCode{Code: "OPEN", DiscountType: models.DiscountFixed, DiscountValue: 5, Active: true}, manager); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetPromoActive(ctx, "OPEN", false, manager); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidatePromoCode(ctx, "OPEN", "basic"); !errors.Is(err, utils.ErrPromoInactive) {
		t.Errorf("expected PromoInactive, got %v", err)
	}
	if open, err := svc.Promos.GetByCode(ctx, "OPEN"); err != nil || !open.UpdatedAt.Equal(evalTime) {
		t.Errorf("expected toggle stamped at %v, got %+v (%v)", evalTime, open, err)
	}
	if err := svc.DeletePromo(ctx, "ONCE", manager); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidatePromoCode(ctx, "ONCE", "basic"); !errors.Is(err, utils.ErrPromoNotFound) {
		t.Errorf("expected PromoNotFound, got %v", err)
	}
}

func TestReferralFlow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	referrer, err := svc.GetOrCreateReferral(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(referrer.Code) != 8 {
		t.Errorf("expected 8-char code, got %q", referrer.Code)
	}
	again, _ := svc.GetOrCreateReferral(ctx, "alice")
	if again.Code != referrer.Code {
		t.Error("GetOrCreateReferral must be stable")
	}

	if _, err := svc.ApplyReferralCode(ctx, "alice", referrer.Code); !errors.Is(err, utils.ErrReferralUnavailable) {
		t.Errorf("self-referral: expected ReferralUnavailable, got %v", err)
	}
	credit, err := svc.ApplyReferralCode(ctx, "bob", referrer.Code)
	if err != nil {
		t.Fatal(err)
	}
	if credit.ReferredBy != "alice" || !credit.HasUnconsumedDiscount() {
		t.Errorf("unexpected credit %+v", credit)
	}
	if _, err := svc.ApplyReferralCode(ctx, "bob", referrer.Code); !errors.Is(err, utils.ErrReferralUnavailable) {
		t.Errorf("re-link: expected ReferralUnavailable, got %v", err)
	}

	q, err := svc.Quote(ctx, models.ServiceSelection{PackageID: "platinum", VehicleType: "sedan"}, QuoteOptions{ReferralUserID: "bob"})
	if err != nil {
		t.Fatal(err)
	}
	if q.Breakdown.ReferralDiscount != 9 || q.Breakdown.Total != 80 || !q.Referral {
		t.Errorf("unexpected referral quote %+v", q)
	}

	if err := svc.ConsumeReferral(ctx, "bob", "b1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.ConsumeReferral(ctx, "bob", "b1"); err != nil {
		t.Fatalf("repeat consume must be a no-op: %v", err)
	}
	if err := svc.ConsumeReferral(ctx, "bob", "b2"); !errors.Is(err, utils.ErrReferralUnavailable) {
		t.Errorf("expected ReferralUnavailable on second booking, got %v", err)
	}

	alice, _ := svc.GetOrCreateReferral(ctx, "alice")
	if alice.TotalReferrals != 1 || alice.PendingReferrals != 0 || alice.SuccessfulReferrals != 1 {
		t.Errorf("unexpected referrer counts %+v", alice)
	}
}

func TestQuoteHeldDiscounts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.CreatePromo(ctx, models.PromoCode{Code: "ONE", DiscountType: models.DiscountFixed, DiscountValue: 9, MaxUses: 1, Active: true}, manager); err != nil {
		t.Fatal(err)
	}
	if err := svc.RedeemPromoCode(ctx, "ONE", "b1"); err != nil {
		t.Fatal(err)
	}

	sel := models.ServiceSelection{PackageID: "premium", VehicleType: "sedan", PromoCode: "ONE"}
	if _, err := svc.Quote(ctx, sel, QuoteOptions{}); !errors.Is(err, utils.ErrPromoExhausted) {
		t.Fatalf("expected PromoExhausted for a new booking, got %v", err)
	}
	q, err := svc.Quote(ctx, sel, QuoteOptions{PromoHeld: true})
	if err != nil {
		t.Fatal(err)
	}
	if q.Breakdown.Total != 60 {
		t.Errorf("expected 69 - 9 = 60, got %d", q.Breakdown.Total)
	}
}
