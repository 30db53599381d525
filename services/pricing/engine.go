package pricing

import (
	"time"

	"carwash/models"
	"carwash/utils"
)

// Subscription rate in thousandths: 7.5% off the base price.
const subscriptionPerMille = 925

// Input is everything ComputePrice needs. Configuration arrives as parameters so
// the computation never depends on ambient state.
type Input struct {
	Selection models.ServiceSelection
	Catalog   models.PackageCatalog
	AddOns    models.AddOnConfig
	// Promo must be set when Selection.PromoCode is; nil means the code was not found.
	Promo *models.PromoCode
	// Referral is applied only when it still holds an unconsumed grant.
	Referral *models.ReferralCredit
	Now      time.Time
	// PromoHeld marks a promo already redeemed by the booking being repriced,
	// so its own use does not count as exhaustion.
	PromoHeld bool
	// ReferralHeld reapplies a grant the booking being repriced already consumed.
	ReferralHeld bool
}

// ValidateSelection checks the vehicle fields against the catalog.
func ValidateSelection(sel models.ServiceSelection, catalog models.PackageCatalog) error {
	if sel.PackageID == "" {
		return utils.NewError(utils.ErrInvalidSelection, "package is required")
	}
	vt, ok := catalog.VehicleType(sel.VehicleType)
	if !ok {
		return utils.NewError(utils.ErrInvalidSelection, "unknown vehicle type %q", sel.VehicleType)
	}
	if !vt.HasSize {
		if sel.VehicleSize != "" {
			return utils.NewError(utils.ErrInvalidSelection, "vehicle type %s does not take a size", vt.ID)
		}
		return nil
	}
	for _, size := range vt.Sizes {
		if size == sel.VehicleSize {
			return nil
		}
	}
	return utils.NewError(utils.ErrInvalidSelection, "vehicle type %s requires a size from %v", vt.ID, vt.Sizes)
}

// BasePrice looks up the catalog price for the selection.
func BasePrice(sel models.ServiceSelection, catalog models.PackageCatalog) (int64, error) {
	pkg, ok := catalog.Package(sel.PackageID)
	if !ok || !pkg.Available {
		return 0, utils.NewError(utils.ErrNoPriceForSelection, "package %q is not available", sel.PackageID)
	}
	price, ok := pkg.Prices[models.PriceKey(sel.VehicleType, sel.VehicleSize)]
	if !ok {
		return 0, utils.NewError(utils.ErrNoPriceForSelection, "no price for %s on %s %s", sel.PackageID, sel.VehicleType, sel.VehicleSize)
	}
	return price, nil
}

// AddOnsTotal sums enabled add-ons. Unknown, disabled or repeated ids fail.
func AddOnsTotal(ids []string, cfg models.AddOnConfig) (int64, error) {
	var total int64
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		addOn, ok := cfg.AddOns[id]
		if !ok || !addOn.Enabled || seen[id] {
			return 0, utils.NewError(utils.ErrInvalidAddOn, "add-on %q is not available", id)
		}
		seen[id] = true
		total += addOn.Price
	}
	return total, nil
}

// SubscriptionPrice applies the subscription rate to base, rounding half up.
func SubscriptionPrice(base int64) int64 {
	return (base*subscriptionPerMille + 500) / 1000
}

// PercentOf returns round-half-up(amount * pct / 100).
func PercentOf(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}

// Discount computes one discount step against priceSoFar. It never exceeds priceSoFar.
func Discount(kind models.DiscountType, value, priceSoFar int64) int64 {
	if priceSoFar <= 0 || value <= 0 {
		return 0
	}
	var d int64
	switch kind {
	case models.DiscountPercentage:
		d = PercentOf(priceSoFar, value)
	case models.DiscountFixed:
		d = value
	}
	if d > priceSoFar {
		d = priceSoFar
	}
	return d
}

// ValidatePromo is the read-only promo check; it never touches the usage counter.
// Checks run in order: found, expiry, use cap, package, active flag.
func ValidatePromo(promo *models.PromoCode, packageID string, now time.Time) error {
	return validatePromo(promo, packageID, now, false)
}

// validatePromo skips the use cap when ignoreCap is set, for a booking that
// already holds one of the uses.
func validatePromo(promo *models.PromoCode, packageID string, now time.Time, ignoreCap bool) error {
	switch {
	case promo == nil:
		return utils.NewError(utils.ErrPromoNotFound, "promo code not found")
	case promo.ExpiresAt != nil && now.After(*promo.ExpiresAt):
		return utils.NewError(utils.ErrPromoExpired, "promo %s expired", promo.Code)
	case !ignoreCap && promo.MaxUses > 0 && promo.CurrentUses >= promo.MaxUses:
		return utils.NewError(utils.ErrPromoExhausted, "promo %s has no uses left", promo.Code)
	case !promo.AppliesTo(packageID):
		return utils.NewError(utils.ErrPromoNotApplicable, "promo %s does not apply to %s", promo.Code, packageID)
	case !promo.Active:
		return utils.NewError(utils.ErrPromoInactive, "promo %s is not active", promo.Code)
	}
	return nil
}

// ComputePrice prices a selection. Each discount is taken from the price left
// by the previous step; the total is floored at zero.
func ComputePrice(in Input) (models.PriceBreakdown, error) {
	sel := in.Selection
	if err := ValidateSelection(sel, in.Catalog); err != nil {
		return models.PriceBreakdown{}, err
	}

	base, err := BasePrice(sel, in.Catalog)
	if err != nil {
		return models.PriceBreakdown{}, err
	}
	addOns, err := AddOnsTotal(sel.AddOns, in.AddOns)
	if err != nil {
		return models.PriceBreakdown{}, err
	}

	b := models.PriceBreakdown{Base: base, AddOnsTotal: addOns}
	discounted := base
	if sel.Subscription {
		discounted = SubscriptionPrice(base)
		b.SubscriptionDiscount = base - discounted
	}
	price := discounted + addOns

	if sel.PromoCode != "" {
		if err := validatePromo(in.Promo, sel.PackageID, in.Now, in.PromoHeld); err != nil {
			return models.PriceBreakdown{}, err
		}
		b.PromoDiscount = Discount(in.Promo.DiscountType, in.Promo.DiscountValue, price)
		price -= b.PromoDiscount
	}

	if referralApplies(in) {
		b.ReferralDiscount = Discount(in.Referral.DiscountType, in.Referral.DiscountValue, price)
		price -= b.ReferralDiscount
	}

	if price < 0 {
		price = 0
	}
	b.DiscountAmount = b.PromoDiscount + b.ReferralDiscount
	b.Total = price
	return b, nil
}

func referralApplies(in Input) bool {
	if in.Referral == nil {
		return false
	}
	if in.ReferralHeld {
		return in.Referral.ReferredBy != "" && in.Referral.DiscountValue > 0
	}
	return in.Referral.HasUnconsumedDiscount()
}

// MonthlyTotal is the four-wash figure derived from a computed breakdown.
func MonthlyTotal(b models.PriceBreakdown) int64 {
	return b.Total * 4
}
