package models

import (
	"strings"
	"time"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PromoCode is keyed by its normalized code.
type PromoCode struct {
	Code          string       `bson:"code" json:"code"`
	DiscountType  DiscountType `bson:"discountType" json:"discountType"`
	DiscountValue int64        `bson:"discountValue" json:"discountValue"`
	MaxUses       int          `bson:"maxUses" json:"maxUses"`
	CurrentUses   int          `bson:"currentUses" json:"currentUses"`
	ExpiresAt     *time.Time   `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	Packages      []string     `bson:"packages,omitempty" json:"packages,omitempty"`
	Active        bool         `bson:"active" json:"active"`
	CreatedAt     time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// NormalizePromoCode trims and upper-cases a user-typed code.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// AppliesTo reports whether the promo may be used with packageID.
func (p PromoCode) AppliesTo(packageID string) bool {
	if len(p.Packages) == 0 {
		return true
	}
	for _, id := range p.Packages {
		if id == packageID {
			return true
		}
	}
	return false
}

// Redemption is the ledger entry that makes redemption idempotent per booking.
type Redemption struct {
	ID        string    `bson:"_id" json:"id"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	Kind      string    `bson:"kind" json:"kind"`
	Ref       string    `bson:"ref" json:"ref"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

const (
	RedemptionPromo    = "promo"
	RedemptionReferral = "referral"
)

// RedemptionKey is the ledger id for one redemption kind of one booking.
func RedemptionKey(bookingID, kind string) string {
	return bookingID + ":" + kind
}
