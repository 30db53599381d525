package models

import "time"

// ReferralCredit is the per-user referral record.
type ReferralCredit struct {
	UserID              string       `bson:"userId" json:"userId"`
	Code                string       `bson:"code" json:"code"`
	ReferredBy          string       `bson:"referredBy,omitempty" json:"referredBy,omitempty"`
	TotalReferrals      int          `bson:"totalReferrals" json:"totalReferrals"`
	SuccessfulReferrals int          `bson:"successfulReferrals" json:"successfulReferrals"`
	PendingReferrals    int          `bson:"pendingReferrals" json:"pendingReferrals"`
	DiscountType        DiscountType `bson:"discountType,omitempty" json:"discountType,omitempty"`
	DiscountValue       int64        `bson:"discountValue,omitempty" json:"discountValue,omitempty"`
	DiscountConsumed    bool         `bson:"discountConsumed" json:"discountConsumed"`
	CreatedAt           time.Time    `bson:"createdAt" json:"createdAt"`
}

// HasUnconsumedDiscount reports whether a one-time referral grant is still usable.
func (r ReferralCredit) HasUnconsumedDiscount() bool {
	return r.ReferredBy != "" && r.DiscountValue > 0 && !r.DiscountConsumed
}
