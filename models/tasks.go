package models

// RedemptionPayload asks the worker to redeem the discounts a booking was priced with.
type RedemptionPayload struct {
	BookingID      string `json:"bookingId"`
	PromoCode      string `json:"promoCode,omitempty"`
	ReferralUserID string `json:"referralUserId,omitempty"`
}

// HasWork reports whether there is a promo or referral to redeem.
func (p RedemptionPayload) HasWork() bool {
	return p.PromoCode != "" || p.ReferralUserID != ""
}

// StatusNotificationPayload announces a booking status change.
type StatusNotificationPayload struct {
	BookingID   string        `json:"bookingId"`
	CustomerRef string        `json:"customerRef"`
	Status      BookingStatus `json:"status"`
	Date        string        `json:"date"`
	Time        string        `json:"time"`
	UpdatedBy   string        `json:"updatedBy"`
}
