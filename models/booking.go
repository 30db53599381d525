package models

import "time"

// CustomerKind tells which creation path owns a booking.
type CustomerKind string

const (
	CustomerKindUser  CustomerKind = "user"
	CustomerKindGuest CustomerKind = "guest"
	CustomerKindStaff CustomerKind = "staff"
)

// BookingSource separates self-service orders from staff-assisted ones.
type BookingSource string

const (
	SourceSelfService BookingSource = "self_service"
	SourceStaff       BookingSource = "staff"
)

type GeoPoint struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type Location struct {
	Area   string    `bson:"area" json:"area"`
	Villa  string    `bson:"villa,omitempty" json:"villa,omitempty"`
	Street string    `bson:"street,omitempty" json:"street,omitempty"`
	Geo    *GeoPoint `bson:"geo,omitempty" json:"geo,omitempty"`
}

// PriceBreakdown is the output of the pricing engine. All amounts are integer currency units.
type PriceBreakdown struct {
	Base                 int64 `bson:"base" json:"base"`
	SubscriptionDiscount int64 `bson:"subscriptionDiscount" json:"subscriptionDiscount"`
	AddOnsTotal          int64 `bson:"addOnsTotal" json:"addOnsTotal"`
	PromoDiscount        int64 `bson:"promoDiscount" json:"promoDiscount"`
	ReferralDiscount     int64 `bson:"referralDiscount" json:"referralDiscount"`
	DiscountAmount       int64 `bson:"discountAmount" json:"discountAmount"`
	Total                int64 `bson:"total" json:"total"`
}

// Booking is the central reservation record. It is never deleted.
type Booking struct {
	ID           string        `bson:"id" json:"id"`
	CustomerRef  string        `bson:"customerRef" json:"customerRef"`
	CustomerKind CustomerKind  `bson:"customerKind" json:"customerKind"`
	GuestPhone   string        `bson:"guestPhone,omitempty" json:"guestPhone,omitempty"`
	ContactName  string        `bson:"contactName,omitempty" json:"contactName,omitempty"`
	ContactPhone string        `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	Source       BookingSource `bson:"source" json:"source"`
	EnteredBy    string        `bson:"enteredBy,omitempty" json:"enteredBy,omitempty"`

	Selection       ServiceSelection `bson:"selection" json:"selection"`
	ReferralApplied bool             `bson:"referralApplied" json:"referralApplied"`
	// RedemptionPending is set when the promo or referral use could not be
	// handed off after creation; the redemption sweep clears it.
	RedemptionPending bool `bson:"redemptionPending,omitempty" json:"-"`

	Date          string   `bson:"date" json:"date"`
	Time          string   `bson:"time" json:"time"`
	Location      Location `bson:"location" json:"location"`
	PaymentMethod string   `bson:"paymentMethod" json:"paymentMethod"`
	Notes         string   `bson:"notes,omitempty" json:"notes,omitempty"`

	Price     int64          `bson:"price" json:"price"`
	Breakdown PriceBreakdown `bson:"breakdown" json:"breakdown"`

	Status BookingStatus `bson:"status" json:"status"`
	// Active mirrors Status.IsActive and backs the per-slot unique index.
	Active  bool `bson:"active" json:"-"`
	Version int  `bson:"version" json:"version"`

	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time  `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy        string     `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	ConfirmedAt      *time.Time `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	StartedJourneyAt *time.Time `bson:"startedJourneyAt,omitempty" json:"startedJourneyAt,omitempty"`
	StartedAt        *time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt      *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt      *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}

// BookingRequest is the input to every creation path.
type BookingRequest struct {
	Selection     ServiceSelection `json:"selection"`
	Date          string           `json:"date"`
	Time          string           `json:"time"`
	Location      Location         `json:"location"`
	PaymentMethod string           `json:"paymentMethod"`
	Notes         string           `json:"notes,omitempty"`
	UseReferral   bool             `json:"useReferral,omitempty"`
	// Contact details typed in by staff for an assisted order.
	ContactName  string `json:"contactName,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
}

// BookingPatch carries the editable fields. Nil means unchanged.
type BookingPatch struct {
	Date      *string   `json:"date,omitempty"`
	Time      *string   `json:"time,omitempty"`
	PackageID *string   `json:"packageId,omitempty"`
	Location  *Location `json:"location,omitempty"`
	Price     *int64    `json:"price,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
}

func (p BookingPatch) IsEmpty() bool {
	return p.Date == nil && p.Time == nil && p.PackageID == nil && p.Location == nil && p.Price == nil && p.Notes == nil
}
