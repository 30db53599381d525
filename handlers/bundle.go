package handlers

import (
	"carwash/services/guest"
)

// HandlerBundle groups every endpoint handler plus what the auth middleware needs.
type HandlerBundle struct {
	JWTSecret []byte
	Guests    guest.SessionService

	Booking *BookingHandler
	Slots   *SlotsHandler
	Pricing *PricingHandler
	Admin   *AdminHandler
	Guest   *GuestHandler
}
