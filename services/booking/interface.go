package booking

import (
	"context"

	bookingRepo "carwash/database/repository/booking"
	"carwash/models"
	"carwash/services/availability"
	"carwash/services/pricing"
	"carwash/utils"

	"go.uber.org/zap"
)

// BookingService is the single write path for bookings.
type BookingService interface {
	// CreateBooking reserves the slot and creates a pending booking in one step.
	CreateBooking(ctx context.Context, req models.BookingRequest, actor models.Actor) (*models.Booking, error)
	TransitionBooking(ctx context.Context, bookingID string, target models.BookingStatus, actor models.Actor) (*models.Booking, error)
	EditBooking(ctx context.Context, bookingID string, patch models.BookingPatch, actor models.Actor) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error)
	ListMyBookings(ctx context.Context, actor models.Actor) ([]models.Booking, error)
	ListBookingsByDate(ctx context.Context, date string, actor models.Actor) ([]models.Booking, error)
	// MigrateGuestBookings moves guest bookings made with phone to authenticatedID.
	MigrateGuestBookings(ctx context.Context, authenticatedID, phone string) (int64, error)
	// RetryPendingRedemptions hands off redemptions that were not settled at creation.
	RetryPendingRedemptions(ctx context.Context) (int, error)
}

// Dispatcher receives work that runs after a booking change is committed.
// Failures never undo the booking change.
type Dispatcher interface {
	EnqueueRedemption(ctx context.Context, payload models.RedemptionPayload) error
	EnqueueStatusNotification(ctx context.Context, payload models.StatusNotificationPayload) error
}

type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	Availability availability.AvailabilityService
	Pricing      pricing.PricingService
	Dispatcher   Dispatcher
	Clock        utils.Clock
	Logger       *zap.Logger
}
