package booking

import (
	"context"

	"carwash/models"
	"carwash/services/availability"
	"carwash/utils"

	"go.uber.org/zap"
)

func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := canView(b, actor); err != nil {
		return nil, err
	}
	return b, nil
}

// ListMyBookings returns the caller's own bookings, newest first.
func (s *DefaultBookingService) ListMyBookings(ctx context.Context, actor models.Actor) ([]models.Booking, error) {
	ref := ownerRef(actor)
	if ref == "" {
		return nil, utils.NewError(utils.ErrForbidden, "only customers and guests have own bookings")
	}
	return s.Repo.ListByCustomer(ctx, ref)
}

func (s *DefaultBookingService) ListBookingsByDate(ctx context.Context, date string, actor models.Actor) ([]models.Booking, error) {
	if !models.IsPrivileged(actor) {
		return nil, utils.NewError(utils.ErrForbidden, "console access required")
	}
	if _, err := availability.ParseDate(date); err != nil {
		return nil, err
	}
	return s.Repo.ListByDate(ctx, date)
}

// MigrateGuestBookings is keyed by the normalized phone; a second run finds nothing to move.
func (s *DefaultBookingService) MigrateGuestBookings(ctx context.Context, authenticatedID, phone string) (int64, error) {
	phone = utils.NormalizePhone(phone)
	if authenticatedID == "" || phone == "" {
		return 0, utils.NewError(utils.ErrInvalidSelection, "identity and phone are required")
	}
	n, err := s.Repo.MigrateGuestBookings(ctx, phone, authenticatedID, s.Clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.Logger.Info("guest bookings migrated", zap.String("userId", authenticatedID), zap.Int64("count", n))
	}
	return n, nil
}
