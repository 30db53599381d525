// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"time"

	"carwash/database"
	"carwash/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository persists bookings. Create and Update enforce at most one
// active booking per (date, time) and fail with SlotNoLongerAvailable otherwise.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Update replaces the booking if its stored version still equals expectedVersion.
	Update(ctx context.Context, booking *models.Booking, expectedVersion int) error
	ActiveSlotsForDate(ctx context.Context, date string) ([]string, error)
	ListByDate(ctx context.Context, date string) ([]models.Booking, error)
	ListByCustomer(ctx context.Context, customerRef string) ([]models.Booking, error)
	MigrateGuestBookings(ctx context.Context, phone, userID string, at time.Time) (int64, error)
	// SetRedemptionPending flags or clears the redemption marker without bumping the version.
	SetRedemptionPending(ctx context.Context, id string, pending bool) error
	ListRedemptionPending(ctx context.Context, limit int) ([]models.Booking, error)
}

type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{
		coll: database.Database().Collection("bookings"),
	}
}
