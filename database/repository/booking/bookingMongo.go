package bookingRepo

import (
	"context"
	"errors"
	"time"

	"carwash/models"
	"carwash/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	booking.Active = booking.Status.IsActive()
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewError(utils.ErrSlotNoLongerAvailable, "slot %s on %s is no longer available", booking.Time, booking.Date)
		}
		return utils.StoreError("insert booking", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewError(utils.ErrBookingNotFound, "booking %s not found", id)
	}
	if err != nil {
		return nil, utils.StoreError("get booking", err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) Update(ctx context.Context, booking *models.Booking, expectedVersion int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	next := *booking
	next.Version = expectedVersion + 1
	next.Active = next.Status.IsActive()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": booking.ID, "version": expectedVersion}, next)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewError(utils.ErrSlotNoLongerAvailable, "slot %s on %s is no longer available", booking.Time, booking.Date)
		}
		return utils.StoreError("update booking", err)
	}
	if res.MatchedCount == 0 {
		return utils.NewError(utils.ErrConcurrentUpdate, "booking %s was modified concurrently", booking.ID)
	}
	*booking = next
	return nil
}

func (r *MongoBookingRepo) ActiveSlotsForDate(ctx context.Context, date string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"time": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"date": date, "active": true}, opts)
	if err != nil {
		return nil, utils.StoreError("find active slots", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Time string `bson:"time"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, utils.StoreError("decode active slots", err)
	}
	slots := make([]string, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, row.Time)
	}
	return slots, nil
}

func (r *MongoBookingRepo) ListByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"date": date}, options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
}

func (r *MongoBookingRepo) ListByCustomer(ctx context.Context, customerRef string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"customerRef": customerRef}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// MigrateGuestBookings rewrites every guest booking with the given phone to userID.
// Migrated bookings no longer match the guest filter, so re-running is a no-op.
func (r *MongoBookingRepo) MigrateGuestBookings(ctx context.Context, phone, userID string, at time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"customerKind": models.CustomerKindGuest, "guestPhone": phone}
	update := bson.M{
		"$set": bson.M{
			"customerRef":  userID,
			"customerKind": models.CustomerKindUser,
			"updatedAt":    at,
			"updatedBy":    userID,
		},
		"$unset": bson.M{"guestPhone": ""},
		"$inc":   bson.M{"version": 1},
	}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, utils.StoreError("migrate guest bookings", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoBookingRepo) SetRedemptionPending(ctx context.Context, id string, pending bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"redemptionPending": true}}
	if !pending {
		update = bson.M{"$unset": bson.M{"redemptionPending": ""}}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return utils.StoreError("set redemption marker", err)
	}
	if res.MatchedCount == 0 {
		return utils.NewError(utils.ErrBookingNotFound, "booking %s not found", id)
	}
	return nil
}

func (r *MongoBookingRepo) ListRedemptionPending(ctx context.Context, limit int) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"redemptionPending": true}, opts)
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, utils.StoreError("find bookings", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, utils.StoreError("decode bookings", err)
	}
	return bookings, nil
}
