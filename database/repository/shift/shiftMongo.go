package shiftRepo

import (
	"context"
	"time"

	"carwash/models"
	"carwash/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoShiftRepo) Create(ctx context.Context, shift *models.StaffShift) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, shift); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewError(utils.ErrAlreadyExists, "staff %s already on shift at %s %s", shift.StaffID, shift.Date, shift.Time)
		}
		return utils.StoreError("insert shift", err)
	}
	return nil
}

func (r *MongoShiftRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return utils.StoreError("delete shift", err)
	}
	if res.DeletedCount == 0 {
		return utils.NewError(utils.ErrNotFound, "shift %s not found", id)
	}
	return nil
}

func (r *MongoShiftRepo) ListByDate(ctx context.Context, date string) ([]models.StaffShift, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}, {Key: "staffId", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"date": date}, opts)
	if err != nil {
		return nil, utils.StoreError("find shifts", err)
	}
	defer cursor.Close(ctx)

	shifts := []models.StaffShift{}
	if err := cursor.All(ctx, &shifts); err != nil {
		return nil, utils.StoreError("decode shifts", err)
	}
	return shifts, nil
}
