package referralRepo

import (
	"context"
	"errors"
	"time"

	"carwash/database"
	"carwash/models"
	"carwash/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var errAlreadyConsumed = errors.New("already consumed")

func (r *MongoReferralRepo) Create(ctx context.Context, credit *models.ReferralCredit) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, credit); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewError(utils.ErrAlreadyExists, "referral for %s or code %s already exists", credit.UserID, credit.Code)
		}
		return utils.StoreError("insert referral", err)
	}
	return nil
}

func (r *MongoReferralRepo) GetByUser(ctx context.Context, userID string) (*models.ReferralCredit, error) {
	return r.findOne(ctx, bson.M{"userId": userID})
}

func (r *MongoReferralRepo) GetByCode(ctx context.Context, code string) (*models.ReferralCredit, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *MongoReferralRepo) LinkReferrer(ctx context.Context, userID, referrerID string, discountType models.DiscountType, value int64) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := database.WithTransaction(ctx, r.coll.Database().Client(), func(sc mongo.SessionContext) error {
		filter := bson.M{"userId": userID, "referredBy": bson.M{"$in": bson.A{nil, ""}}}
		update := bson.M{"$set": bson.M{
			"referredBy":       referrerID,
			"discountType":     discountType,
			"discountValue":    value,
			"discountConsumed": false,
		}}
		res, err := r.coll.UpdateOne(sc, filter, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return utils.NewError(utils.ErrReferralUnavailable, "user %s already has a referrer", userID)
		}

		res, err = r.coll.UpdateOne(sc,
			bson.M{"userId": referrerID},
			bson.M{"$inc": bson.M{"totalReferrals": 1, "pendingReferrals": 1}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return utils.NewError(utils.ErrReferralUnavailable, "referrer %s not found", referrerID)
		}
		return nil
	})
	return utils.StoreError("link referrer", err)
}

func (r *MongoReferralRepo) Consume(ctx context.Context, userID, bookingID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := database.WithTransaction(ctx, r.coll.Database().Client(), func(sc mongo.SessionContext) error {
		entry := models.Redemption{
			ID:        models.RedemptionKey(bookingID, models.RedemptionReferral),
			BookingID: bookingID,
			Kind:      models.RedemptionReferral,
			Ref:       userID,
			CreatedAt: at,
		}
		if _, err := r.ledgerColl.InsertOne(sc, entry); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return errAlreadyConsumed
			}
			return err
		}

		var credit models.ReferralCredit
		err := r.coll.FindOneAndUpdate(sc,
			bson.M{"userId": userID, "discountConsumed": false, "referredBy": bson.M{"$nin": bson.A{nil, ""}}},
			bson.M{"$set": bson.M{"discountConsumed": true}},
		).Decode(&credit)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewError(utils.ErrReferralUnavailable, "no unconsumed referral credit for %s", userID)
		}
		if err != nil {
			return err
		}

		_, err = r.coll.UpdateOne(sc,
			bson.M{"userId": credit.ReferredBy, "pendingReferrals": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"pendingReferrals": -1, "successfulReferrals": 1}},
		)
		return err
	})

	if errors.Is(err, errAlreadyConsumed) {
		return nil
	}
	return utils.StoreError("consume referral", err)
}

func (r *MongoReferralRepo) findOne(ctx context.Context, filter interface{}) (*models.ReferralCredit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var credit models.ReferralCredit
	err := r.coll.FindOne(ctx, filter).Decode(&credit)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewError(utils.ErrNotFound, "referral credit not found")
	}
	if err != nil {
		return nil, utils.StoreError("get referral", err)
	}
	return &credit, nil
}
