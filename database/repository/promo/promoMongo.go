package promoRepo

import (
	"context"
	"errors"
	"time"

	"carwash/database"
	"carwash/models"
	"carwash/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errAlreadyRedeemed = errors.New("already redeemed")

func (r *MongoPromoRepo) Create(ctx context.Context, promo *models.PromoCode) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, promo); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewError(utils.ErrAlreadyExists, "promo %s already exists", promo.Code)
		}
		return utils.StoreError("insert promo", err)
	}
	return nil
}

func (r *MongoPromoRepo) Update(ctx context.Context, promo *models.PromoCode) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"discountType":  promo.DiscountType,
		"discountValue": promo.DiscountValue,
		"maxUses":       promo.MaxUses,
		"expiresAt":     promo.ExpiresAt,
		"packages":      promo.Packages,
		"active":        promo.Active,
		"updatedAt":     promo.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"code": promo.Code}, update)
	if err != nil {
		return utils.StoreError("update promo", err)
	}
	if res.MatchedCount == 0 {
		return utils.NewError(utils.ErrPromoNotFound, "promo %s not found", promo.Code)
	}
	return nil
}

func (r *MongoPromoRepo) Delete(ctx context.Context, code string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"code": code})
	if err != nil {
		return utils.StoreError("delete promo", err)
	}
	if res.DeletedCount == 0 {
		return utils.NewError(utils.ErrPromoNotFound, "promo %s not found", code)
	}
	return nil
}

func (r *MongoPromoRepo) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var promo models.PromoCode
	err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&promo)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewError(utils.ErrPromoNotFound, "promo %s not found", code)
	}
	if err != nil {
		return nil, utils.StoreError("get promo", err)
	}
	return &promo, nil
}

func (r *MongoPromoRepo) List(ctx context.Context) ([]models.PromoCode, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, utils.StoreError("list promos", err)
	}
	defer cursor.Close(ctx)

	promos := []models.PromoCode{}
	if err := cursor.All(ctx, &promos); err != nil {
		return nil, utils.StoreError("decode promos", err)
	}
	return promos, nil
}

func (r *MongoPromoRepo) SetActive(ctx context.Context, code string, active bool, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"code": code}, bson.M{"$set": bson.M{"active": active, "updatedAt": at}})
	if err != nil {
		return utils.StoreError("toggle promo", err)
	}
	if res.MatchedCount == 0 {
		return utils.NewError(utils.ErrPromoNotFound, "promo %s not found", code)
	}
	return nil
}

// Redeem writes the ledger entry and bumps currentUses in one transaction.
// The increment is conditional on the cap so concurrent checkouts cannot overshoot it.
func (r *MongoPromoRepo) Redeem(ctx context.Context, code, bookingID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := database.WithTransaction(ctx, r.coll.Database().Client(), func(sc mongo.SessionContext) error {
		entry := models.Redemption{
			ID:        models.RedemptionKey(bookingID, models.RedemptionPromo),
			BookingID: bookingID,
			Kind:      models.RedemptionPromo,
			Ref:       code,
			CreatedAt: at,
		}
		if _, err := r.ledgerColl.InsertOne(sc, entry); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return errAlreadyRedeemed
			}
			return err
		}

		filter := bson.M{
			"code":   code,
			"active": true,
			"$expr": bson.M{"$or": bson.A{
				bson.M{"$eq": bson.A{"$maxUses", 0}},
				bson.M{"$lt": bson.A{"$currentUses", "$maxUses"}},
			}},
		}
		res, err := r.coll.UpdateOne(sc, filter, bson.M{"$inc": bson.M{"currentUses": 1}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return utils.NewError(utils.ErrPromoExhausted, "promo %s can no longer be redeemed", code)
		}
		return nil
	})

	if errors.Is(err, errAlreadyRedeemed) {
		return nil
	}
	return utils.StoreError("redeem promo", err)
}
