// File: database/repository/promo/interface.go
package promoRepo

import (
	"context"
	"time"

	"carwash/database"
	"carwash/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// PromoRepository stores promo codes keyed by normalized code.
type PromoRepository interface {
	Create(ctx context.Context, promo *models.PromoCode) error
	// Update overwrites the manager-editable fields; CurrentUses is left untouched.
	Update(ctx context.Context, promo *models.PromoCode) error
	Delete(ctx context.Context, code string) error
	GetByCode(ctx context.Context, code string) (*models.PromoCode, error)
	List(ctx context.Context) ([]models.PromoCode, error)
	SetActive(ctx context.Context, code string, active bool, at time.Time) error
	// Redeem increments CurrentUses once per booking. A repeated call for the
	// same booking is a no-op.
	Redeem(ctx context.Context, code, bookingID string, at time.Time) error
}

type MongoPromoRepo struct {
	coll       *mongo.Collection
	ledgerColl *mongo.Collection
}

// NewMongoPromoRepo constructs a new MongoDB PromoRepository.
func NewMongoPromoRepo() *MongoPromoRepo {
	db := database.Database()
	return &MongoPromoRepo{
		coll:       db.Collection("promo_codes"),
		ledgerColl: db.Collection("redemptions"),
	}
}
