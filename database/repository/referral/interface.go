// File: database/repository/referral/interface.go
package referralRepo

import (
	"context"
	"time"

	"carwash/database"
	"carwash/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReferralRepository stores one ReferralCredit per user.
type ReferralRepository interface {
	Create(ctx context.Context, credit *models.ReferralCredit) error
	GetByUser(ctx context.Context, userID string) (*models.ReferralCredit, error)
	GetByCode(ctx context.Context, code string) (*models.ReferralCredit, error)
	// LinkReferrer sets the referrer once and grants the discount; the referrer's
	// total and pending counts move in the same step.
	LinkReferrer(ctx context.Context, userID, referrerID string, discountType models.DiscountType, value int64) error
	// Consume flips the one-time grant for bookingID. Repeating it for the same
	// booking is a no-op.
	Consume(ctx context.Context, userID, bookingID string, at time.Time) error
}

type MongoReferralRepo struct {
	coll       *mongo.Collection
	ledgerColl *mongo.Collection
}

// NewMongoReferralRepo constructs a new MongoDB ReferralRepository.
func NewMongoReferralRepo() *MongoReferralRepo {
	db := database.Database()
	return &MongoReferralRepo{
		coll:       db.Collection("referrals"),
		ledgerColl: db.Collection("redemptions"),
	}
}
