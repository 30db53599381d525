package referralRepo

import (
	"context"
	"sync"
	"time"

	"carwash/models"
	"carwash/utils"
)

// MemoryReferralRepo is an in-process ReferralRepository.
type MemoryReferralRepo struct {
	mu       sync.Mutex
	byUser   map[string]models.ReferralCredit
	codes    map[string]string
	consumed map[string]bool
}

func NewMemoryReferralRepo() *MemoryReferralRepo {
	return &MemoryReferralRepo{
		byUser:   make(map[string]models.ReferralCredit),
		codes:    make(map[string]string),
		consumed: make(map[string]bool),
	}
}

func (r *MemoryReferralRepo) Create(_ context.Context, credit *models.ReferralCredit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUser[credit.UserID]; exists {
		return utils.NewError(utils.ErrAlreadyExists, "referral for %s or code %s already exists", credit.UserID, credit.Code)
	}
	if _, exists := r.codes[credit.Code]; exists {
		return utils.NewError(utils.ErrAlreadyExists, "referral for %s or code %s already exists", credit.UserID, credit.Code)
	}
	r.byUser[credit.UserID] = *credit
	r.codes[credit.Code] = credit.UserID
	return nil
}

func (r *MemoryReferralRepo) GetByUser(_ context.Context, userID string) (*models.ReferralCredit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	credit, ok := r.byUser[userID]
	if !ok {
		return nil, utils.NewError(utils.ErrNotFound, "referral credit not found")
	}
	return &credit, nil
}

func (r *MemoryReferralRepo) GetByCode(ctx context.Context, code string) (*models.ReferralCredit, error) {
	r.mu.Lock()
	userID, ok := r.codes[code]
	r.mu.Unlock()
	if !ok {
		return nil, utils.NewError(utils.ErrNotFound, "referral credit not found")
	}
	return r.GetByUser(ctx, userID)
}

func (r *MemoryReferralRepo) LinkReferrer(_ context.Context, userID, referrerID string, discountType models.DiscountType, value int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	credit, ok := r.byUser[userID]
	if !ok || credit.ReferredBy != "" {
		return utils.NewError(utils.ErrReferralUnavailable, "user %s already has a referrer", userID)
	}
	referrer, ok := r.byUser[referrerID]
	if !ok {
		return utils.NewError(utils.ErrReferralUnavailable, "referrer %s not found", referrerID)
	}

	credit.ReferredBy = referrerID
	credit.DiscountType = discountType
	credit.DiscountValue = value
	credit.DiscountConsumed = false
	referrer.TotalReferrals++
	referrer.PendingReferrals++
	r.byUser[userID] = credit
	r.byUser[referrerID] = referrer
	return nil
}

func (r *MemoryReferralRepo) Consume(_ context.Context, userID, bookingID string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := models.RedemptionKey(bookingID, models.RedemptionReferral)
	if r.consumed[key] {
		return nil
	}
	credit, ok := r.byUser[userID]
	if !ok || !credit.HasUnconsumedDiscount() {
		return utils.NewError(utils.ErrReferralUnavailable, "no unconsumed referral credit for %s", userID)
	}
	credit.DiscountConsumed = true
	r.byUser[userID] = credit
	if referrer, ok := r.byUser[credit.ReferredBy]; ok && referrer.PendingReferrals > 0 {
		referrer.PendingReferrals--
		referrer.SuccessfulReferrals++
		r.byUser[credit.ReferredBy] = referrer
	}
	r.consumed[key] = true
	return nil
}
