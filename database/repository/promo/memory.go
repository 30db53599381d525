package promoRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"carwash/models"
	"carwash/utils"
)

// MemoryPromoRepo is an in-process PromoRepository.
type MemoryPromoRepo struct {
	mu       sync.Mutex
	promos   map[string]models.PromoCode
	redeemed map[string]bool
}

func NewMemoryPromoRepo() *MemoryPromoRepo {
	return &MemoryPromoRepo{
		promos:   make(map[string]models.PromoCode),
		redeemed: make(map[string]bool),
	}
}

func (r *MemoryPromoRepo) Create(_ context.Context, promo *models.PromoCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.promos[promo.Code]; exists {
		return utils.NewError(utils.ErrAlreadyExists, "promo %s already exists", promo.Code)
	}
	r.promos[promo.Code] = clonePromo(*promo)
	return nil
}

func (r *MemoryPromoRepo) Update(_ context.Context, promo *models.PromoCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.promos[promo.Code]
	if !ok {
		return utils.NewError(utils.ErrPromoNotFound, "promo %s not found", promo.Code)
	}
	next := clonePromo(*promo)
	next.CurrentUses = current.CurrentUses
	next.CreatedAt = current.CreatedAt
	r.promos[promo.Code] = next
	return nil
}

func (r *MemoryPromoRepo) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.promos[code]; !ok {
		return utils.NewError(utils.ErrPromoNotFound, "promo %s not found", code)
	}
	delete(r.promos, code)
	return nil
}

func (r *MemoryPromoRepo) GetByCode(_ context.Context, code string) (*models.PromoCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	promo, ok := r.promos[code]
	if !ok {
		return nil, utils.NewError(utils.ErrPromoNotFound, "promo %s not found", code)
	}
	out := clonePromo(promo)
	return &out, nil
}

func (r *MemoryPromoRepo) List(_ context.Context) ([]models.PromoCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.PromoCode, 0, len(r.promos))
	for _, p := range r.promos {
		out = append(out, clonePromo(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *MemoryPromoRepo) SetActive(_ context.Context, code string, active bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	promo, ok := r.promos[code]
	if !ok {
		return utils.NewError(utils.ErrPromoNotFound, "promo %s not found", code)
	}
	promo.Active = active
	promo.UpdatedAt = at
	r.promos[code] = promo
	return nil
}

func (r *MemoryPromoRepo) Redeem(_ context.Context, code, bookingID string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := models.RedemptionKey(bookingID, models.RedemptionPromo)
	if r.redeemed[key] {
		return nil
	}
	promo, ok := r.promos[code]
	if !ok || !promo.Active || (promo.MaxUses > 0 && promo.CurrentUses >= promo.MaxUses) {
		return utils.NewError(utils.ErrPromoExhausted, "promo %s can no longer be redeemed", code)
	}
	promo.CurrentUses++
	r.promos[code] = promo
	r.redeemed[key] = true
	return nil
}

func clonePromo(p models.PromoCode) models.PromoCode {
	p.Packages = append([]string(nil), p.Packages...)
	if p.ExpiresAt != nil {
		exp := *p.ExpiresAt
		p.ExpiresAt = &exp
	}
	return p
}
