package promoRepo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"carwash/models"
	"carwash/utils"
)

func TestMemoryRedeemIsIdempotentPerBooking(t *testing.T) {
	repo := NewMemoryPromoRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, &models.PromoCode{Code: "SAVE10", DiscountType: models.DiscountPercentage, DiscountValue: 10, Active: true}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.Redeem(ctx, "SAVE10", "booking-1", time.Time{}); err != nil {
			t.Fatalf("redeem %d: %v", i, err)
		}
	}
	promo, _ := repo.GetByCode(ctx, "SAVE10")
	if promo.CurrentUses != 1 {
		t.Errorf("expected 1 use, got %d", promo.CurrentUses)
	}
}

func TestMemoryRedeemRespectsCapUnderConcurrency(t *testing.T) {
	repo := NewMemoryPromoRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, &models.PromoCode{Code: "LIMITED", DiscountType: models.DiscountFixed, DiscountValue: 5, MaxUses: 3, Active: true}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	exhausted := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Redeem(ctx, "LIMITED", fmt.Sprintf("booking-%d", i), time.Time{})
			if errors.Is(err, utils.ErrPromoExhausted) {
				mu.Lock()
				exhausted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	promo, _ := repo.GetByCode(ctx, "LIMITED")
	if promo.CurrentUses != 3 || exhausted != 7 {
		t.Errorf("expected 3 uses and 7 rejections, got %d and %d", promo.CurrentUses, exhausted)
	}
}

func TestMemoryUpdateKeepsUsageCounter(t *testing.T) {
	repo := NewMemoryPromoRepo()
	ctx := context.Background()
	_ = repo.Create(ctx, &models.PromoCode{Code: "X", DiscountType: models.DiscountFixed, DiscountValue: 5, Active: true})
	_ = repo.Redeem(ctx, "X", "b1", time.Time{})

	if err := repo.Update(ctx, &models.PromoCode{Code: "X", DiscountType: models.DiscountFixed, DiscountValue: 7, Active: true}); err != nil {
		t.Fatal(err)
	}
	promo, _ := repo.GetByCode(ctx, "X")
	if promo.DiscountValue != 7 || promo.CurrentUses != 1 {
		t.Errorf("unexpected promo after update %+v", promo)
	}
}
