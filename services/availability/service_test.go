package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingRepo "carwash/database/repository/booking"
	settingsRepo "carwash/database/repository/settings"
	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
)

func newTestService(now time.Time) (*DefaultAvailabilityService, *bookingRepo.MemoryBookingRepo) {
	bookings := bookingRepo.NewMemoryBookingRepo()
	return &DefaultAvailabilityService{
		Bookings: bookings,
		Settings: settingsRepo.NewMemorySettingsRepo(),
		Clock:    utils.FixedClock{T: now},
		Location: time.UTC,
		Logger:   zap.NewNop(),
	}, bookings
}

func TestClosedSlotLifecycle(t *testing.T) {
	svc, _ := newTestService(at("2026-10-19", 9, 0))
	ctx := context.Background()
	manager := models.ManagerActor{ManagerID: "m1"}

	cfg, err := svc.SetClosedSlots(ctx, "2026-10-21", []string{"15:00", "13:00"}, manager)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if cfg.Version != 1 || cfg.Slots[0] != "13:00" {
		t.Errorf("unexpected config %+v", cfg)
	}
	stored, _ := svc.GetClosedSlots(ctx, "2026-10-21")
	if !stored.UpdatedAt.Equal(at("2026-10-19", 9, 0)) || stored.UpdatedBy != "m1" {
		t.Errorf("expected audit stamp from the service clock, got %v by %q", stored.UpdatedAt, stored.UpdatedBy)
	}

	slots, _ := svc.GetAvailableSlots(ctx, "2026-10-21")
	if len(slots) != 11 {
		t.Errorf("expected 11 open slots, got %d", len(slots))
	}

	if _, err := svc.CloseAllSlots(ctx, "2026-10-21", manager); err != nil {
		t.Fatalf("close all: %v", err)
	}
	slots, _ = svc.GetAvailableSlots(ctx, "2026-10-21")
	if len(slots) != 0 {
		t.Errorf("expected no open slots, got %d", len(slots))
	}

	if _, err := svc.OpenAllSlots(ctx, "2026-10-21", manager); err != nil {
		t.Fatalf("open all: %v", err)
	}
	cfg, _ = svc.GetClosedSlots(ctx, "2026-10-21")
	if cfg.Version != 0 || len(cfg.Slots) != 0 {
		t.Errorf("expected date entry removed, got %+v", cfg)
	}
}

func TestSetClosedSlotsRequiresManager(t *testing.T) {
	svc, _ := newTestService(at("2026-10-19", 9, 0))
	_, err := svc.SetClosedSlots(context.Background(), "2026-10-21", []string{"13:00"}, models.StaffActor{StaffID: "s1"})
	if !errors.Is(err, utils.ErrForbidden) {
		t.Errorf("expected Forbidden, got %v", err)
	}
	_, err = svc.SetClosedSlots(context.Background(), "2026-10-21", []string{"10:00"}, models.ManagerActor{ManagerID: "m"})
	if !errors.Is(err, utils.ErrInvalidSlot) {
		t.Errorf("expected InvalidSlot, got %v", err)
	}
}

func TestCheckSlot(t *testing.T) {
	svc, bookings := newTestService(at("2026-10-19", 9, 0))
	ctx := context.Background()
	_ = bookings.Create(ctx, &models.Booking{ID: "b", Date: "2026-10-21", Time: "14:00", Status: models.StatusConfirmed})

	if err := svc.CheckSlot(ctx, "2026-10-21", "14:00"); !errors.Is(err, utils.ErrSlotNoLongerAvailable) {
		t.Errorf("expected SlotNoLongerAvailable, got %v", err)
	}
	if err := svc.CheckSlot(ctx, "2026-10-21", "15:00"); err != nil {
		t.Errorf("expected open slot, got %v", err)
	}
	if err := svc.CheckSlot(ctx, "2026-10-21", "11:00"); !errors.Is(err, utils.ErrInvalidSlot) {
		t.Errorf("expected InvalidSlot, got %v", err)
	}
}
