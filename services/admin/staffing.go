package admin

import (
	"context"
	"strings"

	"carwash/models"
	"carwash/services/availability"
	"carwash/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func (s *DefaultAdminService) AddShift(ctx context.Context, shift models.StaffShift, actor models.Actor) (*models.StaffShift, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	shift.StaffID = strings.TrimSpace(shift.StaffID)
	if shift.StaffID == "" {
		return nil, utils.NewError(utils.ErrInvalidSelection, "staffId is required")
	}
	if _, err := availability.ParseDate(shift.Date); err != nil {
		return nil, err
	}
	if _, ok := availability.LookupSlot(shift.Time); !ok {
		return nil, utils.NewError(utils.ErrInvalidSlot, "unknown slot %q", shift.Time)
	}

	shift.ID = uuid.New().String()
	shift.CreatedAt = s.Clock.Now()
	if err := s.Shifts.Create(ctx, &shift); err != nil {
		return nil, err
	}
	s.Logger.Info("shift added",
		zap.String("staffId", shift.StaffID), zap.String("date", shift.Date), zap.String("time", shift.Time))
	return &shift, nil
}

func (s *DefaultAdminService) RemoveShift(ctx context.Context, shiftID string, actor models.Actor) error {
	if err := requireManager(actor); err != nil {
		return err
	}
	return s.Shifts.Delete(ctx, shiftID)
}

func (s *DefaultAdminService) ListShifts(ctx context.Context, date string, actor models.Actor) ([]models.StaffShift, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}
	if _, err := availability.ParseDate(date); err != nil {
		return nil, err
	}
	return s.Shifts.ListByDate(ctx, date)
}

func (s *DefaultAdminService) StaffingReport(ctx context.Context, date string, actor models.Actor) ([]models.SlotStaffing, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}
	if _, err := availability.ParseDate(date); err != nil {
		return nil, err
	}

	var (
		booked []string
		shifts []models.StaffShift
		closed models.ClosedSlotConfig
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		booked, err = s.Bookings.ActiveSlotsForDate(gctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		shifts, err = s.Shifts.ListByDate(gctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		closed, err = s.Settings.GetClosedSlots(gctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		s.Logger.Error("failed to load staffing state", zap.String("date", date), zap.Error(err))
		return nil, err
	}

	return BuildStaffingReport(booked, shifts, closed.Slots), nil
}

// BuildStaffingReport returns one row per slot in catalog order.
func BuildStaffingReport(booked []string, shifts []models.StaffShift, closed []string) []models.SlotStaffing {
	bookings := make(map[string]int, len(booked))
	for _, slot := range booked {
		bookings[slot]++
	}
	staff := make(map[string]int, len(shifts))
	for _, sh := range shifts {
		staff[sh.Time]++
	}
	closedSet := make(map[string]bool, len(closed))
	for _, slot := range closed {
		closedSet[slot] = true
	}

	catalog := availability.SlotCatalog()
	report := make([]models.SlotStaffing, 0, len(catalog))
	for _, slot := range catalog {
		row := models.SlotStaffing{
			Slot:           slot,
			ActiveBookings: bookings[slot.ID],
			StaffOnShift:   staff[slot.ID],
			Closed:         closedSet[slot.ID],
		}
		row.Understaffed = row.ActiveBookings > row.StaffOnShift
		report = append(report, row)
	}
	return report
}
