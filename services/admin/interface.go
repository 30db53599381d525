package admin

import (
	"context"

	bookingRepo "carwash/database/repository/booking"
	settingsRepo "carwash/database/repository/settings"
	shiftRepo "carwash/database/repository/shift"
	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
)

// AdminService holds the manager console's staffing operations.
type AdminService interface {
	AddShift(ctx context.Context, shift models.StaffShift, actor models.Actor) (*models.StaffShift, error)
	RemoveShift(ctx context.Context, shiftID string, actor models.Actor) error
	ListShifts(ctx context.Context, date string, actor models.Actor) ([]models.StaffShift, error)
	// StaffingReport compares active bookings with staff on shift for every slot of date.
	StaffingReport(ctx context.Context, date string, actor models.Actor) ([]models.SlotStaffing, error)
}

type DefaultAdminService struct {
	Shifts   shiftRepo.ShiftRepository
	Bookings bookingRepo.BookingRepository
	Settings settingsRepo.SettingsRepository
	Clock    utils.Clock
	Logger   *zap.Logger
}

func requireManager(actor models.Actor) error {
	if actor == nil || actor.Role() != models.RoleManager {
		return utils.NewError(utils.ErrForbidden, "manager access required")
	}
	return nil
}

func requirePrivileged(actor models.Actor) error {
	if !models.IsPrivileged(actor) {
		return utils.NewError(utils.ErrForbidden, "staff access required")
	}
	return nil
}
