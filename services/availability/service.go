package availability

import (
	"context"
	"time"

	bookingRepo "carwash/database/repository/booking"
	settingsRepo "carwash/database/repository/settings"
	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AvailabilityService serves slot lists and the manager's closed-slot configuration.
type AvailabilityService interface {
	GetAvailableSlots(ctx context.Context, date string) ([]models.TimeSlot, error)
	// CheckSlot fails with InvalidSlot for unknown ids and SlotNoLongerAvailable
	// when the slot is booked, closed or already past.
	CheckSlot(ctx context.Context, date, slotID string) error
	GetClosedSlots(ctx context.Context, date string) (models.ClosedSlotConfig, error)
	SetClosedSlots(ctx context.Context, date string, slotIDs []string, actor models.Actor) (models.ClosedSlotConfig, error)
	OpenAllSlots(ctx context.Context, date string, actor models.Actor) (models.ClosedSlotConfig, error)
	CloseAllSlots(ctx context.Context, date string, actor models.Actor) (models.ClosedSlotConfig, error)
	Now() time.Time
}

type DefaultAvailabilityService struct {
	Bookings bookingRepo.BookingRepository
	Settings settingsRepo.SettingsRepository
	Clock    utils.Clock
	Location *time.Location
	Logger   *zap.Logger
}

// Now returns the clock reading in the business timezone.
func (s *DefaultAvailabilityService) Now() time.Time {
	now := s.Clock.Now()
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return now
}

func (s *DefaultAvailabilityService) load(ctx context.Context, date string) (booked []string, closed models.ClosedSlotConfig, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		booked, err = s.Bookings.ActiveSlotsForDate(gctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		closed, err = s.Settings.GetClosedSlots(gctx, date)
		return err
	})
	err = g.Wait()
	return booked, closed, err
}

func (s *DefaultAvailabilityService) GetAvailableSlots(ctx context.Context, date string) ([]models.TimeSlot, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	booked, closed, err := s.load(ctx, date)
	if err != nil {
		s.Logger.Error("failed to load slot state", zap.String("date", date), zap.Error(err))
		return nil, err
	}
	return AvailableSlots(date, s.Now(), booked, closed.Slots)
}

func (s *DefaultAvailabilityService) CheckSlot(ctx context.Context, date, slotID string) error {
	if _, ok := LookupSlot(slotID); !ok {
		return utils.NewError(utils.ErrInvalidSlot, "unknown slot %q", slotID)
	}
	if _, err := ParseDate(date); err != nil {
		return err
	}
	booked, closed, err := s.load(ctx, date)
	if err != nil {
		return err
	}
	ok, err := IsAvailable(slotID, date, s.Now(), booked, closed.Slots)
	if err != nil {
		return err
	}
	if !ok {
		return utils.NewError(utils.ErrSlotNoLongerAvailable, "slot %s on %s is no longer available", slotID, date)
	}
	return nil
}

func (s *DefaultAvailabilityService) GetClosedSlots(ctx context.Context, date string) (models.ClosedSlotConfig, error) {
	if _, err := ParseDate(date); err != nil {
		return models.ClosedSlotConfig{}, err
	}
	return s.Settings.GetClosedSlots(ctx, date)
}

// SetClosedSlots replaces the closed set for date. An empty set deletes the entry.
func (s *DefaultAvailabilityService) SetClosedSlots(ctx context.Context, date string, slotIDs []string, actor models.Actor) (models.ClosedSlotConfig, error) {
	if _, ok := actor.(models.ManagerActor); !ok {
		return models.ClosedSlotConfig{}, utils.NewError(utils.ErrForbidden, "only managers can change closed slots")
	}
	if _, err := ParseDate(date); err != nil {
		return models.ClosedSlotConfig{}, err
	}
	for _, id := range slotIDs {
		if _, ok := LookupSlot(id); !ok {
			return models.ClosedSlotConfig{}, utils.NewError(utils.ErrInvalidSlot, "unknown slot %q", id)
		}
	}

	current, err := s.Settings.GetClosedSlots(ctx, date)
	if err != nil {
		return models.ClosedSlotConfig{}, err
	}
	current.Date = date
	current.Slots = SortSlotIDs(slotIDs)
	current.UpdatedBy = actor.ActorID()
	current.UpdatedAt = s.Now()

	saved, err := s.Settings.SaveClosedSlots(ctx, current)
	if err != nil {
		return models.ClosedSlotConfig{}, err
	}
	s.Logger.Info("closed slots updated",
		zap.String("date", date),
		zap.Strings("slots", saved.Slots),
		zap.String("managerId", actor.ActorID()))
	return saved, nil
}

func (s *DefaultAvailabilityService) OpenAllSlots(ctx context.Context, date string, actor models.Actor) (models.ClosedSlotConfig, error) {
	return s.SetClosedSlots(ctx, date, nil, actor)
}

func (s *DefaultAvailabilityService) CloseAllSlots(ctx context.Context, date string, actor models.Actor) (models.ClosedSlotConfig, error) {
	all := make([]string, 0, len(slotCatalog))
	for _, slot := range slotCatalog {
		all = append(all, slot.ID)
	}
	return s.SetClosedSlots(ctx, date, all, actor)
}
