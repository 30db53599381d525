package booking

import (
	"context"
	"strings"

	"carwash/models"
	"carwash/services/pricing"
	"carwash/utils"

	"go.uber.org/zap"
)

// TransitionBooking applies one state machine step and persists it with a
// version check, so concurrent transitions on one booking serialize.
func (s *DefaultBookingService) TransitionBooking(ctx context.Context, bookingID string, target models.BookingStatus, actor models.Actor) (*models.Booking, error) {
	current, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := canTransition(current, target, actor); err != nil {
		return nil, err
	}

	next, err := Transition(*current, target, actor.ActorID(), s.Clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, &next, current.Version); err != nil {
		return nil, err
	}

	s.Logger.Info("booking status changed",
		zap.String("bookingId", next.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next.Status)),
		zap.String("by", actor.ActorID()))
	s.notify(ctx, &next)
	return &next, nil
}

func (s *DefaultBookingService) notify(ctx context.Context, b *models.Booking) {
	if s.Dispatcher == nil {
		return
	}
	payload := models.StatusNotificationPayload{
		BookingID:   b.ID,
		CustomerRef: b.CustomerRef,
		Status:      b.Status,
		Date:        b.Date,
		Time:        b.Time,
		UpdatedBy:   b.UpdatedBy,
	}
	if err := s.Dispatcher.EnqueueStatusNotification(ctx, payload); err != nil {
		s.Logger.Warn("failed to enqueue status notification", zap.String("bookingId", b.ID), zap.Error(err))
	}
}

// EditBooking applies a patch to an active booking. A package change reprices
// the booking in the same write; a slot change is re-checked for availability
// and the write itself re-verifies slot uniqueness.
func (s *DefaultBookingService) EditBooking(ctx context.Context, bookingID string, patch models.BookingPatch, actor models.Actor) (*models.Booking, error) {
	if patch.IsEmpty() {
		return nil, utils.NewError(utils.ErrInvalidSelection, "nothing to edit")
	}
	current, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !models.IsPrivileged(actor) && !isOwner(current, actor) {
		return nil, utils.NewError(utils.ErrForbidden, "booking %s belongs to another customer", bookingID)
	}
	if !current.Status.IsActive() {
		return nil, utils.NewError(utils.ErrNotEditable, "booking %s is %s", bookingID, current.Status)
	}

	next := *current
	next.Selection.AddOns = append([]string(nil), current.Selection.AddOns...)

	if patch.Date != nil {
		next.Date = *patch.Date
	}
	if patch.Time != nil {
		next.Time = *patch.Time
	}
	if next.Date != current.Date || next.Time != current.Time {
		if err := s.Availability.CheckSlot(ctx, next.Date, next.Time); err != nil {
			return nil, err
		}
	}

	if patch.PackageID != nil && *patch.PackageID != current.Selection.PackageID {
		if patch.Price != nil {
			return nil, utils.NewError(utils.ErrInvalidSelection, "price cannot be set together with a package change")
		}
		next.Selection.PackageID = strings.TrimSpace(*patch.PackageID)
		opts := pricing.QuoteOptions{PromoHeld: next.Selection.PromoCode != ""}
		if current.ReferralApplied {
			opts.ReferralUserID = current.CustomerRef
			opts.ReferralHeld = true
		}
		quote, err := s.Pricing.Quote(ctx, next.Selection, opts)
		if err != nil {
			return nil, err
		}
		next.Price = quote.Breakdown.Total
		next.Breakdown = quote.Breakdown
	}

	if patch.Price != nil {
		if _, ok := actor.(models.ManagerActor); !ok {
			return nil, utils.NewError(utils.ErrForbidden, "only managers can override the price")
		}
		if *patch.Price < 0 {
			return nil, utils.NewError(utils.ErrInvalidSelection, "price cannot be negative")
		}
		next.Price = *patch.Price
		next.Breakdown.Total = *patch.Price
	}

	if patch.Location != nil {
		if strings.TrimSpace(patch.Location.Area) == "" {
			return nil, utils.NewError(utils.ErrInvalidSelection, "location area is required")
		}
		next.Location = *patch.Location
	}
	if patch.Notes != nil {
		next.Notes = *patch.Notes
	}

	next.UpdatedAt = s.Clock.Now()
	next.UpdatedBy = actor.ActorID()
	if err := s.Repo.Update(ctx, &next, current.Version); err != nil {
		return nil, err
	}

	s.Logger.Info("booking edited", zap.String("bookingId", next.ID), zap.String("by", actor.ActorID()))
	return &next, nil
}
