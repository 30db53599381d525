package booking

import (
	"time"

	"carwash/models"
	"carwash/utils"
)

// Transition moves a copy of b to target and stamps the transition timestamps.
// b itself is never modified, so a rejected call leaves the booking untouched.
func Transition(b models.Booking, target models.BookingStatus, actorID string, now time.Time) (models.Booking, error) {
	if !target.IsValid() {
		return b, utils.NewError(utils.ErrIllegalTransition, "unknown status %q", target)
	}
	if b.Status.IsTerminal() {
		return b, utils.NewError(utils.ErrTerminalState, "booking %s is already %s", b.ID, b.Status)
	}
	if !b.Status.CanTransitionTo(target) {
		return b, utils.NewError(utils.ErrIllegalTransition, "cannot move booking %s from %s to %s", b.ID, b.Status, target)
	}

	next := b
	stamp := now
	switch target {
	case models.StatusConfirmed:
		next.ConfirmedAt = &stamp
	case models.StatusOnTheWay:
		next.StartedJourneyAt = &stamp
	case models.StatusInProgress:
		next.StartedAt = &stamp
	case models.StatusCompleted:
		next.CompletedAt = &stamp
	case models.StatusCancelled:
		next.CancelledAt = &stamp
	}
	next.Status = target
	next.Active = target.IsActive()
	next.UpdatedAt = now
	next.UpdatedBy = actorID
	return next, nil
}
