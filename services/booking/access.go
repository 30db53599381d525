package booking

import (
	"carwash/models"
	"carwash/utils"
)

// ownerRef is the customer reference a self-service actor books under.
func ownerRef(actor models.Actor) string {
	switch a := actor.(type) {
	case models.CustomerActor:
		return a.UserID
	case models.GuestActor:
		return models.GuestCustomerRef(a.SessionID)
	}
	return ""
}

func isOwner(b *models.Booking, actor models.Actor) bool {
	ref := ownerRef(actor)
	return ref != "" && b.CustomerRef == ref
}

func canView(b *models.Booking, actor models.Actor) error {
	if models.IsPrivileged(actor) || isOwner(b, actor) {
		return nil
	}
	return utils.NewError(utils.ErrForbidden, "booking %s belongs to another customer", b.ID)
}

// canTransition lets staff and managers drive the lifecycle; owners may only cancel.
func canTransition(b *models.Booking, target models.BookingStatus, actor models.Actor) error {
	if models.IsPrivileged(actor) {
		return nil
	}
	if isOwner(b, actor) && target == models.StatusCancelled {
		return nil
	}
	return utils.NewError(utils.ErrForbidden, "not allowed to move booking %s to %s", b.ID, target)
}
