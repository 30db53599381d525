package bookingRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"carwash/models"
	"carwash/utils"
)

// MemoryBookingRepo is an in-process BookingRepository. A slot index guarded by
// the same mutex as the records plays the role of the partial unique index.
type MemoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	slots    map[string]string
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{
		bookings: make(map[string]models.Booking),
		slots:    make(map[string]string),
	}
}

func slotKey(date, slot string) string { return date + "|" + slot }

func (r *MemoryBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return utils.NewError(utils.ErrAlreadyExists, "booking %s already exists", booking.ID)
	}
	booking.Active = booking.Status.IsActive()
	key := slotKey(booking.Date, booking.Time)
	if booking.Active {
		if _, taken := r.slots[key]; taken {
			return utils.NewError(utils.ErrSlotNoLongerAvailable, "slot %s on %s is no longer available", booking.Time, booking.Date)
		}
		r.slots[key] = booking.ID
	}
	r.bookings[booking.ID] = cloneBooking(*booking)
	return nil
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, utils.NewError(utils.ErrBookingNotFound, "booking %s not found", id)
	}
	out := cloneBooking(b)
	return &out, nil
}

func (r *MemoryBookingRepo) Update(_ context.Context, booking *models.Booking, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.bookings[booking.ID]
	if !ok || current.Version != expectedVersion {
		return utils.NewError(utils.ErrConcurrentUpdate, "booking %s was modified concurrently", booking.ID)
	}

	next := cloneBooking(*booking)
	next.Version = expectedVersion + 1
	next.Active = next.Status.IsActive()

	oldKey := slotKey(current.Date, current.Time)
	newKey := slotKey(next.Date, next.Time)
	if next.Active {
		if holder, taken := r.slots[newKey]; taken && holder != next.ID {
			return utils.NewError(utils.ErrSlotNoLongerAvailable, "slot %s on %s is no longer available", next.Time, next.Date)
		}
	}
	if current.Active && r.slots[oldKey] == current.ID {
		delete(r.slots, oldKey)
	}
	if next.Active {
		r.slots[newKey] = next.ID
	}

	r.bookings[next.ID] = next
	*booking = cloneBooking(next)
	return nil
}

func (r *MemoryBookingRepo) ActiveSlotsForDate(_ context.Context, date string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slots := []string{}
	for _, b := range r.bookings {
		if b.Date == date && b.Active {
			slots = append(slots, b.Time)
		}
	}
	sort.Strings(slots)
	return slots, nil
}

func (r *MemoryBookingRepo) ListByDate(_ context.Context, date string) ([]models.Booking, error) {
	out := r.filter(func(b models.Booking) bool { return b.Date == date })
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (r *MemoryBookingRepo) ListByCustomer(_ context.Context, customerRef string) ([]models.Booking, error) {
	out := r.filter(func(b models.Booking) bool { return b.CustomerRef == customerRef })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryBookingRepo) MigrateGuestBookings(_ context.Context, phone, userID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var migrated int64
	for id, b := range r.bookings {
		if b.CustomerKind != models.CustomerKindGuest || b.GuestPhone != phone {
			continue
		}
		b.CustomerRef = userID
		b.CustomerKind = models.CustomerKindUser
		b.GuestPhone = ""
		b.UpdatedAt = at
		b.UpdatedBy = userID
		b.Version++
		r.bookings[id] = b
		migrated++
	}
	return migrated, nil
}

func (r *MemoryBookingRepo) SetRedemptionPending(_ context.Context, id string, pending bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return utils.NewError(utils.ErrBookingNotFound, "booking %s not found", id)
	}
	b.RedemptionPending = pending
	r.bookings[id] = b
	return nil
}

func (r *MemoryBookingRepo) ListRedemptionPending(_ context.Context, limit int) ([]models.Booking, error) {
	out := r.filter(func(b models.Booking) bool { return b.RedemptionPending })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryBookingRepo) filter(keep func(models.Booking) bool) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Booking{}
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, cloneBooking(b))
		}
	}
	return out
}

func cloneBooking(b models.Booking) models.Booking {
	b.Selection.AddOns = append([]string(nil), b.Selection.AddOns...)
	if b.Location.Geo != nil {
		geo := *b.Location.Geo
		b.Location.Geo = &geo
	}
	return b
}
