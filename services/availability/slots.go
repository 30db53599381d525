package availability

import (
	"fmt"
	"sort"
	"time"

	"carwash/models"
	"carwash/utils"
)

const (
	firstSlotHour = 12
	lastSlotHour  = 24
)

var slotCatalog = buildCatalog()

func buildCatalog() []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, lastSlotHour-firstSlotHour+1)
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		slots = append(slots, models.TimeSlot{
			ID:    fmt.Sprintf("%d:00", h),
			Label: slotLabel(h),
			Hour:  h,
		})
	}
	return slots
}

func slotLabel(hour int) string {
	switch {
	case hour == 12:
		return "12:00 PM"
	case hour == 24:
		return "12:00 AM"
	default:
		return fmt.Sprintf("%d:00 PM", hour-12)
	}
}

// SlotCatalog returns the fixed daily slot sequence in ascending hour order.
func SlotCatalog() []models.TimeSlot {
	return append([]models.TimeSlot(nil), slotCatalog...)
}

// LookupSlot resolves a slot identifier such as "14:00".
func LookupSlot(id string) (models.TimeSlot, bool) {
	for _, s := range slotCatalog {
		if s.ID == id {
			return s, true
		}
	}
	return models.TimeSlot{}, false
}

// SortSlotIDs orders valid slot ids by hour and drops duplicates and unknown ids.
func SortSlotIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := LookupSlot(id); ok && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := LookupSlot(out[i])
		b, _ := LookupSlot(out[j])
		return a.Hour < b.Hour
	})
	return out
}

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(models.DateFormat, date)
	if err != nil {
		return time.Time{}, utils.NewError(utils.ErrInvalidSelection, "invalid date %q, expected %s", date, models.DateFormat)
	}
	return d, nil
}

// AvailableSlots filters the catalog for date. now must already be expressed in
// the business timezone. Booked and closed hold slot identifiers. Past dates
// yield an empty, non-nil list.
func AvailableSlots(date string, now time.Time, booked, closed []string) ([]models.TimeSlot, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}

	today := now.Format(models.DateFormat)
	out := []models.TimeSlot{}
	if date < today {
		return out, nil
	}

	excluded := make(map[string]bool, len(booked)+len(closed))
	for _, id := range booked {
		excluded[id] = true
	}
	for _, id := range closed {
		excluded[id] = true
	}

	sameDay := date == today
	for _, slot := range slotCatalog {
		if excluded[slot.ID] {
			continue
		}
		if sameDay && slot.Hour <= now.Hour() {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

// IsAvailable reports whether slotID is in the available list for date.
func IsAvailable(slotID, date string, now time.Time, booked, closed []string) (bool, error) {
	slots, err := AvailableSlots(date, now, booked, closed)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s.ID == slotID {
			return true, nil
		}
	}
	return false, nil
}
