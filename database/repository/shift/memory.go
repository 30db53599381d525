package shiftRepo

import (
	"context"
	"sort"
	"sync"

	"carwash/models"
	"carwash/utils"
)

// MemoryShiftRepo is an in-process ShiftRepository.
type MemoryShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]models.StaffShift
}

func NewMemoryShiftRepo() *MemoryShiftRepo {
	return &MemoryShiftRepo{shifts: make(map[string]models.StaffShift)}
}

func (r *MemoryShiftRepo) Create(_ context.Context, shift *models.StaffShift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shifts {
		if s.ID == shift.ID || (s.StaffID == shift.StaffID && s.Date == shift.Date && s.Time == shift.Time) {
			return utils.NewError(utils.ErrAlreadyExists, "staff %s already on shift at %s %s", shift.StaffID, shift.Date, shift.Time)
		}
	}
	r.shifts[shift.ID] = *shift
	return nil
}

func (r *MemoryShiftRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shifts[id]; !ok {
		return utils.NewError(utils.ErrNotFound, "shift %s not found", id)
	}
	delete(r.shifts, id)
	return nil
}

func (r *MemoryShiftRepo) ListByDate(_ context.Context, date string) ([]models.StaffShift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.StaffShift{}
	for _, s := range r.shifts {
		if s.Date == date {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].StaffID < out[j].StaffID
	})
	return out, nil
}
