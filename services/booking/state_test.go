package booking

import (
	"errors"
	"testing"
	"time"

	"carwash/models"
	"carwash/utils"
)

var allStatuses = []models.BookingStatus{
	models.StatusPending, models.StatusConfirmed, models.StatusOnTheWay,
	models.StatusInProgress, models.StatusCompleted, models.StatusCancelled,
}

func TestTransitionTable(t *testing.T) {
	legal := map[models.BookingStatus][]models.BookingStatus{
		models.StatusPending:    {models.StatusConfirmed, models.StatusCancelled},
		models.StatusConfirmed:  {models.StatusOnTheWay, models.StatusCancelled},
		models.StatusOnTheWay:   {models.StatusInProgress, models.StatusCancelled},
		models.StatusInProgress: {models.StatusCompleted, models.StatusCancelled},
	}
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			b := models.Booking{ID: "b", Status: from, Version: 3}
			next, err := Transition(b, to, "staff-1", now)

			allowed := false
			for _, s := range legal[from] {
				if s == to {
					allowed = true
				}
			}

			switch {
			case allowed:
				if err != nil {
					t.Errorf("%s -> %s: unexpected error %v", from, to, err)
				}
				if next.Status != to || next.UpdatedBy != "staff-1" || !next.UpdatedAt.Equal(now) {
					t.Errorf("%s -> %s: unexpected result %+v", from, to, next)
				}
			case from.IsTerminal():
				if !errors.Is(err, utils.ErrTerminalState) {
					t.Errorf("%s -> %s: expected TerminalState, got %v", from, to, err)
				}
			default:
				if !errors.Is(err, utils.ErrIllegalTransition) {
					t.Errorf("%s -> %s: expected IllegalTransition, got %v", from, to, err)
				}
			}
			if !allowed && (next.Status != from || next.UpdatedBy != "") {
				t.Errorf("%s -> %s: rejected transition mutated booking", from, to)
			}
		}
	}
}

func TestTransitionStampsTimestamps(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	b := models.Booking{ID: "b", Status: models.StatusPending}

	steps := []struct {
		to    models.BookingStatus
		stamp func(models.Booking) *time.Time
	}{
		{models.StatusConfirmed, func(b models.Booking) *time.Time { return b.ConfirmedAt }},
		{models.StatusOnTheWay, func(b models.Booking) *time.Time { return b.StartedJourneyAt }},
		{models.StatusInProgress, func(b models.Booking) *time.Time { return b.StartedAt }},
		{models.StatusCompleted, func(b models.Booking) *time.Time { return b.CompletedAt }},
	}
	for i, step := range steps {
		at := now.Add(time.Duration(i) * time.Minute)
		next, err := Transition(b, step.to, "s", at)
		if err != nil {
			t.Fatalf("to %s: %v", step.to, err)
		}
		if ts := step.stamp(next); ts == nil || !ts.Equal(at) {
			t.Errorf("to %s: timestamp not stamped", step.to)
		}
		b = next
	}
	if b.Active {
		t.Error("completed booking must be inactive")
	}

	cancelled, err := Transition(models.Booking{Status: models.StatusOnTheWay}, models.StatusCancelled, "m", now)
	if err != nil || cancelled.CancelledAt == nil || cancelled.Active {
		t.Errorf("cancel: %+v %v", cancelled, err)
	}
}

func TestTransitionUnknownTarget(t *testing.T) {
	_, err := Transition(models.Booking{Status: models.StatusPending}, "archived", "s", time.Now())
	if !errors.Is(err, utils.ErrIllegalTransition) {
		t.Errorf("expected IllegalTransition, got %v", err)
	}
}
