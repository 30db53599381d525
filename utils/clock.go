package utils

import "time"

// Clock supplies the evaluation instant for availability and promo checks.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

func (f FixedClock) Now() time.Time { return f.T }
