package models

import "time"

// DateFormat is the calendar date layout used for bookings and slot configuration.
const DateFormat = "2006-01-02"

// TimeSlot is one hourly reservation unit. Hour 24 denotes midnight.
type TimeSlot struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Hour  int    `json:"hour"`
}

// ClosedSlotConfig lists the slots a manager disabled for one date.
type ClosedSlotConfig struct {
	Date      string    `bson:"date" json:"date"`
	Slots     []string  `bson:"slots" json:"slots"`
	Version   int       `bson:"version" json:"version"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy string    `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}
