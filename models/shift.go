package models

import "time"

// StaffShift assigns one staff member to one slot on one date.
type StaffShift struct {
	ID        string    `bson:"id" json:"id"`
	StaffID   string    `bson:"staffId" json:"staffId"`
	Date      string    `bson:"date" json:"date"`
	Time      string    `bson:"time" json:"time"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// SlotStaffing is one row of the staffing report.
type SlotStaffing struct {
	Slot           TimeSlot `json:"slot"`
	ActiveBookings int      `json:"activeBookings"`
	StaffOnShift   int      `json:"staffOnShift"`
	Closed         bool     `json:"closed"`
	Understaffed   bool     `json:"understaffed"`
}
