// File: database/repository/shift/interface.go
package shiftRepo

import (
	"context"

	"carwash/database"
	"carwash/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ShiftRepository stores staff slot assignments. A staff member holds at most
// one shift per (date, time).
type ShiftRepository interface {
	Create(ctx context.Context, shift *models.StaffShift) error
	Delete(ctx context.Context, id string) error
	ListByDate(ctx context.Context, date string) ([]models.StaffShift, error)
}

type MongoShiftRepo struct {
	coll *mongo.Collection
}

// NewMongoShiftRepo constructs a new MongoDB ShiftRepository.
func NewMongoShiftRepo() *MongoShiftRepo {
	return &MongoShiftRepo{coll: database.Database().Collection("staff_shifts")}
}
