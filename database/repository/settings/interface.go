// File: database/repository/settings/interface.go
package settingsRepo

import (
	"context"

	"carwash/database"
	"carwash/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SettingsRepository stores the versioned configuration aggregates.
// Every Save is a compare-and-set on the Version carried by its argument and
// returns the stored aggregate with the bumped version.
type SettingsRepository interface {
	GetClosedSlots(ctx context.Context, date string) (models.ClosedSlotConfig, error)
	// SaveClosedSlots stores cfg as given, UpdatedAt included, if Version still matches.
	SaveClosedSlots(ctx context.Context, cfg models.ClosedSlotConfig) (models.ClosedSlotConfig, error)
	GetCatalog(ctx context.Context) (models.PackageCatalog, error)
	SaveCatalog(ctx context.Context, catalog models.PackageCatalog) (models.PackageCatalog, error)
	GetAddOns(ctx context.Context) (models.AddOnConfig, error)
	SaveAddOns(ctx context.Context, cfg models.AddOnConfig) (models.AddOnConfig, error)
	SeedDefaults(ctx context.Context, catalog models.PackageCatalog, addOns models.AddOnConfig) error
}

const (
	catalogDocID = "package_catalog"
	addOnsDocID  = "addon_config"
)

type MongoSettingsRepo struct {
	closedColl   *mongo.Collection
	settingsColl *mongo.Collection
}

// NewMongoSettingsRepo constructs a new MongoDB SettingsRepository.
func NewMongoSettingsRepo() *MongoSettingsRepo {
	db := database.Database()
	return &MongoSettingsRepo{
		closedColl:   db.Collection("closed_slots"),
		settingsColl: db.Collection("settings"),
	}
}
