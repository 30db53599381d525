package settingsRepo

import (
	"context"
	"errors"
	"time"

	"carwash/models"
	"carwash/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type catalogDoc struct {
	ID                    string `bson:"_id"`
	models.PackageCatalog `bson:",inline"`
}

type addOnsDoc struct {
	ID                 string `bson:"_id"`
	models.AddOnConfig `bson:",inline"`
}

func (r *MongoSettingsRepo) GetClosedSlots(ctx context.Context, date string) (models.ClosedSlotConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cfg models.ClosedSlotConfig
	err := r.closedColl.FindOne(ctx, bson.M{"date": date}).Decode(&cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ClosedSlotConfig{Date: date}, nil
	}
	if err != nil {
		return models.ClosedSlotConfig{}, utils.StoreError("get closed slots", err)
	}
	return cfg, nil
}

func (r *MongoSettingsRepo) SaveClosedSlots(ctx context.Context, cfg models.ClosedSlotConfig) (models.ClosedSlotConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	expected := cfg.Version
	cfg.Version = expected + 1

	// An empty set removes the date entry entirely.
	if len(cfg.Slots) == 0 {
		if expected == 0 {
			cfg.Version = 0
			return cfg, nil
		}
		res, err := r.closedColl.DeleteOne(ctx, bson.M{"date": cfg.Date, "version": expected})
		if err != nil {
			return models.ClosedSlotConfig{}, utils.StoreError("delete closed slots", err)
		}
		if res.DeletedCount == 0 {
			return models.ClosedSlotConfig{}, utils.NewError(utils.ErrConcurrentUpdate, "closed slots for %s changed concurrently", cfg.Date)
		}
		cfg.Version = 0
		return cfg, nil
	}

	if expected == 0 {
		if _, err := r.closedColl.InsertOne(ctx, cfg); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return models.ClosedSlotConfig{}, utils.NewError(utils.ErrConcurrentUpdate, "closed slots for %s changed concurrently", cfg.Date)
			}
			return models.ClosedSlotConfig{}, utils.StoreError("insert closed slots", err)
		}
		return cfg, nil
	}

	filter := bson.M{"date": cfg.Date, "version": expected}
	update := bson.M{
		"$set": bson.M{"slots": cfg.Slots, "updatedAt": cfg.UpdatedAt, "updatedBy": cfg.UpdatedBy},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.closedColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return models.ClosedSlotConfig{}, utils.StoreError("update closed slots", err)
	}
	if res.MatchedCount == 0 {
		return models.ClosedSlotConfig{}, utils.NewError(utils.ErrConcurrentUpdate, "closed slots for %s changed concurrently", cfg.Date)
	}
	return cfg, nil
}

func (r *MongoSettingsRepo) GetCatalog(ctx context.Context) (models.PackageCatalog, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc catalogDoc
	err := r.settingsColl.FindOne(ctx, bson.M{"_id": catalogDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.PackageCatalog{}, nil
	}
	if err != nil {
		return models.PackageCatalog{}, utils.StoreError("get catalog", err)
	}
	return doc.PackageCatalog, nil
}

func (r *MongoSettingsRepo) SaveCatalog(ctx context.Context, catalog models.PackageCatalog) (models.PackageCatalog, error) {
	expected := catalog.Version
	catalog.Version = expected + 1
	if err := r.replaceVersioned(ctx, catalogDocID, expected, catalogDoc{ID: catalogDocID, PackageCatalog: catalog}); err != nil {
		return models.PackageCatalog{}, err
	}
	return catalog, nil
}

func (r *MongoSettingsRepo) GetAddOns(ctx context.Context) (models.AddOnConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc addOnsDoc
	err := r.settingsColl.FindOne(ctx, bson.M{"_id": addOnsDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AddOnConfig{AddOns: map[string]models.AddOn{}}, nil
	}
	if err != nil {
		return models.AddOnConfig{}, utils.StoreError("get add-ons", err)
	}
	if doc.AddOns == nil {
		doc.AddOns = map[string]models.AddOn{}
	}
	return doc.AddOnConfig, nil
}

func (r *MongoSettingsRepo) SaveAddOns(ctx context.Context, cfg models.AddOnConfig) (models.AddOnConfig, error) {
	expected := cfg.Version
	cfg.Version = expected + 1
	if err := r.replaceVersioned(ctx, addOnsDocID, expected, addOnsDoc{ID: addOnsDocID, AddOnConfig: cfg}); err != nil {
		return models.AddOnConfig{}, err
	}
	return cfg, nil
}

// SeedDefaults inserts the singletons only when they are missing.
func (r *MongoSettingsRepo) SeedDefaults(ctx context.Context, catalog models.PackageCatalog, addOns models.AddOnConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	upsert := options.Update().SetUpsert(true)
	if _, err := r.settingsColl.UpdateOne(ctx,
		bson.M{"_id": catalogDocID},
		bson.M{"$setOnInsert": catalogDoc{ID: catalogDocID, PackageCatalog: catalog}},
		upsert,
	); err != nil {
		return utils.StoreError("seed catalog", err)
	}
	if _, err := r.settingsColl.UpdateOne(ctx,
		bson.M{"_id": addOnsDocID},
		bson.M{"$setOnInsert": addOnsDoc{ID: addOnsDocID, AddOnConfig: addOns}},
		upsert,
	); err != nil {
		return utils.StoreError("seed add-ons", err)
	}
	return nil
}

func (r *MongoSettingsRepo) replaceVersioned(ctx context.Context, id string, expected int, doc interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if expected == 0 {
		if _, err := r.settingsColl.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return utils.NewError(utils.ErrConcurrentUpdate, "%s changed concurrently", id)
			}
			return utils.StoreError("insert "+id, err)
		}
		return nil
	}

	res, err := r.settingsColl.ReplaceOne(ctx, bson.M{"_id": id, "version": expected}, doc)
	if err != nil {
		return utils.StoreError("replace "+id, err)
	}
	if res.MatchedCount == 0 {
		return utils.NewError(utils.ErrConcurrentUpdate, "%s changed concurrently", id)
	}
	return nil
}
