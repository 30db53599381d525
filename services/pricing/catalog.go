package pricing

import (
	"context"
	"strings"

	"carwash/models"
	"carwash/utils"

	"go.uber.org/zap"
)

func (s *DefaultPricingService) AddOns(ctx context.Context) (models.AddOnConfig, error) {
	return s.Settings.GetAddOns(ctx)
}

// UpsertAddOn creates or replaces one add-on in the add-on config.
func (s *DefaultPricingService) UpsertAddOn(ctx context.Context, addOn models.AddOn, actor models.Actor) (models.AddOnConfig, error) {
	if err := requireManager(actor); err != nil {
		return models.AddOnConfig{}, err
	}
	addOn.ID = strings.TrimSpace(addOn.ID)
	if addOn.ID == "" || addOn.Price < 0 {
		return models.AddOnConfig{}, utils.NewError(utils.ErrInvalidSelection, "add-on needs an id and a non-negative price")
	}

	cfg, err := s.Settings.GetAddOns(ctx)
	if err != nil {
		return models.AddOnConfig{}, err
	}
	if cfg.AddOns == nil {
		cfg.AddOns = map[string]models.AddOn{}
	}
	cfg.AddOns[addOn.ID] = addOn

	saved, err := s.Settings.SaveAddOns(ctx, cfg)
	if err != nil {
		return models.AddOnConfig{}, err
	}
	s.Logger.Info("add-on saved", zap.String("addOnId", addOn.ID), zap.Int64("price", addOn.Price), zap.Int("version", saved.Version))
	return saved, nil
}

func (s *DefaultPricingService) SetAddOnEnabled(ctx context.Context, id string, enabled bool, actor models.Actor) (models.AddOnConfig, error) {
	if err := requireManager(actor); err != nil {
		return models.AddOnConfig{}, err
	}
	cfg, err := s.Settings.GetAddOns(ctx)
	if err != nil {
		return models.AddOnConfig{}, err
	}
	addOn, ok := cfg.AddOns[id]
	if !ok {
		return models.AddOnConfig{}, utils.NewError(utils.ErrInvalidAddOn, "add-on %q not found", id)
	}
	addOn.Enabled = enabled
	cfg.AddOns[id] = addOn
	return s.Settings.SaveAddOns(ctx, cfg)
}

func (s *DefaultPricingService) SetPackageAvailability(ctx context.Context, packageID string, available bool, actor models.Actor) (models.PackageCatalog, error) {
	if err := requireManager(actor); err != nil {
		return models.PackageCatalog{}, err
	}
	catalog, err := s.Settings.GetCatalog(ctx)
	if err != nil {
		return models.PackageCatalog{}, err
	}
	found := false
	for i := range catalog.Packages {
		if catalog.Packages[i].ID == packageID {
			catalog.Packages[i].Available = available
			found = true
		}
	}
	if !found {
		return models.PackageCatalog{}, utils.NewError(utils.ErrNoPriceForSelection, "package %q not found", packageID)
	}

	saved, err := s.Settings.SaveCatalog(ctx, catalog)
	if err != nil {
		return models.PackageCatalog{}, err
	}
	s.Logger.Info("package availability changed", zap.String("packageId", packageID), zap.Bool("available", available))
	return saved, nil
}

// SeedDefaults writes the default catalog and add-ons when the store has none.
func (s *DefaultPricingService) SeedDefaults(ctx context.Context) error {
	return s.Settings.SeedDefaults(ctx, models.DefaultCatalog(), models.DefaultAddOns())
}
