package settingsRepo

import (
	"context"
	"sync"

	"carwash/models"
	"carwash/utils"
)

// MemorySettingsRepo is an in-process SettingsRepository with the same
// compare-and-set rules as the Mongo one.
type MemorySettingsRepo struct {
	mu      sync.Mutex
	closed  map[string]models.ClosedSlotConfig
	catalog models.PackageCatalog
	addOns  models.AddOnConfig
}

func NewMemorySettingsRepo() *MemorySettingsRepo {
	return &MemorySettingsRepo{
		closed: make(map[string]models.ClosedSlotConfig),
		addOns: models.AddOnConfig{AddOns: map[string]models.AddOn{}},
	}
}

func (r *MemorySettingsRepo) GetClosedSlots(_ context.Context, date string) (models.ClosedSlotConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.closed[date]
	if !ok {
		return models.ClosedSlotConfig{Date: date}, nil
	}
	cfg.Slots = append([]string(nil), cfg.Slots...)
	return cfg, nil
}

func (r *MemorySettingsRepo) SaveClosedSlots(_ context.Context, cfg models.ClosedSlotConfig) (models.ClosedSlotConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed[cfg.Date].Version != cfg.Version {
		return models.ClosedSlotConfig{}, utils.NewError(utils.ErrConcurrentUpdate, "closed slots for %s changed concurrently", cfg.Date)
	}
	if len(cfg.Slots) == 0 {
		delete(r.closed, cfg.Date)
		cfg.Version = 0
		return cfg, nil
	}
	cfg.Version++
	cfg.Slots = append([]string(nil), cfg.Slots...)
	r.closed[cfg.Date] = cfg
	return cfg, nil
}

func (r *MemorySettingsRepo) GetCatalog(_ context.Context) (models.PackageCatalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyCatalog(r.catalog), nil
}

func (r *MemorySettingsRepo) SaveCatalog(_ context.Context, catalog models.PackageCatalog) (models.PackageCatalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.catalog.Version != catalog.Version {
		return models.PackageCatalog{}, utils.NewError(utils.ErrConcurrentUpdate, "%s changed concurrently", catalogDocID)
	}
	catalog.Version++
	r.catalog = copyCatalog(catalog)
	return catalog, nil
}

func (r *MemorySettingsRepo) GetAddOns(_ context.Context) (models.AddOnConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyAddOns(r.addOns), nil
}

func (r *MemorySettingsRepo) SaveAddOns(_ context.Context, cfg models.AddOnConfig) (models.AddOnConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addOns.Version != cfg.Version {
		return models.AddOnConfig{}, utils.NewError(utils.ErrConcurrentUpdate, "%s changed concurrently", addOnsDocID)
	}
	cfg.Version++
	r.addOns = copyAddOns(cfg)
	return cfg, nil
}

func (r *MemorySettingsRepo) SeedDefaults(_ context.Context, catalog models.PackageCatalog, addOns models.AddOnConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.catalog.Version == 0 {
		r.catalog = copyCatalog(catalog)
	}
	if r.addOns.Version == 0 {
		r.addOns = copyAddOns(addOns)
	}
	return nil
}

func copyCatalog(c models.PackageCatalog) models.PackageCatalog {
	out := models.PackageCatalog{Version: c.Version}
	for _, vt := range c.VehicleTypes {
		vt.Sizes = append([]string(nil), vt.Sizes...)
		out.VehicleTypes = append(out.VehicleTypes, vt)
	}
	for _, p := range c.Packages {
		prices := make(map[string]int64, len(p.Prices))
		for k, v := range p.Prices {
			prices[k] = v
		}
		p.Prices = prices
		out.Packages = append(out.Packages, p)
	}
	return out
}

func copyAddOns(c models.AddOnConfig) models.AddOnConfig {
	out := models.AddOnConfig{Version: c.Version, AddOns: make(map[string]models.AddOn, len(c.AddOns))}
	for k, v := range c.AddOns {
		out.AddOns[k] = v
	}
	return out
}
