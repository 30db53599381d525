package models

// VehicleType declares whether a size must accompany the type in a selection.
type VehicleType struct {
	ID      string   `bson:"id" json:"id"`
	Name    string   `bson:"name" json:"name"`
	HasSize bool     `bson:"hasSize" json:"hasSize"`
	Sizes   []string `bson:"sizes,omitempty" json:"sizes,omitempty"`
}

// Package is a wash package with a base price per vehicle key (see PriceKey).
type Package struct {
	ID        string           `bson:"id" json:"id"`
	Name      string           `bson:"name" json:"name"`
	Available bool             `bson:"available" json:"available"`
	Prices    map[string]int64 `bson:"prices" json:"prices"`
}

// PackageCatalog is the versioned deployment-wide catalog singleton.
type PackageCatalog struct {
	Version      int           `bson:"version" json:"version"`
	VehicleTypes []VehicleType `bson:"vehicleTypes" json:"vehicleTypes"`
	Packages     []Package     `bson:"packages" json:"packages"`
}

// PriceKey builds the Prices map key for a vehicle type and optional size.
func PriceKey(vehicleType, size string) string {
	if size == "" {
		return vehicleType
	}
	return vehicleType + ":" + size
}

func (c PackageCatalog) VehicleType(id string) (VehicleType, bool) {
	for _, vt := range c.VehicleTypes {
		if vt.ID == id {
			return vt, true
		}
	}
	return VehicleType{}, false
}

func (c PackageCatalog) Package(id string) (Package, bool) {
	for _, p := range c.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

type AddOn struct {
	ID      string `bson:"id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Price   int64  `bson:"price" json:"price"`
	Enabled bool   `bson:"enabled" json:"enabled"`
}

// AddOnConfig is the versioned add-on price list.
type AddOnConfig struct {
	Version int              `bson:"version" json:"version"`
	AddOns  map[string]AddOn `bson:"addOns" json:"addOns"`
}

// ServiceSelection is what the customer picked. Size is set only for types that declare HasSize.
type ServiceSelection struct {
	PackageID    string   `bson:"packageId" json:"packageId"`
	VehicleType  string   `bson:"vehicleType" json:"vehicleType"`
	VehicleSize  string   `bson:"vehicleSize,omitempty" json:"vehicleSize,omitempty"`
	AddOns       []string `bson:"addOns,omitempty" json:"addOns,omitempty"`
	Subscription bool     `bson:"subscription" json:"subscription"`
	PromoCode    string   `bson:"promoCode,omitempty" json:"promoCode,omitempty"`
}

// DefaultCatalog is seeded on first start when the store has no catalog.
func DefaultCatalog() PackageCatalog {
	return PackageCatalog{
		Version: 1,
		VehicleTypes: []VehicleType{
			{ID: "sedan", Name: "Sedan"},
			{ID: "suv", Name: "SUV", HasSize: true, Sizes: []string{"small", "large"}},
			{ID: "motorbike", Name: "Motorbike"},
		},
		Packages: []Package{
			{ID: "basic", Name: "Basic", Available: true, Prices: map[string]int64{
				"sedan": 49, "suv:small": 59, "suv:large": 69, "motorbike": 29,
			}},
			{ID: "premium", Name: "Premium", Available: true, Prices: map[string]int64{
				"sedan": 69, "suv:small": 79, "suv:large": 89, "motorbike": 39,
			}},
			{ID: "platinum", Name: "Platinum", Available: true, Prices: map[string]int64{
				"sedan": 89, "suv:small": 99, "suv:large": 109,
			}},
		},
	}
}

// DefaultAddOns is seeded alongside DefaultCatalog.
func DefaultAddOns() AddOnConfig {
	return AddOnConfig{
		Version: 1,
		AddOns: map[string]AddOn{
			"interior_vacuum": {ID: "interior_vacuum", Name: "Interior vacuum", Price: 10, Enabled: true},
			"tire_shine":      {ID: "tire_shine", Name: "Tire shine", Price: 5, Enabled: true},
			"wax":             {ID: "wax", Name: "Wax coat", Price: 20, Enabled: true},
		},
	}
}
