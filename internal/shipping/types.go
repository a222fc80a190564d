package shipping

// Method identifies a supported shipping speed tier.
type Method string

const (
	MethodStandard  Method = "standard"
	MethodExpress   Method = "express"
	MethodOvernight Method = "overnight"
)

// Valid reports whether m is one of the recognized shipping methods.
func (m Method) Valid() bool {
	switch m {
	case MethodStandard, MethodExpress, MethodOvernight:
		return true
	}
	return false
}

// Zone identifies how far a package travels from the origin depot.
type Zone string

const (
	ZoneLocal         Zone = "local"
	ZoneDomestic      Zone = "domestic"
	ZoneInternational Zone = "international"
)

// Valid reports whether z is one of the recognized destination zones.
func (z Zone) Valid() bool {
	switch z {
	case ZoneLocal, ZoneDomestic, ZoneInternational:
		return true
	}
	return false
}

// Dimensions are the package edge lengths in centimeters.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Volume returns the package volume in liters.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height / 1000
}

// Package describes a single shipment to validate and price.
type Package struct {
	Method     Method
	Weight     float64 // kilograms
	Dimensions Dimensions
	Zone       Zone
}

// ValidationErrors maps a field name to a human-readable message for every
// violated rule. A field key is present only when that field failed; an empty
// map means the package is ready for pricing.
type ValidationErrors map[string]string

// Breakdown records every factor that produced a quote's cost. It is kept for
// display and auditing and feeds no further computation.
type Breakdown struct {
	BaseRate         float64 `json:"baseRate"`
	ZoneMultiplier   float64 `json:"zoneMultiplier"`
	SizeCategory     string  `json:"sizeCategory"`
	SizeMultiplier   float64 `json:"sizeMultiplier"`
	MethodMultiplier float64 `json:"methodMultiplier"`
	VolumeLiters     float64 `json:"volumeLiters"`
	WeightSurcharge  float64 `json:"weightSurcharge"`
	Weight           float64 `json:"weight"`
	Method           Method  `json:"shippingMethod"`
	Zone             Zone    `json:"destinationZone"`
}

// Quote is the priced result for a single package.
type Quote struct {
	ShippingCost          float64   `json:"shippingCost"`
	EstimatedDeliveryDays int       `json:"estimatedDeliveryDays"`
	Breakdown             Breakdown `json:"breakdown"`
}

// Tariff holds the configurable scalars of the rate card. The multiplier
// tables are fixed; only these currency values vary per deployment.
type Tariff struct {
	BaseRate             float64 `json:"baseRate"`
	SurchargeThresholdKg float64 `json:"surchargeThresholdKg"`
	SurchargePerKg       float64 `json:"surchargePerKg"`
}

// DefaultTariff returns the built-in rate card scalars.
func DefaultTariff() Tariff {
	return Tariff{
		BaseRate:             15.00,
		SurchargeThresholdKg: 1.0,
		SurchargePerKg:       2.50,
	}
}
