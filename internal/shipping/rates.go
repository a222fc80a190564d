package shipping

import "fmt"

// weightBounds are the closed weight intervals accepted per method, in kg.
var weightBounds = map[Method]struct{ Min, Max float64 }{
	MethodStandard:  {Min: 0.1, Max: 20},
	MethodExpress:   {Min: 0.1, Max: 10},
	MethodOvernight: {Min: 0.1, Max: 5},
}

// sizeTier maps a volume ceiling (liters) to a category label and multiplier.
type sizeTier struct {
	maxLiters  float64
	category   string
	multiplier float64
}

// Tiers are checked in order; volumes beyond the last ceiling are Extra Large.
var sizeTiers = []sizeTier{
	{maxLiters: 5, category: "Small", multiplier: 1.0},
	{maxLiters: 20, category: "Medium", multiplier: 1.2},
	{maxLiters: 50, category: "Large", multiplier: 1.5},
}

var extraLargeTier = sizeTier{category: "Extra Large", multiplier: 2.0}

func sizeTierFor(volumeLiters float64) sizeTier {
	for _, tier := range sizeTiers {
		if volumeLiters <= tier.maxLiters {
			return tier
		}
	}
	return extraLargeTier
}

// The lookups below are total over the enums. Validation rejects unrecognized
// values before pricing, so reaching a panic here is a programming error;
// defaulting instead would silently produce a wrong price.

func zoneMultiplier(z Zone) float64 {
	switch z {
	case ZoneLocal:
		return 1.0
	case ZoneDomestic:
		return 1.5
	case ZoneInternational:
		return 2.0
	}
	panic(fmt.Sprintf("unrecognized destination zone %q", string(z)))
}

func methodMultiplier(m Method) float64 {
	switch m {
	case MethodStandard:
		return 1.0
	case MethodExpress:
		return 1.8
	case MethodOvernight:
		return 2.5
	}
	panic(fmt.Sprintf("unrecognized shipping method %q", string(m)))
}

func deliveryDays(m Method) int {
	switch m {
	case MethodStandard:
		return 7
	case MethodExpress:
		return 3
	case MethodOvernight:
		return 1
	}
	panic(fmt.Sprintf("unrecognized shipping method %q", string(m)))
}
