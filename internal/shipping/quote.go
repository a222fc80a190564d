package shipping

import "math"

// Calculate prices pkg with the local deterministic formula:
//
//	cost = round2(baseRate * zone * size * method + surcharge)
//
// where surcharge = max(0, (weight - threshold) * perKg). The caller must
// have validated pkg first; an unrecognized method or zone panics.
func Calculate(pkg Package, tariff Tariff) Quote {
	volume := pkg.Dimensions.Volume()
	tier := sizeTierFor(volume)
	zoneMult := zoneMultiplier(pkg.Zone)
	methodMult := methodMultiplier(pkg.Method)

	surcharge := pkg.Weight - tariff.SurchargeThresholdKg
	if surcharge < 0 {
		surcharge = 0
	}
	surcharge = round2(surcharge * tariff.SurchargePerKg)

	cost := round2(tariff.BaseRate*zoneMult*tier.multiplier*methodMult + surcharge)

	return Quote{
		ShippingCost:          cost,
		EstimatedDeliveryDays: deliveryDays(pkg.Method),
		Breakdown: Breakdown{
			BaseRate:         tariff.BaseRate,
			ZoneMultiplier:   zoneMult,
			SizeCategory:     tier.category,
			SizeMultiplier:   tier.multiplier,
			MethodMultiplier: methodMult,
			VolumeLiters:     volume,
			WeightSurcharge:  surcharge,
			Weight:           pkg.Weight,
			Method:           pkg.Method,
			Zone:             pkg.Zone,
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
