package shipping

import "fmt"

// Field keys used in ValidationErrors.
const (
	FieldMethod     = "shippingMethod"
	FieldWeight     = "weight"
	FieldLength     = "length"
	FieldWidth      = "width"
	FieldHeight     = "height"
	FieldZone       = "destinationZone"
	FieldDimensions = "dimensions"
)

const (
	maxDimensionCm = 200.0
	maxCombinedCm  = 400.0
)

// Validate checks pkg against every rule independently and returns one
// message per violated field. Rules never short-circuit each other: a package
// with a bad zone still gets its dimensions checked. An empty result means
// the package is ready for pricing.
func Validate(pkg Package) ValidationErrors {
	errs := ValidationErrors{}

	if !pkg.Method.Valid() {
		errs[FieldMethod] = "Please select a valid shipping method"
	}

	if msg := weightMessage(pkg.Method, pkg.Weight); msg != "" {
		errs[FieldWeight] = msg
	}

	checkDimension(errs, FieldLength, "Length", pkg.Dimensions.Length)
	checkDimension(errs, FieldWidth, "Width", pkg.Dimensions.Width)
	checkDimension(errs, FieldHeight, "Height", pkg.Dimensions.Height)

	if !pkg.Zone.Valid() {
		errs[FieldZone] = "Please select a valid destination zone"
	}

	combined := pkg.Dimensions.Length + pkg.Dimensions.Width + pkg.Dimensions.Height
	if combined > maxCombinedCm {
		errs[FieldDimensions] = fmt.Sprintf("Combined dimensions (length + width + height) cannot exceed %.0f cm", maxCombinedCm)
	}

	return errs
}

// weightMessage reports at most one weight violation, in order: non-positive,
// below the method minimum, above the method maximum. Bound checks are
// skipped when the method itself is unrecognized.
func weightMessage(m Method, weight float64) string {
	if weight <= 0 {
		return "Weight must be greater than 0"
	}
	bounds, ok := weightBounds[m]
	if !ok {
		return ""
	}
	if weight < bounds.Min {
		return fmt.Sprintf("Weight must be at least %g kg for %s shipping", bounds.Min, m)
	}
	if weight > bounds.Max {
		return fmt.Sprintf("Weight cannot exceed %g kg for %s shipping", bounds.Max, m)
	}
	return ""
}

func checkDimension(errs ValidationErrors, field, label string, value float64) {
	if value <= 0 {
		errs[field] = fmt.Sprintf("%s must be greater than 0", label)
		return
	}
	if value > maxDimensionCm {
		errs[field] = fmt.Sprintf("%s cannot exceed %.0f cm", label, maxDimensionCm)
	}
}
