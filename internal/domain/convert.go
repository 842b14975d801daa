package domain

const (
	kgToLb     = 2.2046226218
	cmPerInch  = 2.54
	cmPerMeter = 100.0
)

// Weight units accepted by ConvertWeight.
const (
	UnitKg = "kg"
	UnitLb = "lb"
)

// ConvertWeight converts a weight value between "kg" and "lb".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == UnitKg && to == UnitLb {
		return v * kgToLb
	}
	if from == UnitLb && to == UnitKg {
		return v / kgToLb
	}
	return v
}

// ValidWeightUnit reports whether unit is one ConvertWeight understands.
func ValidWeightUnit(unit string) bool {
	return unit == UnitKg || unit == UnitLb
}

// CentimetersToMeters converts a height in cm to metres.
func CentimetersToMeters(cm float64) float64 {
	return cm / cmPerMeter
}

// CentimetersToInches converts a height in cm to inches.
func CentimetersToInches(cm float64) float64 {
	return cm / cmPerInch
}
