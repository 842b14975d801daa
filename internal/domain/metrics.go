package domain

import "strings"

// Sex selects the sex-specific constants of the BMR and ideal weight formulas.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ParseSex normalises raw form input. Anything other than "female", in any
// case, selects SexMale, the form default.
func ParseSex(raw string) Sex {
	if strings.EqualFold(strings.TrimSpace(raw), string(SexFemale)) {
		return SexFemale
	}
	return SexMale
}

// IsMale reports whether s selects the male formulas. Anything other than
// SexFemale is treated as male, matching the form default.
func (s Sex) IsMale() bool {
	return s != SexFemale
}

// ActivityLevel is the 1-4 tier applied to BMR to estimate daily energy needs.
type ActivityLevel int

const (
	ActivitySedentary ActivityLevel = 1
	ActivityLight     ActivityLevel = 2
	ActivityModerate  ActivityLevel = 3
	ActivityIntense   ActivityLevel = 4
)

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityIntense:   1.725,
}

var activityLabels = map[ActivityLevel]string{
	ActivitySedentary: "Sedentary",
	ActivityLight:     "Light",
	ActivityModerate:  "Moderate",
	ActivityIntense:   "Intense",
}

// ActivityLevels lists the supported levels in ascending order.
var ActivityLevels = []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityIntense}

// Multiplier returns the energy multiplier for the level. Unknown levels fall
// back to the sedentary multiplier.
func (l ActivityLevel) Multiplier() float64 {
	if m, ok := activityMultipliers[l]; ok {
		return m
	}
	return activityMultipliers[ActivitySedentary]
}

// Label returns a display name for the level.
func (l ActivityLevel) Label() string {
	if s, ok := activityLabels[l]; ok {
		return s
	}
	return "Not informed"
}

// BMIClassification is one of the six WHO BMI bands.
type BMIClassification string

const (
	Underweight     BMIClassification = "Underweight"
	NormalWeight    BMIClassification = "Normal weight"
	Overweight      BMIClassification = "Overweight"
	ObesityClassI   BMIClassification = "Obesity Class I"
	ObesityClassII  BMIClassification = "Obesity Class II"
	ObesityClassIII BMIClassification = "Obesity Class III"
)

// BMIBand describes a classification band. Min is inclusive, Max exclusive;
// a zero Max means unbounded above.
type BMIBand struct {
	Classification BMIClassification `json:"classification"`
	Min            float64           `json:"min"`
	Max            float64           `json:"max,omitempty"`
}

// BMIBands lists the bands in ascending order.
var BMIBands = []BMIBand{
	{Classification: Underweight, Min: 0, Max: 18.5},
	{Classification: NormalWeight, Min: 18.5, Max: 25},
	{Classification: Overweight, Min: 25, Max: 30},
	{Classification: ObesityClassI, Min: 30, Max: 35},
	{Classification: ObesityClassII, Min: 35, Max: 40},
	{Classification: ObesityClassIII, Min: 40},
}

var classificationAdvice = map[BMIClassification]string{
	Underweight:     "Below the ideal weight. Consider nutritional follow-up.",
	NormalWeight:    "Weight within the range considered healthy.",
	Overweight:      "Overweight. Pay attention to diet and exercise.",
	ObesityClassI:   "Obesity class I. Medical follow-up is recommended.",
	ObesityClassII:  "Obesity class II. Seek professional guidance.",
	ObesityClassIII: "Obesity class III. It is important to seek medical help.",
}

// Advice returns a one-sentence guidance text for the classification.
func (c BMIClassification) Advice() string {
	return classificationAdvice[c]
}

// BiometricInput is the parsed input of a single calculation.
type BiometricInput struct {
	WeightKg      float64       `json:"weightKg"`
	HeightCm      float64       `json:"heightCm"`
	Age           int           `json:"age"`
	Sex           Sex           `json:"sex"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
}

// HealthMetrics is the result of Calculate. Nil pointers are absent values.
type HealthMetrics struct {
	BMI               float64           `json:"bmi"`
	Classification    BMIClassification `json:"classification"`
	BMR               *float64          `json:"bmr,omitempty"`
	BodyFatPercentage *float64          `json:"bodyFatPercentage,omitempty"`
	IdealWeight       *float64          `json:"idealWeight,omitempty"`
	DailyCalorieNeeds *float64          `json:"dailyCalorieNeeds,omitempty"`
}

// ComputeBMI returns weightKg / heightM². It returns 0 for non-positive
// inputs and for heights under half a metre, which usually means centimetres
// were passed by mistake.
func ComputeBMI(weightKg, heightM float64) float64 {
	if weightKg <= 0 || heightM <= 0 {
		return 0
	}
	if heightM < 0.5 {
		return 0
	}
	return weightKg / (heightM * heightM)
}

// ClassifyBMI maps a BMI value to its band.
func ClassifyBMI(bmi float64) BMIClassification {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25.0:
		return NormalWeight
	case bmi < 30.0:
		return Overweight
	case bmi < 35.0:
		return ObesityClassI
	case bmi < 40.0:
		return ObesityClassII
	default:
		return ObesityClassIII
	}
}

// ComputeBMR estimates basal metabolic rate in kcal/day with the
// Mifflin-St Jeor equation. Inputs are not validated and the result is not
// clamped.
func ComputeBMR(weightKg, heightCm float64, age int, isMale bool) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if isMale {
		return base + 5
	}
	return base - 161
}

// ComputeIdealWeight estimates ideal body weight in kg with the Devine
// formula. At or below 60 inches the base weight is returned unchanged.
func ComputeIdealWeight(heightCm float64, isMale bool) float64 {
	inches := CentimetersToInches(heightCm)
	base := 45.5
	if isMale {
		base = 50.0
	}
	if inches > 60 {
		return base + 2.3*(inches-60)
	}
	return base
}

// ComputeDailyCalorieNeeds multiplies bmr by the activity multiplier.
func ComputeDailyCalorieNeeds(bmr float64, level ActivityLevel) float64 {
	return bmr * level.Multiplier()
}

// Calculate derives all metrics for in. BMR requires a positive age, weight
// and height; daily calorie needs require BMR; ideal weight only requires a
// positive height.
func Calculate(in BiometricInput) HealthMetrics {
	bmi := ComputeBMI(in.WeightKg, CentimetersToMeters(in.HeightCm))
	m := HealthMetrics{
		BMI:            bmi,
		Classification: ClassifyBMI(bmi),
	}

	if in.WeightKg > 0 && in.HeightCm > 0 && in.Age > 0 {
		bmr := ComputeBMR(in.WeightKg, in.HeightCm, in.Age, in.Sex.IsMale())
		m.BMR = &bmr
	}
	if in.HeightCm > 0 {
		iw := ComputeIdealWeight(in.HeightCm, in.Sex.IsMale())
		m.IdealWeight = &iw
	}
	if m.BMR != nil {
		dc := ComputeDailyCalorieNeeds(*m.BMR, in.ActivityLevel)
		m.DailyCalorieNeeds = &dc
	}
	return m
}
