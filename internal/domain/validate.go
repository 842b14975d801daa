package domain

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalPattern = regexp.MustCompile(`^\d+([.,]\d+)?$`)
	integerPattern = regexp.MustCompile(`^\d+$`)
)

// ValidationCode classifies why a field was rejected.
type ValidationCode string

const (
	CodeRequired    ValidationCode = "required"
	CodeFormat      ValidationCode = "format"
	CodeInvalid     ValidationCode = "invalid"
	CodeNotPositive ValidationCode = "not_positive"
	CodeBelowMin    ValidationCode = "below_min"
	CodeAboveMax    ValidationCode = "above_max"
)

// ValidationResult is the outcome of validating one field. The zero value
// means valid.
type ValidationResult struct {
	Code   ValidationCode `json:"code,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

// Valid reports whether the field passed validation.
func (r ValidationResult) Valid() bool {
	return r.Code == ""
}

func invalid(code ValidationCode, reason string) ValidationResult {
	return ValidationResult{Code: code, Reason: reason}
}

// ParseDecimal parses a decimal literal that may use ',' as the decimal
// separator.
func ParseDecimal(text string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
}

type decimalBounds struct {
	field    string
	example  string
	unit     string
	min, max float64
}

var (
	weightBounds = decimalBounds{field: "Weight", example: "70.5", unit: "kg", min: 20, max: 300}
	heightBounds = decimalBounds{field: "Height", example: "175", unit: "cm", min: 50, max: 250}
)

func validateDecimal(text string, b decimalBounds) ValidationResult {
	if strings.TrimSpace(text) == "" {
		return invalid(CodeRequired, b.field+" is required")
	}
	if !decimalPattern.MatchString(text) {
		return invalid(CodeFormat, "Use numbers only (e.g. "+b.example+")")
	}
	// Out-of-range literals parse to ±Inf or 0 and fall through to the bounds.
	v, err := ParseDecimal(text)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return invalid(CodeInvalid, "Invalid value")
	}
	switch {
	case v <= 0:
		return invalid(CodeNotPositive, b.field+" must be greater than zero")
	case v < b.min:
		return invalid(CodeBelowMin, "Minimum "+strings.ToLower(b.field)+": "+formatBound(b.min)+" "+b.unit)
	case v > b.max:
		return invalid(CodeAboveMax, "Maximum "+strings.ToLower(b.field)+": "+formatBound(b.max)+" "+b.unit)
	}
	return ValidationResult{}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ValidateWeight checks a raw weight in kg. Accepted range is [20, 300].
func ValidateWeight(text string) ValidationResult {
	return validateDecimal(text, weightBounds)
}

// ValidateHeight checks a raw height in cm. Accepted range is [50, 250].
func ValidateHeight(text string) ValidationResult {
	return validateDecimal(text, heightBounds)
}

// ValidateAge checks a raw age in years. Blank is valid since age is
// optional; otherwise it must be an integer in (0, 120].
func ValidateAge(text string) ValidationResult {
	if strings.TrimSpace(text) == "" {
		return ValidationResult{}
	}
	if !integerPattern.MatchString(text) {
		return invalid(CodeFormat, "Age must be an integer")
	}
	v, err := strconv.Atoi(text)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return invalid(CodeInvalid, "Invalid value")
	}
	switch {
	case v <= 0:
		return invalid(CodeNotPositive, "Age must be greater than zero")
	case v > 120:
		return invalid(CodeAboveMax, "Maximum age: 120 years")
	}
	return ValidationResult{}
}

// FormValid reports whether a form may be calculated: every field valid and
// both required fields present.
func FormValid(weight, height, age ValidationResult, weightText, heightText string) bool {
	return weight.Valid() && height.Valid() && age.Valid() &&
		strings.TrimSpace(weightText) != "" &&
		strings.TrimSpace(heightText) != ""
}
