package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthmetrics/internal/domain"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestValidateWeight(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ValidationCode
	}{
		{"", domain.CodeRequired},
		{"   ", domain.CodeRequired},
		{"abc", domain.CodeFormat},
		{"-70", domain.CodeFormat},
		{"70.", domain.CodeFormat},
		{".5", domain.CodeFormat},
		{"1e3", domain.CodeFormat},
		{"70.5.1", domain.CodeFormat},
		{" 70", domain.CodeFormat},
		{"0", domain.CodeNotPositive},
		{"0,0", domain.CodeNotPositive},
		{"10", domain.CodeBelowMin},
		{"19.99", domain.CodeBelowMin},
		{"300.01", domain.CodeAboveMax},
		{"1000", domain.CodeAboveMax},
		{"20", ""},
		{"70", ""},
		{"70.5", ""},
		{"70,5", ""},
		{"300", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := domain.ValidateWeight(tc.in)
			assert.Equal(t, tc.want, got.Code)
			assert.Equal(t, tc.want == "", got.Valid())
			if !got.Valid() {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}

func TestValidateWeight_Reasons(t *testing.T) {
	assert.Equal(t, "Weight is required", domain.ValidateWeight("").Reason)
	assert.Equal(t, "Use numbers only (e.g. 70.5)", domain.ValidateWeight("abc").Reason)
	assert.Equal(t, "Minimum weight: 20 kg", domain.ValidateWeight("10").Reason)
	assert.Equal(t, "Maximum weight: 300 kg", domain.ValidateWeight("301").Reason)
}

func TestValidate_HugeLiteralIsAboveMax(t *testing.T) {
	huge := "1" + strings.Repeat("0", 400)

	assert.Equal(t, domain.CodeAboveMax, domain.ValidateWeight(huge).Code)
	assert.Equal(t, "Maximum weight: 300 kg", domain.ValidateWeight(huge).Reason)
	assert.Equal(t, domain.CodeAboveMax, domain.ValidateHeight(huge+",5").Code)
	assert.Equal(t, domain.CodeAboveMax, domain.ValidateAge(strings.Repeat("9", 30)).Code)
}

func TestValidateWeight_TinyLiteralIsNotPositive(t *testing.T) {
	tiny := "0." + strings.Repeat("0", 400) + "1"
	assert.Equal(t, domain.CodeNotPositive, domain.ValidateWeight(tiny).Code)
}

func TestValidateHeight(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ValidationCode
	}{
		{"", domain.CodeRequired},
		{"1,75m", domain.CodeFormat},
		{"0", domain.CodeNotPositive},
		{"1.75", domain.CodeBelowMin},
		{"49.9", domain.CodeBelowMin},
		{"250.5", domain.CodeAboveMax},
		{"50", ""},
		{"175", ""},
		{"182,5", ""},
		{"250", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.ValidateHeight(tc.in).Code)
		})
	}
	assert.Equal(t, "Minimum height: 50 cm", domain.ValidateHeight("10").Reason)
	assert.Equal(t, "Height is required", domain.ValidateHeight("").Reason)
}

func TestValidateAge(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ValidationCode
	}{
		{"", ""},
		{"  ", ""},
		{"30", ""},
		{"1", ""},
		{"120", ""},
		{"30.5", domain.CodeFormat},
		{"thirty", domain.CodeFormat},
		{"-3", domain.CodeFormat},
		{"0", domain.CodeNotPositive},
		{"000", domain.CodeNotPositive},
		{"121", domain.CodeAboveMax},
		{"99999999999999999999999", domain.CodeInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.ValidateAge(tc.in).Code)
		})
	}
	assert.Equal(t, "Age must be an integer", domain.ValidateAge("4.5").Reason)
}

func TestParseDecimal(t *testing.T) {
	v, err := domain.ParseDecimal("70,5")
	require.NoError(t, err)
	assert.InDelta(t, 70.5, v, 1e-12)

	v, err = domain.ParseDecimal("175")
	require.NoError(t, err)
	assert.InDelta(t, 175.0, v, 1e-12)

	_, err = domain.ParseDecimal("abc")
	assert.Error(t, err)
}

func TestFormValid(t *testing.T) {
	ok := domain.ValidationResult{}
	bad := domain.ValidationResult{Code: domain.CodeFormat, Reason: "x"}

	assert.True(t, domain.FormValid(ok, ok, ok, "70", "175"))
	assert.False(t, domain.FormValid(bad, ok, ok, "abc", "175"))
	assert.False(t, domain.FormValid(ok, bad, ok, "70", "abc"))
	assert.False(t, domain.FormValid(ok, ok, bad, "70", "175"))
	assert.False(t, domain.FormValid(ok, ok, ok, "", "175"), "blank weight is never valid")
	assert.False(t, domain.FormValid(ok, ok, ok, "70", " "), "blank height is never valid")
}

func TestValidation_Scenario(t *testing.T) {
	assert.Equal(t, domain.CodeFormat, domain.ValidateWeight("abc").Code)
	assert.Equal(t, domain.CodeBelowMin, domain.ValidateWeight("10").Code)
	assert.Equal(t, domain.CodeRequired, domain.ValidateHeight("").Code)
	assert.True(t, domain.ValidateAge("").Valid())
}
