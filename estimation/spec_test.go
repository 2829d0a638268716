package estimation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidProject(t *testing.T) {
	result := Validate(ProjectSpec{SquareFootage: 4500, Tier: "Luxury", BedroomCount: 4})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.MissingFields)
	assert.Empty(t, result.InvalidValues)
	assert.Empty(t, result.Warnings)
}

func TestValidate_MissingSquareFootage(t *testing.T) {
	result := Validate(ProjectSpec{})

	assert.False(t, result.IsValid)
	assert.Contains(t, result.MissingFields, "square_footage")
}

func TestValidate_NegativeSquareFootage(t *testing.T) {
	result := Validate(ProjectSpec{SquareFootage: -100})

	assert.False(t, result.IsValid)
	require.Len(t, result.InvalidValues, 1)
	assert.Equal(t, "square_footage", result.InvalidValues[0].Field)
	assert.Equal(t, -100.0, result.InvalidValues[0].Value)
}

func TestValidate_OversizeWarnsButPasses(t *testing.T) {
	result := Validate(ProjectSpec{SquareFootage: 30000})

	assert.True(t, result.IsValid)
	assert.NotEmpty(t, result.Warnings)
}

func TestValidate_UnknownTier(t *testing.T) {
	result := Validate(ProjectSpec{SquareFootage: 4000, Tier: "Platinum"})

	assert.False(t, result.IsValid)
	require.Len(t, result.InvalidValues, 1)
	assert.Equal(t, "tier", result.InvalidValues[0].Field)
}

func TestValidate_NegativeCounts(t *testing.T) {
	result := Validate(ProjectSpec{
		SquareFootage:    4000,
		PrimaryBathCount: -1,
		BedroomCount:     -2,
	})

	assert.False(t, result.IsValid)
	fields := make([]string, 0, len(result.InvalidValues))
	for _, iv := range result.InvalidValues {
		fields = append(fields, iv.Field)
	}
	assert.Contains(t, fields, "primary_bath_count")
	assert.Contains(t, fields, "bedroom_count")
}

func TestValidate_HighBedroomCountWarns(t *testing.T) {
	result := Validate(ProjectSpec{SquareFootage: 4000, BedroomCount: 12})

	assert.True(t, result.IsValid)
	assert.NotEmpty(t, result.Warnings)
}

func TestProjectSpec_Fields(t *testing.T) {
	spec := ProjectSpec{
		SquareFootage:    4000,
		PrimaryBathCount: 2,
		Additional:       map[string]float64{"garage_bays": 3},
	}

	fields := spec.Fields()
	assert.Equal(t, 2.0, fields["primary_bath_count"])
	assert.Equal(t, 3.0, fields["garage_bays"])
}
