package validation

import (
	"testing"
	"time"

	"sharebloom-backend/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleLocation struct {
	City string `json:"city" validate:"required"`
}

type sampleInput struct {
	Title         string         `json:"title" validate:"required,min=3"`
	Quantity      int            `json:"quantity" validate:"required,min=1"`
	Category      string         `json:"category" validate:"required,oneof=food clothing"`
	Email         string         `json:"email" validate:"omitempty,mailaddr"`
	Location      sampleLocation `json:"location"`
	IsEmergency   bool           `json:"isEmergency"`
	EmergencyType string         `json:"emergencyType" validate:"required_if=IsEmergency true"`
	StartDate     time.Time      `json:"startDate"`
	EndDate       time.Time      `json:"endDate" validate:"gtefield=StartDate"`
}

func valid() sampleInput {
	now := time.Now()
	return sampleInput{
		Title: "Winter coats", Quantity: 2, Category: "clothing",
		Location: sampleLocation{City: "Pune"}, StartDate: now, EndDate: now.Add(time.Hour),
	}
}

func fieldNames(err error) []string {
	e := apperr.As(err)
	var out []string
	for _, f := range e.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(valid()))
}

func TestStruct_QuantityZero(t *testing.T) {
	in := valid()
	in.Quantity = 0
	err := Struct(in)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, fieldNames(err), "quantity")
}

func TestStruct_NestedAndEnum(t *testing.T) {
	in := valid()
	in.Category = "toys"
	in.Location.City = ""
	err := Struct(in)
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"category", "location.city"}, fieldNames(err))
}

func TestStruct_EmergencyTypeRequired(t *testing.T) {
	in := valid()
	in.IsEmergency = true
	assert.Contains(t, fieldNames(Struct(in)), "emergencyType")
	in.EmergencyType = "pandemic"
	assert.NoError(t, Struct(in))
}

func TestStruct_EndBeforeStart(t *testing.T) {
	in := valid()
	in.EndDate = in.StartDate.Add(-time.Hour)
	assert.Contains(t, fieldNames(Struct(in)), "endDate")
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("abc12345!"))
	assert.False(t, IsValidPassword("abc12345"))
	assert.False(t, IsValidPassword("a1!"))
	assert.False(t, IsValidPassword("!!!!!!!!1"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@b.co"))
	assert.False(t, IsValidEmail("a@b"))
	assert.False(t, IsValidEmail("a b@c.d"))
}
