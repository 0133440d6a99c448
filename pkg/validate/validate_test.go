package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/staydesk/staydesk/pkg/validate"
)

func strPtr(s string) *string { return &s }

type propertyInput struct {
	Name          string  `form:"name"           validate:"required,max=255"`
	Email         string  `form:"email"          validate:"nullable,email"`
	StarRating    *string `form:"star_rating"    validate:"nullable,integer,min=1,max=5"`
	HotelCategory string  `form:"hotel_category" validate:"nullable,in=budget,mid-range,luxury"`
	Latitude      *string `form:"latitude"       validate:"nullable,numeric"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(propertyInput{
		Name:          "Grand Hotel",
		StarRating:    strPtr("4"),
		HotelCategory: "mid-range",
		Latitude:      strPtr("-6.2"),
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(propertyInput{Name: "   "})
	assert.Equal(t, "The name field is required.", errs["name"])
}

func TestMaxCountsCharacters(t *testing.T) {
	long := make([]rune, 256)
	for i := range long {
		long[i] = 'é'
	}
	errs := validate.Struct(propertyInput{Name: string(long)})
	assert.Equal(t, "The name must not be greater than 255 characters.", errs["name"])
}

func TestNumericStringIsSizedByValue(t *testing.T) {
	errs := validate.Struct(propertyInput{Name: "x", StarRating: strPtr("6")})
	assert.Equal(t, "The star rating must not be greater than 5.", errs["star_rating"])

	errs = validate.Struct(propertyInput{Name: "x", StarRating: strPtr("three")})
	assert.Equal(t, "The star rating field must be an integer.", errs["star_rating"])
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(propertyInput{Name: "x", HotelCategory: "boutique"})
	assert.Equal(t, "The selected hotel category is invalid.", errs["hotel_category"])
}

func TestNullableSkipsRules(t *testing.T) {
	errs := validate.Struct(propertyInput{Name: "x", Latitude: strPtr(""), Email: ""})
	assert.Empty(t, errs)
}

type patchInput struct {
	Name  *string `form:"name"  validate:"sometimes,required,max=10"`
	Price *string `form:"price" validate:"sometimes,required,numeric,min=0"`
}

func TestSometimesSkipsAbsentFields(t *testing.T) {
	assert.Empty(t, validate.Struct(patchInput{}))
}

func TestSometimesStillValidatesPresentFields(t *testing.T) {
	errs := validate.Struct(patchInput{Name: strPtr(""), Price: strPtr("-1")})
	assert.Equal(t, "The name field is required.", errs["name"])
	assert.Equal(t, "The price must be at least 0.", errs["price"])

	assert.Empty(t, validate.Struct(patchInput{Price: strPtr("0")}))
}

type stayInput struct {
	CheckIn  string `form:"check_in_date"  validate:"nullable,date"`
	CheckOut string `form:"check_out_date" validate:"nullable,date,after_or_equal=check_in_date"`
}

func TestDateRules(t *testing.T) {
	assert.Empty(t, validate.Struct(stayInput{CheckIn: "2025-08-01", CheckOut: "2025-08-01"}))
	assert.Empty(t, validate.Struct(stayInput{CheckOut: "2025-08-01"}))

	errs := validate.Struct(stayInput{CheckIn: "2025-08-03", CheckOut: "2025-08-01"})
	assert.Equal(t, "The check out date must be a date after or equal to check in date.", errs["check_out_date"])

	errs = validate.Struct(stayInput{CheckIn: "yesterday"})
	assert.Equal(t, "The check in date is not a valid date.", errs["check_in_date"])
}

func TestSliceSize(t *testing.T) {
	type in struct {
		IDs []uint `form:"categories" validate:"required,min=1"`
	}
	assert.NotEmpty(t, validate.Struct(in{})["categories"])
	assert.Empty(t, validate.Struct(in{IDs: []uint{3}}))
}

func TestEmailRule(t *testing.T) {
	errs := validate.Struct(propertyInput{Name: "x", Email: "not-an-email"})
	assert.Contains(t, errs, "email")
}
