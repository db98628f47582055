package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	v := make(Violations)

	Required("name", "  ", v)
	OneOf("status", "inconnu", []string{"actif", "expire"}, v)
	OneOf("empty", "", []string{"actif"}, v)
	Day("date", "2024-13-01", v)
	Day("ok", "2024-06-03", v)
	Clock("time", "24:00", v)
	Clock("time2", "08:30", v)
	NonNegative("stock.current", -1, v)
	Positive("quantity", 0, v)
	Email("email", "pas-un-email", v)
	DayOrder("endDate", "2024-06-03", "2024-06-01", v)

	assert.Equal(t, Violations{
		"name":          "required",
		"status":        "invalid_value",
		"date":          "invalid_date",
		"time":          "invalid_time",
		"stock.current": "must_not_be_negative",
		"quantity":      "must_be_positive",
		"email":         "invalid_email",
		"endDate":       "before_start",
	}, v)
}

func TestViolations_Err(t *testing.T) {
	assert.NoError(t, Violations{}.Err())

	err := Violations{"b": "required", "a": "invalid_date"}.Err()
	assert.EqualError(t, err, "validation failed: a: invalid_date, b: required")

	var got Violations
	assert.True(t, errors.As(err, &got))
	assert.Equal(t, "required", got["b"])
}

func TestViolations_Merge(t *testing.T) {
	v := Violations{"name": "required"}
	v.Merge("address", Violations{"city": "required"})
	v.Merge("", Violations{"team": "required"})

	assert.Equal(t, Violations{
		"name":         "required",
		"address.city": "required",
		"team":         "required",
	}, v)
}
