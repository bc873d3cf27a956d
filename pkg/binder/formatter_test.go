package binder

import (
	"reflect"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unknownTagError stands in for a validation tag the formatter has no
// message for.
type unknownTagError struct {
	validator.FieldError
}

func (unknownTagError) Tag() string                      { return "foo" }
func (unknownTagError) Field() string                    { return "multi_word" }
func (unknownTagError) Kind() reflect.Kind               { return reflect.String }
func (unknownTagError) Translate(_ ut.Translator) string { return "" }

func TestFormatValidationError(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	cases := []struct {
		name  string
		input interface{}
		msg   string
	}{
		{"required", &struct {
			V string `json:"multi_word" validate:"required"`
		}{}, `"multi_word" is required`},
		{"email", &struct {
			V string `json:"multi_word" validate:"email"`
		}{"nope"}, `"multi_word" is not a valid email`},
		{"string max", &struct {
			V string `json:"multi_word" validate:"max=2"`
		}{"abc"}, `"multi_word" length must be less than or equal to 2 characters`},
		{"string max of one", &struct {
			V string `json:"multi_word" validate:"max=1"`
		}{"ab"}, `"multi_word" length must be less than or equal to 1 character`},
		{"string min", &struct {
			V string `json:"multi_word" validate:"min=8"`
		}{"short"}, `"multi_word" length must be greater than or equal to 8 characters`},
		{"int max", &struct {
			V int `json:"multi_word" validate:"max=100"`
		}{101}, `"multi_word" must be less than or equal to 100`},
		{"int min", &struct {
			V int `json:"multi_word" validate:"min=1"`
		}{0}, `"multi_word" must be greater than or equal to 1`},
		{"float min", &struct {
			V float64 `json:"multi_word" validate:"min=0"`
		}{-1}, `"multi_word" must be greater than or equal to 0`},
		{"slice max", &struct {
			V []int `json:"multi_word" validate:"max=1"`
		}{[]int{1, 2}}, `"multi_word" length must be less than or equal to 1 element`},
		{"slice min", &struct {
			V []int `json:"multi_word" validate:"min=2"`
		}{[]int{1}}, `"multi_word" length must be greater than or equal to 2 elements`},
		{"ne", &struct {
			V string `json:"multi_word" validate:"ne=20"`
		}{"20"}, `"multi_word" can't be "20"`},
		{"oneof", &struct {
			V string `json:"multi_word" validate:"oneof=librarian borrower"`
		}{"wizard"}, `"multi_word" must be one of the following: "librarian", "borrower"`},
		{"date", &struct {
			V string `json:"multi_word" validate:"date"`
		}{"2024-02-30"}, `"multi_word" should be in the format of YYYY-MM-DD`},
		{"isbn", &struct {
			V string `json:"multi_word" validate:"isbn"`
		}{"978-0-00"}, `"multi_word" should be exactly 13 digits`},
		{"status", &struct {
			V string `json:"multi_word" validate:"status"`
		}{"x"}, `"multi_word" must be one of the following: "m", "o", "a", "r"`},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := b.validate.Struct(tt.input)
			require.Error(t, err)

			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, tt.msg, formatValidationError(errs[0]))
		})
	}

	t.Run("unknown tag", func(t *testing.T) {
		assert.Equal(t, `"multi_word" is invalid`, formatValidationError(unknownTagError{}))
	})
}
