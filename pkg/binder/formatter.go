package binder

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/samber/lo"
)

// Validation tags the formatter knows how to describe.
const (
	date     = "date"
	email    = "email"
	isbn     = "isbn"
	mx       = "max"
	mn       = "min"
	ne       = "ne"
	oneof    = "oneof"
	required = "required"
	status   = "status"
)

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case required:
		return fmt.Sprintf("%q is required", field)
	case date:
		return fmt.Sprintf("%q should be in the format of YYYY-MM-DD", field)
	case isbn:
		return fmt.Sprintf("%q should be exactly 13 digits", field)
	case status:
		return fmt.Sprintf("%q must be one of the following: %s", field, quoteAll(models.Statuses))
	case oneof:
		return fmt.Sprintf("%q must be one of the following: %s", field, quoteAll(strings.Fields(err.Param())))
	case email:
		return fmt.Sprintf("%q is not a valid email", field)
	case ne:
		return fmt.Sprintf("%q can't be %q", field, err.Param())
	case mx:
		return formatBound(err, "less than or equal to")
	case mn:
		return formatBound(err, "greater than or equal to")
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

// formatBound describes a min/max failure. Numbers are compared by value;
// strings and slices by length.
func formatBound(err validator.FieldError, relation string) string {
	//exhaustive:ignore
	switch err.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%q must be %s %s", err.Field(), relation, err.Param())
	}

	unit := "character"
	if err.Kind() == reflect.Slice {
		unit = "element"
	}
	if err.Param() != "1" {
		unit += "s"
	}
	return fmt.Sprintf("%q length must be %s %s %s", err.Field(), relation, err.Param(), unit)
}

func quoteAll(values []string) string {
	return strings.Join(lo.Map(values, func(v string, _ int) string {
		return fmt.Sprintf("%q", v)
	}), ", ")
}
