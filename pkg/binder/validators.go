package binder

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/samber/lo"
)

var isbnRE = regexp.MustCompile(`^\d{13}$`)

// customValidations are registered on every Binder under their tag.
var customValidations = map[string]validator.Func{
	date:   dateValidator,
	isbn:   isbnValidator,
	status: statusValidator,
}

// dateValidator accepts a real calendar date as YYYY-MM-DD, or the empty
// string so an optional date can be cleared. Add `required` when it can't be
// empty.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := models.ParseDate(value)
	return err == nil
}

// isbnValidator requires exactly 13 digits. Checksums aren't verified.
func isbnValidator(fl validator.FieldLevel) bool {
	return isbnRE.MatchString(fl.Field().String())
}

func statusValidator(fl validator.FieldLevel) bool {
	return lo.Contains(models.Statuses, fl.Field().String())
}
