package httpx

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationDetail flattens validator field errors into a problem detail
// string.
func ValidationDetail(err error) string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid input"
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		details = append(details, fieldErr.Field()+" failed "+fieldErr.Tag())
	}
	return strings.Join(details, "; ")
}
