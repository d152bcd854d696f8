package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// validationMessage renders the first binding failure on a bound struct as a
// user-facing message. Anything that is not a field validation error gets a
// generic message; the original error is still attached to the gin context
// for logging.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "gte", "min":
			return fe.Field() + " must be at least " + fe.Param()
		case "lte", "max":
			return fe.Field() + " must not exceed " + fe.Param()
		default:
			return fe.Field() + " is invalid"
		}
	}
	return "Invalid request parameters"
}
