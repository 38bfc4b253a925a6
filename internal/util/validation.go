package util

import (
	"errors"
	"fmt"

	apierrors "github.com/blogworks/postapi/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RespondBindError converts a gin binding error into a 400 naming the first
// failing field, with the failed rule (e.g. "max=200") in details.
// Malformed bodies get a plain BAD_REQUEST.
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		apiErr := apierrors.ValidationError(fe.Field(), FieldErrorMessage(fe)).WithDetails(ruleDetails(fe))
		RespondWithAPIError(c, apiErr)
		return
	}
	RespondBadRequest(c, "invalid request body")
}

func ruleDetails(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// FieldErrorMessage renders a validator failure as a short sentence
func FieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "slug":
		return fmt.Sprintf("%s must be lowercase words separated by single hyphens", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
