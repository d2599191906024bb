package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"greenshop-server/internal/schemas"
	"greenshop-server/internal/utils"
)

// ValidateAndSanitizeStruct binds the request body into the given struct,
// strips markup from its string fields and validates it. Validation failures
// are returned, never thrown further: the handler is not invoked and no store
// call happens. The response names each offending field and the rule it
// violated.
func ValidateAndSanitizeStruct(factory func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj := factory()
		if err := c.ShouldBindJSON(obj); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		requestValidator := utils.GetValidator()
		requestValidator.SanitizeData(obj)

		if err := requestValidator.Validate.Struct(obj); err != nil {
			var validationErrors validator.ValidationErrors
			if errors.As(err, &validationErrors) {
				fields := make(map[string]string, len(validationErrors))
				for _, fieldError := range validationErrors {
					fields[fieldError.Field()] = fieldError.Tag()
				}
				c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ValidationErrorDTO{
					Error:  *schemas.BadRequest,
					Fields: fields,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		c.Set(utils.SanitizedPayloadKey.String(), obj)
		c.Next()
	}
}
