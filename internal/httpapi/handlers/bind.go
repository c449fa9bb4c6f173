package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/CijeTheCreator/consultify/internal/common"
)

var validate = validator.New()

func formatValidationError(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok {
		var fields []string
		for _, e := range errs {
			fields = append(fields, e.Field())
		}
		return "invalid or missing fields: " + strings.Join(fields, ", ")
	}
	return err.Error()
}

// bindAndValidate decodes the JSON body and runs struct validation. On
// failure it writes the 400 response and returns false.
func bindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid request payload")
		return false
	}
	if err := validate.Struct(obj); err != nil {
		common.Fail(c, http.StatusBadRequest, formatValidationError(err))
		return false
	}
	return true
}
