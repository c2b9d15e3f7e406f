package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"backoffice-service/internal/service"
	"backoffice-service/internal/validation"
)

var registerOnce sync.Once

// registerValidation installs the custom rules on gin's shared validator.
func registerValidation() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected gin validator engine")
			return
		}
		err = validation.Register(v)
	})
	return err
}

// bindJSON decodes and validates the body, answering 400 on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	err := c.ShouldBindJSON(dest)
	if err == nil {
		return true
	}
	c.JSON(http.StatusBadRequest, validationResponse(bindErrors(err)))
	return false
}

func bindErrors(err error) []service.FieldError {
	if fields := validation.Fields(err); len(fields) > 0 {
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []service.FieldError{{
			Path:    typeErr.Field,
			Message: fmt.Sprintf("must be of type %s", typeErr.Type),
		}}
	}
	return []service.FieldError{{Path: "", Message: "request body must be valid JSON"}}
}
