package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"tour_catalog/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names ("video_url") rather than Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs tag validation and folds the first failure into
// ErrValidation.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		msg := fe.Field() + " is invalid"
		if fe.Tag() == "required" {
			msg = fe.Field() + " is required"
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}
