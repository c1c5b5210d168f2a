// Package validation holds the custom validator tags used by request DTOs
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tag names registered by Register
const (
	TagNotBlank = "notblank"
)

// Register adds the custom tags to v and makes field errors report JSON names
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation(TagNotBlank, notBlank); err != nil {
		return err
	}
	return nil
}

// notBlank fails strings made only of whitespace
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		if form := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]; form != "" {
			return form
		}
		return f.Name
	}
	return name
}
