package main

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var flagValidator = newFlagValidator()

func newFlagValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("flag"); name != "" {
			return "--" + name
		}
		return field.Name
	})
	return v
}

// validateFlags checks a flag struct against its validate tags and turns
// the first violation into a user-facing message.
func validateFlags(flags any) error {
	err := flagValidator.Struct(flags)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "min":
		return fmt.Errorf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Errorf("%s: unsupported value %q (want one of: %s)", fe.Field(), fmt.Sprint(fe.Value()),
			strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Errorf("%s: invalid value %q", fe.Field(), fmt.Sprint(fe.Value()))
	}
}
