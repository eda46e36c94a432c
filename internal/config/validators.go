package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate validates the configuration against the struct tags.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("exclusive", validateExclusive); err != nil {
		return fmt.Errorf("registering exclusive validation: %w", err)
	}

	if err := validate.RegisterValidation("paddingmode", validatePaddingMode); err != nil {
		return fmt.Errorf("registering paddingmode validation: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}

// validateExclusive checks if two fields are mutually exclusive.
// Returns false if both fields have non-empty values.
func validateExclusive(fl validator.FieldLevel) bool {
	otherFieldName := fl.Param()
	field := fl.Field()
	otherField := fl.Parent().FieldByName(otherFieldName)

	if !field.IsValid() || !otherField.IsValid() {
		return true
	}

	if field.Kind() == reflect.String && otherField.Kind() == reflect.String {
		currentValue := field.String()
		otherValue := otherField.String()

		return !(currentValue != "" && otherValue != "")
	}

	return true
}

// validatePaddingMode accepts "off", "auto" or an integer step of at least 2.
func validatePaddingMode(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())

	switch value {
	case "", "off", "auto":
		return true
	}

	step, err := strconv.Atoi(value)

	return err == nil && step >= 2
}
