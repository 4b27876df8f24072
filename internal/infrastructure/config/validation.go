package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks the `validate` struct tags on the config sections and
// turns tag failures into messages an operator can act on
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate runs the struct tags and formats any failures
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError lists every failing field, one line each, so a
// bad config file reports all its problems in a single run
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Field(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig checks the fully-defaulted configuration before the
// daemon starts
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
