package api

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata.
var validate = validator.New()

// Validate checks an input struct against its validate tags.
func Validate(input any) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}
