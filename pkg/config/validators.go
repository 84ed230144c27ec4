package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ssargent/stegano/pkg/cipher"
	"github.com/ssargent/stegano/pkg/png"
)

// registerFormats wires the flag formats that plain struct tags cannot
// express. Empty values pass here; whether a field may be empty is the
// command's concern, not the format's.
func registerFormats(validate *validator.Validate) error {
	checks := map[string]validator.Func{
		"offsetspec": validOffset,
		"cipheralg":  validAlgorithm,
		"chunktag":   validTag,
		"exclusive":  validateExclusive,
	}

	for name, fn := range checks {
		if err := validate.RegisterValidation(name, fn); err != nil {
			return fmt.Errorf("registering %s validation: %w", name, err)
		}
	}

	return nil
}

// validOffset accepts "auto" or a non-negative byte position.
func validOffset(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	_, err := png.ParseOffset(s)

	return err == nil
}

// validAlgorithm accepts any spelling the cipher registry knows.
func validAlgorithm(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	_, err := cipher.ParseAlgorithm(s)

	return err == nil
}

// validTag accepts a four ASCII letter chunk tag.
func validTag(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	_, err := png.ParseTag(s)

	return err == nil
}

// validateExclusive checks that the tagged field and the named sibling
// are not both set.
func validateExclusive(fl validator.FieldLevel) bool {
	field := fl.Field()
	otherField := fl.Parent().FieldByName(fl.Param())

	if !field.IsValid() || !otherField.IsValid() {
		return true
	}

	return field.IsZero() || otherField.IsZero()
}
