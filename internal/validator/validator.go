package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bdeshop/khelaghor-sub001/internal/models"
)

var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidPassword = errors.New("invalid password")
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

// ValidateInputFields checks a payment method's field descriptors at
// create/update time: names unique and non-empty, types known.
func ValidateInputFields(fields models.InputFields) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return errors.New("input field name is required")
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("duplicate input field %q", name)
		}
		seen[name] = struct{}{}
		if !models.ValidFieldType(field.Type) {
			return fmt.Errorf("input field %q: %w %q", name, models.ErrUnknownFieldType, field.Type)
		}
	}
	return nil
}

// ValidateUserInput checks user-supplied values against a method's field
// descriptors: required fields present and non-empty, number fields numeric,
// no values for fields the method does not declare.
func ValidateUserInput(fields models.InputFields, input models.UserInput) error {
	declared := make(map[string]models.InputField, len(fields))
	for _, field := range fields {
		declared[field.Name] = field
	}
	for name := range input {
		if _, ok := declared[name]; !ok {
			return fmt.Errorf("unexpected input field %q", name)
		}
	}
	for _, field := range fields {
		value, present := input[field.Name]
		if strings.TrimSpace(value) == "" {
			present = false
		}
		if !present {
			if field.Required {
				return fmt.Errorf("input field %q is required", field.Name)
			}
			continue
		}
		if field.Type == models.FieldNumber {
			if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
				return fmt.Errorf("input field %q must be a number", field.Name)
			}
		}
	}
	return nil
}
