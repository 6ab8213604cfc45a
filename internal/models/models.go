package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Transaction lifecycle. A record is mutated exactly once, pending -> terminal.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusCancelled = "cancelled"
)

// Payment method availability.
const (
	MethodActive   = "active"
	MethodInactive = "inactive"
)

// Withdrawal fee rules. Fixed fees are minor units, percentage fees are
// percent values (e.g. 2.5).
const (
	FeeFixed      = "fixed"
	FeePercentage = "percentage"
)

// Input field types a payment method may require from the user.
const (
	FieldText     = "text"
	FieldNumber   = "number"
	FieldTextarea = "textarea"
)

func ValidStatus(status string) bool {
	return status == StatusPending || status == StatusApproved || status == StatusCancelled
}

// TerminalStatus reports whether a resolution target is acceptable.
// Only approved and cancelled are valid resolution outcomes.
func TerminalStatus(status string) bool {
	return status == StatusApproved || status == StatusCancelled
}

// InputField describes one user-supplied value a payment method requires,
// with bilingual display labels.
type InputField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	LabelEN     string `json:"label_en"`
	LabelBN     string `json:"label_bn"`
	Instruction string `json:"instruction,omitempty"`
}

// InputFields is stored as a jsonb column.
type InputFields []InputField

func (f InputFields) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (f *InputFields) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = nil
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("cannot scan %T into InputFields", src)
	}
}

// UserInput holds the user-supplied values for a method's input fields,
// keyed by field name. Stored as a jsonb column.
type UserInput map[string]string

func (u UserInput) Value() (driver.Value, error) {
	if u == nil {
		return "{}", nil
	}
	data, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (u *UserInput) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*u = nil
		return nil
	case []byte:
		return json.Unmarshal(v, u)
	case string:
		return json.Unmarshal([]byte(v), u)
	default:
		return fmt.Errorf("cannot scan %T into UserInput", src)
	}
}

var ErrUnknownFieldType = errors.New("unknown input field type")

func ValidFieldType(fieldType string) bool {
	return fieldType == FieldText || fieldType == FieldNumber || fieldType == FieldTextarea
}
