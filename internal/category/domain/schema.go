package domain

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gorm.io/datatypes"
)

type AttributeSchema []AttributeField

// ParseAttributeSchema decodes and checks a stored schema. Empty input is a
// valid schema with no fields.
func ParseAttributeSchema(raw datatypes.JSON) (AttributeSchema, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var schema AttributeSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAttributeSchema, err)
	}

	seen := make(map[string]struct{}, len(schema))
	for _, field := range schema {
		if field.Key == "" {
			return nil, fmt.Errorf("%w: field key is required", ErrInvalidAttributeSchema)
		}
		if field.Label == "" {
			return nil, fmt.Errorf("%w: field %q has no label", ErrInvalidAttributeSchema, field.Key)
		}
		if _, dup := seen[field.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidAttributeSchema, field.Key)
		}
		seen[field.Key] = struct{}{}

		switch field.Type {
		case FieldTypeNumber:
			if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
				return nil, fmt.Errorf("%w: field %q min exceeds max", ErrInvalidAttributeSchema, field.Key)
			}
			if field.Step != nil && *field.Step <= 0 {
				return nil, fmt.Errorf("%w: field %q step must be positive", ErrInvalidAttributeSchema, field.Key)
			}
		case FieldTypeText:
		case FieldTypeSelect:
			if len(field.Options) == 0 {
				return nil, fmt.Errorf("%w: select field %q has no options", ErrInvalidAttributeSchema, field.Key)
			}
		default:
			return nil, fmt.Errorf("%w: field %q has unknown type %q", ErrInvalidAttributeSchema, field.Key, field.Type)
		}
	}
	return schema, nil
}

// ErrAttributeInvalid wraps per-field failures when validating product
// attribute values against a schema.
var ErrAttributeInvalid = fmt.Errorf("invalid_attribute")

// ValidateValues checks raw attribute values against the schema and returns
// the coerced set. Keys outside the schema are dropped.
func (s AttributeSchema) ValidateValues(values map[string]any) (map[string]any, error) {
	coerced := make(map[string]any, len(s))
	for _, field := range s {
		value, ok := values[field.Key]
		if !ok || value == nil {
			if !field.Optional {
				return nil, fmt.Errorf("%w: %q is required", ErrAttributeInvalid, field.Key)
			}
			continue
		}

		switch field.Type {
		case FieldTypeNumber:
			number, err := coerceNumber(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %q must be a number", ErrAttributeInvalid, field.Key)
			}
			if field.Min != nil && number < *field.Min {
				return nil, fmt.Errorf("%w: %q is below %v", ErrAttributeInvalid, field.Key, *field.Min)
			}
			if field.Max != nil && number > *field.Max {
				return nil, fmt.Errorf("%w: %q is above %v", ErrAttributeInvalid, field.Key, *field.Max)
			}
			coerced[field.Key] = number
		case FieldTypeText:
			text, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %q must be text", ErrAttributeInvalid, field.Key)
			}
			coerced[field.Key] = text
		case FieldTypeSelect:
			choice, ok := value.(string)
			if !ok || !contains(field.Options, choice) {
				return nil, fmt.Errorf("%w: %q must be one of %v", ErrAttributeInvalid, field.Key, field.Options)
			}
			coerced[field.Key] = choice
		}
	}
	return coerced, nil
}

func coerceNumber(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("not a number")
	}
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
