package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestParseAttributeSchema(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"empty", "", false},
		{"number with bounds", `[{"key":"abv","label":"ABV","type":"number","min":0,"max":100,"step":0.1}]`, false},
		{"select with options", `[{"key":"roast","label":"Roast","type":"select","options":["light","dark"]}]`, false},
		{"optional text", `[{"key":"origin","label":"Origin","type":"text","optional":true}]`, false},
		{"malformed json", `{"key":`, true},
		{"missing key", `[{"label":"ABV","type":"number"}]`, true},
		{"missing label", `[{"key":"abv","type":"number"}]`, true},
		{"duplicate keys", `[{"key":"a","label":"A","type":"text"},{"key":"a","label":"B","type":"text"}]`, true},
		{"unknown type", `[{"key":"a","label":"A","type":"boolean"}]`, true},
		{"min above max", `[{"key":"abv","label":"ABV","type":"number","min":10,"max":1}]`, true},
		{"zero step", `[{"key":"abv","label":"ABV","type":"number","step":0}]`, true},
		{"select without options", `[{"key":"roast","label":"Roast","type":"select"}]`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAttributeSchema(datatypes.JSON(tc.raw))
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAttributeSchema)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateValues(t *testing.T) {
	schema, err := ParseAttributeSchema(datatypes.JSON(`[
		{"key":"abv","label":"ABV","type":"number","min":0,"max":100},
		{"key":"roast","label":"Roast","type":"select","options":["light","dark"]},
		{"key":"origin","label":"Origin","type":"text","optional":true}
	]`))
	require.NoError(t, err)

	coerced, err := schema.ValidateValues(map[string]any{
		"abv":     "5.4",
		"roast":   "dark",
		"ignored": "dropped",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"abv": 5.4, "roast": "dark"}, coerced)

	_, err = schema.ValidateValues(map[string]any{"roast": "dark"})
	assert.ErrorIs(t, err, ErrAttributeInvalid)

	_, err = schema.ValidateValues(map[string]any{"abv": 120.0, "roast": "dark"})
	assert.ErrorIs(t, err, ErrAttributeInvalid)

	_, err = schema.ValidateValues(map[string]any{"abv": 5.0, "roast": "medium"})
	assert.ErrorIs(t, err, ErrAttributeInvalid)
}
