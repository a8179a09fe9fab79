package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mietwerk/mietwerk/internal/shared/errors"
)

type sampleCommand struct {
	Name     string `json:"name" validate:"required,max=10"`
	Capacity int    `json:"capacity" validate:"gte=1"`
	Kind     string `json:"kind" validate:"omitempty,oneof=room building"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      sampleCommand
		wantFields map[string]string
	}{
		{
			name:  "valid command",
			input: sampleCommand{Name: "Haus A", Capacity: 1, Kind: "building"},
		},
		{
			name:  "missing name uses json field name",
			input: sampleCommand{Capacity: 1},
			wantFields: map[string]string{
				"name": "name is required",
			},
		},
		{
			name:  "several fields",
			input: sampleCommand{Name: "a very long name", Capacity: 0, Kind: "garage"},
			wantFields: map[string]string{
				"name":     "name must be at most 10 characters long",
				"capacity": "capacity must be greater than or equal to 1",
				"kind":     "kind must be one of [room building]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Equal(t, tt.wantFields, errors.FieldErrors(err))
		})
	}
}
