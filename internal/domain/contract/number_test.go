package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "V-00001", FormatNumber("V", 1))
	assert.Equal(t, "V-00042", FormatNumber("V", 42))
	assert.Equal(t, "V-123456", FormatNumber("V", 123456))
	assert.Equal(t, "MV-00007", FormatNumber("MV", 7))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		number string
		want   int
		ok     bool
	}{
		{number: "V-00001", want: 1, ok: true},
		{number: "V-00999", want: 999, ok: true},
		{number: "V-100000", want: 100000, ok: true},
		{number: "V-1", ok: false},
		{number: "V-0000A", ok: false},
		{number: "V-00000", ok: false},
		{number: "X-00001", ok: false},
		{number: "MV-2024/17", ok: false},
		{number: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			got, ok := ParseNumber("V", tt.number)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateNumber(t *testing.T) {
	assert.NoError(t, ValidateNumber("V-00001"))
	assert.NoError(t, ValidateNumber("MV-2024/17"))
	assert.Error(t, ValidateNumber(""))
	assert.Error(t, ValidateNumber("V 1"))
	assert.Error(t, ValidateNumber(string(make([]byte, maxNumberLength+1))))
}
