package contract

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mietwerk/mietwerk/internal/shared/constants"
	"github.com/mietwerk/mietwerk/internal/shared/errors"
)

const maxNumberLength = 64

// NumberGenerator produces the next sequential contract number.
// Implementations must be called inside the transaction that persists the contract.
type NumberGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// FormatNumber renders a sequence value as PREFIX-NNNNN.
func FormatNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s-%0*d", prefix, constants.ContractNumberDigits, seq)
}

// ParseNumber extracts the sequence value from a PREFIX-NNNNN number.
// Numbers with a foreign prefix, too few digits or a non-numeric suffix do not parse.
func ParseNumber(prefix, number string) (int, bool) {
	digits, ok := strings.CutPrefix(number, prefix+"-")
	if !ok || len(digits) < constants.ContractNumberDigits {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	seq, err := strconv.Atoi(digits)
	if err != nil || seq < 1 {
		return 0, false
	}
	return seq, true
}

// ValidateNumber checks an operator supplied contract number.
func ValidateNumber(number string) error {
	if number == "" {
		return errors.NewFieldError(FieldNumber, "number is required")
	}
	if len(number) > maxNumberLength {
		return errors.NewFieldError(FieldNumber,
			fmt.Sprintf("number must be at most %d characters long", maxNumberLength))
	}
	if strings.IndexFunc(number, unicode.IsSpace) >= 0 {
		return errors.NewFieldError(FieldNumber, "number must not contain whitespace")
	}
	return nil
}
