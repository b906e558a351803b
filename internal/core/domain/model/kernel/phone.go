package kernel

import (
	"fmt"
	"regexp"
	"strings"

	"savannah/internal/pkg/errs"
)

// DefaultCountryCode replaces a leading trunk prefix 0 during normalization.
const DefaultCountryCode = "254"

var phonePattern = regexp.MustCompile(`^\+\d{9,15}$`)

// NormalizePhone strips every non-digit, swaps a leading 0 for countryCode and
// prefixes "+". It is a single-country best effort: a local number from any
// other country is rewritten as if it were local to countryCode. An input
// without digits normalizes to the empty string.
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "0") {
		digits = countryCode + digits[1:]
	}
	return "+" + digits
}

// PhoneNumber is a normalized "+digits" number with 9 to 15 digits.
type PhoneNumber struct {
	value string
}

// NewPhoneNumber validates an already normalized number.
func NewPhoneNumber(value string) (PhoneNumber, error) {
	if value == "" {
		return PhoneNumber{}, errs.NewValueIsRequiredError("phone_number")
	}
	if !phonePattern.MatchString(value) {
		return PhoneNumber{}, errs.NewValueIsInvalidErrorWithCause(
			"phone_number",
			fmt.Errorf("%q must be + followed by 9 to 15 digits", value),
		)
	}
	return PhoneNumber{value: value}, nil
}

// ParsePhoneNumber normalizes raw with countryCode and validates the result.
func ParsePhoneNumber(raw, countryCode string) (PhoneNumber, error) {
	if strings.TrimSpace(raw) == "" {
		return PhoneNumber{}, errs.NewValueIsRequiredError("phone_number")
	}
	normalized := NormalizePhone(raw, countryCode)
	if normalized == "" {
		return PhoneNumber{}, errs.NewValueIsInvalidErrorWithCause(
			"phone_number",
			fmt.Errorf("%q contains no digits", raw),
		)
	}
	return NewPhoneNumber(normalized)
}

func (p PhoneNumber) String() string {
	return p.value
}

func (p PhoneNumber) IsEmpty() bool {
	return p.value == ""
}
