package budget

import (
	"strings"
	"unicode/utf8"
)

// Input validators shared by the ledger operations. They return a
// *FieldError wrapping ErrInvalid.

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "%s is required", field)
	}
	return nil
}

// ValidateAccountName checks that name is between 3 and 50 characters.
func ValidateAccountName(name string) error {
	if err := required("name", name); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(name); n < 3 || n > 50 {
		return invalid("name", "account name must be 3 to 50 characters, got %d", n)
	}
	return nil
}

// ValidateAccountNumber checks that number is exactly the last 4 digits of an account number.
func ValidateAccountNumber(number string) error {
	if len(number) != 4 {
		return invalid("number", "enter the last 4 digits of the account number, got %q", number)
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return invalid("number", "enter the last 4 digits of the account number, got %q", number)
		}
	}
	return nil
}

// validateAmount rejects negative amounts. A zero amount is valid.
func validateAmount(field string, m Money) error {
	if m.IsNegative() {
		return invalid(field, "amount cannot be negative, got %s", m)
	}
	return nil
}
