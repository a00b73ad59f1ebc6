package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost     = 12
	MinPasswordLen = 5
	MaxPasswordLen = 50

	// The accepted symbol set for the complexity check.
	PasswordSymbols = "!@#$%^&*()-_=+[]{};:,.<>?/|~"
)

// PasswordValidationError holds field-level validation failures.
type PasswordValidationError struct {
	Errors []string
}

func (e *PasswordValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "password validation failed"
	}
	return "password " + strings.Join(e.Errors, "; ")
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword enforces the password policy: 5-50 characters with at
// least one uppercase letter, one lowercase letter, one digit and one symbol
// from PasswordSymbols.
func ValidatePassword(password string) error {
	errs := make([]string, 0)

	if len(password) < MinPasswordLen {
		errs = append(errs, fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}
	if len(password) > MaxPasswordLen {
		errs = append(errs, fmt.Sprintf("must be at most %d characters", MaxPasswordLen))
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSymbol := false

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		errs = append(errs, "must contain at least one uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "must contain at least one lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "must contain at least one digit")
	}
	if !hasSymbol {
		errs = append(errs, "must contain at least one symbol")
	}

	if len(errs) > 0 {
		return &PasswordValidationError{Errors: errs}
	}

	return nil
}
