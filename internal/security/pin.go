package security

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"fieldforce-backend/internal/domain"
)

const (
	minPinLength = 4
	maxPinLength = 6
)

// ValidatePinFormat checks that pin is a 4-6 digit numeric string.
func ValidatePinFormat(pin string) error {
	if len(pin) < minPinLength || len(pin) > maxPinLength {
		return fmt.Errorf("pin must be %d-%d digits", minPinLength, maxPinLength)
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("pin must contain digits only")
		}
	}
	return nil
}

// HashPin returns the bcrypt hash of pin.
func HashPin(pin string) (string, error) {
	if err := ValidatePinFormat(pin); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}

// VerifyPin compares a submitted pin against the stored hash. A mismatch or
// missing credential is domain.ErrAuthenticationFailed; the caller decides
// whether the operation is retryable.
func VerifyPin(hash, pin string) error {
	if hash == "" {
		return fmt.Errorf("no transaction pin set: %w", domain.ErrAuthenticationFailed)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return fmt.Errorf("pin mismatch: %w", domain.ErrAuthenticationFailed)
	}
	return nil
}
