package services

import (
	"unicode"
)

// Credential requirements
const (
	MinPasswordLength     = 8
	MinSecurityCodeLength = 4
	MaxSecurityCodeLength = 32
)

// ValidatePassword checks an admin or analyst password
// - At least 8 characters
// - At least one letter
// - At least one number
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ValidationError("password must be at least %d characters long", MinPasswordLength)
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter {
		return ValidationError("password must contain at least one letter")
	}
	if !hasNumber {
		return ValidationError("password must contain at least one number")
	}
	return nil
}

// ValidateSecurityCode checks the code printed on a lawyer's bar card
func ValidateSecurityCode(code string) error {
	if len(code) < MinSecurityCodeLength || len(code) > MaxSecurityCodeLength {
		return ValidationError("security_code must be between %d and %d characters", MinSecurityCodeLength, MaxSecurityCodeLength)
	}
	for _, char := range code {
		if !unicode.IsLetter(char) && !unicode.IsNumber(char) {
			return ValidationError("security_code must be alphanumeric")
		}
	}
	return nil
}
