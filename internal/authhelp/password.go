// SPDX-License-Identifier: AGPL-3.0-only
package authhelp

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

var (
	ErrWeakPassword = errors.New("weak password")
	ErrInvalidEmail = errors.New("invalid email address")
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func ValidatePasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrWeakPassword, MinPasswordLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("%w: must contain at least one uppercase letter", ErrWeakPassword)
	case !hasLower:
		return fmt.Errorf("%w: must contain at least one lowercase letter", ErrWeakPassword)
	case !hasNumber:
		return fmt.Errorf("%w: must contain at least one number", ErrWeakPassword)
	case !hasSpecial:
		return fmt.Errorf("%w: must contain at least one special character", ErrWeakPassword)
	}

	return nil
}

// NormalizeEmail trims and lower-cases an address after checking it parses.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return email, nil
}
