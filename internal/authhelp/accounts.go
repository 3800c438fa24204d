// SPDX-License-Identifier: AGPL-3.0-only
package authhelp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fluffyriot/postdeck/internal/database"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNameRequired       = errors.New("name is required")
)

func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// RegisterUser creates an account after checking the address and password policy.
func RegisterUser(ctx context.Context, db *database.Queries, name, email, password string) (database.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return database.User{}, ErrNameRequired
	}

	email, err := NormalizeEmail(email)
	if err != nil {
		return database.User{}, err
	}

	if err := ValidatePasswordStrength(password); err != nil {
		return database.User{}, err
	}

	_, err = db.GetUserByEmail(ctx, email)
	if err == nil {
		return database.User{}, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return database.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return database.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := timestamp(time.Now())
	u, err := db.CreateUser(ctx, database.CreateUserParams{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: sql.NullString{String: hash, Valid: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if database.IsUniqueViolation(err) {
		return database.User{}, ErrEmailTaken
	}
	if err != nil {
		return database.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// Authenticate returns ErrInvalidCredentials for both unknown addresses and wrong passwords.
func Authenticate(ctx context.Context, db *database.Queries, email, password string) (database.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := db.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return database.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return database.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if !u.PasswordHash.Valid || !CheckPasswordHash(u.PasswordHash.String, password) {
		return database.User{}, ErrInvalidCredentials
	}

	return u, nil
}

func SetPassword(ctx context.Context, db *database.Queries, id uuid.UUID, password string) error {
	if err := ValidatePasswordStrength(password); err != nil {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = db.UpdateUserPassword(ctx, database.UpdateUserPasswordParams{
		ID:           id,
		PasswordHash: sql.NullString{String: hash, Valid: true},
		UpdatedAt:    timestamp(time.Now()),
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func EnableTOTP(ctx context.Context, db *database.Queries, id uuid.UUID, secret string) error {
	_, err := db.UpdateUserTOTP(ctx, database.UpdateUserTOTPParams{
		ID:          id,
		TotpSecret:  sql.NullString{String: secret, Valid: true},
		TotpEnabled: true,
		UpdatedAt:   timestamp(time.Now()),
	})
	return err
}

func DisableTOTP(ctx context.Context, db *database.Queries, id uuid.UUID) error {
	_, err := db.UpdateUserTOTP(ctx, database.UpdateUserTOTPParams{
		ID:          id,
		TotpSecret:  sql.NullString{},
		TotpEnabled: false,
		UpdatedAt:   timestamp(time.Now()),
	})
	return err
}
