// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/fluffyriot/postdeck/internal/authhelp"
	"github.com/fluffyriot/postdeck/internal/database"
	"golang.org/x/term"
)

const usage = `usage: postdeck-admin <command> [flags]

commands:
  create-admin   --email <email> [--name <name>]
  reset-password --email <email>
  reset-2fa      --email <email>`

// PasswordReader prompts for a secret without echoing it.
type PasswordReader func(prompt string) (string, error)

func TerminalPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

// Run dispatches one admin subcommand.
func Run(ctx context.Context, args []string, db *database.Queries, readPassword PasswordReader, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "Admin", "display name for create-admin")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w\n\n%s", err, usage)
	}
	if *email == "" {
		return errors.New("--email is required")
	}

	switch args[0] {
	case "create-admin":
		return CreateAdmin(ctx, db, *email, *name, readPassword, out)
	case "reset-password":
		return ResetPassword(ctx, db, *email, readPassword, out)
	case "reset-2fa":
		return Reset2FA(ctx, db, *email, out)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

// CreateAdmin is a no-op when the address is already registered.
func CreateAdmin(ctx context.Context, db *database.Queries, email, name string, readPassword PasswordReader, out io.Writer) error {
	normalized, err := authhelp.NormalizeEmail(email)
	if err != nil {
		return err
	}

	_, err = db.GetUserByEmail(ctx, normalized)
	if err == nil {
		fmt.Fprintf(out, "Admin user %s already exists\n", normalized)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	password, err := readConfirmedPassword(normalized, readPassword)
	if err != nil {
		return err
	}

	user, err := authhelp.RegisterUser(ctx, db, name, normalized, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Admin user created: %s (%s)\n", user.Email, user.ID)
	return nil
}

func ResetPassword(ctx context.Context, db *database.Queries, email string, readPassword PasswordReader, out io.Writer) error {
	user, err := lookup(ctx, db, email)
	if err != nil {
		return err
	}

	password, err := readConfirmedPassword(user.Email, readPassword)
	if err != nil {
		return err
	}

	if err := authhelp.SetPassword(ctx, db, user.ID, password); err != nil {
		return err
	}

	fmt.Fprintln(out, "Password updated successfully.")
	return nil
}

func Reset2FA(ctx context.Context, db *database.Queries, email string, out io.Writer) error {
	user, err := lookup(ctx, db, email)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Resetting 2FA for user '%s'...\n", user.Email)
	if err := authhelp.DisableTOTP(ctx, db, user.ID); err != nil {
		return fmt.Errorf("failed to reset 2FA: %w", err)
	}

	fmt.Fprintf(out, "2FA successfully disabled for user '%s'\n", user.Email)
	return nil
}

func lookup(ctx context.Context, db *database.Queries, email string) (database.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := db.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return database.User{}, fmt.Errorf("user '%s' not found", email)
	}
	if err != nil {
		return database.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

func readConfirmedPassword(email string, readPassword PasswordReader) (string, error) {
	password, err := readPassword(fmt.Sprintf("Enter new password for '%s': ", email))
	if err != nil {
		return "", err
	}
	if err := authhelp.ValidatePasswordStrength(password); err != nil {
		return "", fmt.Errorf("password is too weak: %w", err)
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if confirm != password {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}
