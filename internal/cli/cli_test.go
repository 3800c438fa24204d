// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fluffyriot/postdeck/internal/authhelp"
	"github.com/fluffyriot/postdeck/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "Sup3r$ecret"

func newTestDB(t *testing.T) *database.Queries {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = database.Migrate(db, database.DialectSQLite)
	require.NoError(t, err)
	return database.New(db)
}

func passwords(values ...string) PasswordReader {
	return func(string) (string, error) {
		if len(values) == 0 {
			return "", errors.New("no more input")
		}
		v := values[0]
		values = values[1:]
		return v, nil
	}
}

func TestCreateAdminIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	var out bytes.Buffer

	err := Run(ctx, []string{"create-admin", "--email", "Admin@Example.com"}, db, passwords(strongPassword, strongPassword), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Admin user created: admin@example.com")

	user, err := authhelp.Authenticate(ctx, db, "admin@example.com", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, "Admin", user.Name)

	out.Reset()
	err = Run(ctx, []string{"create-admin", "--email", "admin@example.com"}, db, passwords(), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "already exists")

	n, err := db.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCreateAdminRejectsBadPasswords(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := CreateAdmin(ctx, db, "a@example.com", "A", passwords("short"), &bytes.Buffer{})
	assert.ErrorIs(t, err, authhelp.ErrWeakPassword)

	err = CreateAdmin(ctx, db, "a@example.com", "A", passwords(strongPassword, "Different1!"), &bytes.Buffer{})
	assert.EqualError(t, err, "passwords do not match")

	n, err := db.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResetPasswordAndTwoFactor(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, err := authhelp.RegisterUser(ctx, db, "Bia", "bia@example.com", strongPassword)
	require.NoError(t, err)
	require.NoError(t, authhelp.EnableTOTP(ctx, db, user.ID, "JBSWY3DPEHPK3PXP"))

	newPassword := "An0ther#Pass"
	var out bytes.Buffer
	require.NoError(t, Run(ctx, []string{"reset-password", "--email", "bia@example.com"}, db, passwords(newPassword, newPassword), &out))
	_, err = authhelp.Authenticate(ctx, db, "bia@example.com", newPassword)
	assert.NoError(t, err)

	require.NoError(t, Run(ctx, []string{"reset-2fa", "--email", "bia@example.com"}, db, nil, &out))
	got, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.TotpEnabled)
	assert.False(t, got.TotpSecret.Valid)
}

func TestRunErrors(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	assert.Error(t, Run(ctx, nil, db, nil, &bytes.Buffer{}))
	assert.EqualError(t, Run(ctx, []string{"reset-2fa"}, db, nil, &bytes.Buffer{}), "--email is required")
	assert.ErrorContains(t, Run(ctx, []string{"nope", "--email", "x@example.com"}, db, nil, &bytes.Buffer{}), "unknown command")
	assert.ErrorContains(t, Run(ctx, []string{"reset-2fa", "--email", "ghost@example.com"}, db, nil, &bytes.Buffer{}), "not found")
}
