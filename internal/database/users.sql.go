// SPDX-License-Identifier: AGPL-3.0-only
package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const userColumns = `id, name, email, password_hash, totp_secret, totp_enabled, created_at, updated_at`

func scanUser(row rowScanner) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.PasswordHash,
		&i.TotpSecret,
		&i.TotpEnabled,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `INSERT INTO users (id, name, email, password_hash, totp_enabled, created_at, updated_at)
VALUES (?, ?, ?, ?, FALSE, ?, ?)
RETURNING ` + userColumns

type CreateUserParams struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash sql.NullString
	CreatedAt    string
	UpdatedAt    string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(createUser),
		arg.ID,
		arg.Name,
		arg.Email,
		arg.PasswordHash,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanUser(row)
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(getUserByEmail), email)
	return scanUser(row)
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(getUserByID), id)
	return scanUser(row)
}

const countUsers = `SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countUsers)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updateUserPassword = `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?
RETURNING ` + userColumns

type UpdateUserPasswordParams struct {
	ID           uuid.UUID
	PasswordHash sql.NullString
	UpdatedAt    string
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) (User, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(updateUserPassword), arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return scanUser(row)
}

const updateUserTOTP = `UPDATE users SET totp_secret = ?, totp_enabled = ?, updated_at = ? WHERE id = ?
RETURNING ` + userColumns

type UpdateUserTOTPParams struct {
	ID          uuid.UUID
	TotpSecret  sql.NullString
	TotpEnabled bool
	UpdatedAt   string
}

func (q *Queries) UpdateUserTOTP(ctx context.Context, arg UpdateUserTOTPParams) (User, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(updateUserTOTP), arg.TotpSecret, arg.TotpEnabled, arg.UpdatedAt, arg.ID)
	return scanUser(row)
}
