// SPDX-License-Identifier: AGPL-3.0-only
package database

import (
	"database/sql"

	"github.com/google/uuid"
)

type Post struct {
	ID            string
	Platform      string
	Title         string
	ImageUrls     string
	Caption       string
	Likes         int64
	Comments      int64
	Status        string
	ScheduledDate sql.NullString
	CreatedAt     string
	UpdatedAt     string
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash sql.NullString
	TotpSecret   sql.NullString
	TotpEnabled  bool
	CreatedAt    string
	UpdatedAt    string
}
