// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"github.com/fluffyriot/postdeck/internal/database"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        string    `json:"createdAt"`
}

type SessionResponse struct {
	User *UserResponse `json:"user"`
}

func toUserResponse(u database.User) *UserResponse {
	return &UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		TwoFactorEnabled: u.TotpEnabled,
		CreatedAt:        u.CreatedAt,
	}
}
