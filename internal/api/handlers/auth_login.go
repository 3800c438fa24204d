// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/fluffyriot/postdeck/internal/authhelp"
	"github.com/fluffyriot/postdeck/internal/database"
	"github.com/fluffyriot/postdeck/internal/middleware"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type signUpRequest struct {
	Name     string `json:"name" form:"name" binding:"required,notblank"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// authFailure answers JSON clients with status and message, and sends form
// posts back to page with the message in the query string.
func authFailure(c *gin.Context, status int, page, msg string) {
	if wantsJSON(c) {
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	c.Redirect(http.StatusFound, page+"?error="+url.QueryEscape(msg))
}

func startSession(c *gin.Context, u database.User) error {
	session := sessions.Default(c)
	session.Delete(middleware.SessionPending2FAUID)
	session.Set(middleware.SessionUserID, u.ID.String())
	return session.Save()
}

func (h *Handler) SignUpHandler(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBind(&req); err != nil {
		authFailure(c, http.StatusBadRequest, middleware.SignUpPath, validationMessage(err))
		return
	}

	user, err := authhelp.RegisterUser(c.Request.Context(), h.DB, req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, authhelp.ErrEmailTaken):
		authFailure(c, http.StatusConflict, middleware.SignUpPath, "Email already registered")
		return
	case errors.Is(err, authhelp.ErrWeakPassword),
		errors.Is(err, authhelp.ErrInvalidEmail),
		errors.Is(err, authhelp.ErrNameRequired):
		authFailure(c, http.StatusBadRequest, middleware.SignUpPath, err.Error())
		return
	case err != nil:
		log.Printf("Error creating user: %v", err)
		authFailure(c, http.StatusInternalServerError, middleware.SignUpPath, "Failed to create account")
		return
	}

	if err := startSession(c, user); err != nil {
		log.Printf("Error saving session: %v", err)
		authFailure(c, http.StatusInternalServerError, middleware.SignUpPath, "Failed to start session")
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, SessionResponse{User: toUserResponse(user)})
		return
	}
	c.Redirect(http.StatusFound, middleware.DashboardPath)
}

func (h *Handler) SignInHandler(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBind(&req); err != nil {
		authFailure(c, http.StatusBadRequest, middleware.SignInPath, validationMessage(err))
		return
	}

	user, err := authhelp.Authenticate(c.Request.Context(), h.DB, req.Email, req.Password)
	if errors.Is(err, authhelp.ErrInvalidCredentials) {
		authFailure(c, http.StatusUnauthorized, middleware.SignInPath, "Invalid email or password")
		return
	}
	if err != nil {
		log.Printf("Error signing in: %v", err)
		authFailure(c, http.StatusInternalServerError, middleware.SignInPath, "Failed to sign in")
		return
	}

	session := sessions.Default(c)

	if user.TotpEnabled {
		session.Delete(middleware.SessionUserID)
		session.Set(middleware.SessionPending2FAUID, user.ID.String())
		if err := session.Save(); err != nil {
			log.Printf("Error saving session: %v", err)
			authFailure(c, http.StatusInternalServerError, middleware.SignInPath, "Failed to start session")
			return
		}
		if wantsJSON(c) {
			c.JSON(http.StatusOK, gin.H{"twoFactorRedirect": true})
			return
		}
		c.Redirect(http.StatusFound, middleware.TwoFactorPath)
		return
	}

	if err := startSession(c, user); err != nil {
		log.Printf("Error saving session: %v", err)
		authFailure(c, http.StatusInternalServerError, middleware.SignInPath, "Failed to start session")
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, SessionResponse{User: toUserResponse(user)})
		return
	}
	c.Redirect(http.StatusFound, middleware.DashboardPath)
}

func (h *Handler) SignOutHandler(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Printf("Error saving session: %v", err)
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.Redirect(http.StatusFound, middleware.SignInPath)
}

// GetSessionHandler reports the signed-in user, or {"user": null}.
func (h *Handler) GetSessionHandler(c *gin.Context) {
	user, loggedIn := h.GetAuthenticatedUser(c)
	if !loggedIn {
		c.JSON(http.StatusOK, SessionResponse{})
		return
	}
	c.JSON(http.StatusOK, SessionResponse{User: toUserResponse(user)})
}
