// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"log"
	"net/http"

	"github.com/fluffyriot/postdeck/internal/authhelp"
	"github.com/fluffyriot/postdeck/internal/middleware"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type totpCodeRequest struct {
	Code string `json:"code" form:"code" binding:"required,numeric,len=6"`
}

type totpConfirmRequest struct {
	Secret string `json:"secret" binding:"required"`
	Code   string `json:"code" binding:"required,numeric,len=6"`
}

// TwoFAEnableHandler issues a fresh secret. Nothing is stored until the user
// proves the authenticator works through TwoFAConfirmHandler.
func (h *Handler) TwoFAEnableHandler(c *gin.Context) {
	user, _ := h.GetAuthenticatedUser(c)

	key, err := authhelp.GenerateTOTP(user.Email)
	if err != nil {
		log.Printf("Error generating 2FA key: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate 2FA key"})
		return
	}

	qrCode, err := authhelp.GenerateQRCode(key)
	if err != nil {
		log.Printf("Error generating QR code: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate QR code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"secret": key.Secret(),
		"qrCode": qrCode,
	})
}

func (h *Handler) TwoFAConfirmHandler(c *gin.Context) {
	user, _ := h.GetAuthenticatedUser(c)

	var req totpConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		return
	}

	if !authhelp.ValidateTOTP(req.Code, req.Secret) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid code. Please try again."})
		return
	}

	if err := authhelp.EnableTOTP(c.Request.Context(), h.DB, user.ID, req.Secret); err != nil {
		log.Printf("Error enabling 2FA: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to enable 2FA"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Two-factor authentication enabled"})
}

// TwoFADisableHandler requires a current code from the authenticator.
func (h *Handler) TwoFADisableHandler(c *gin.Context) {
	user, _ := h.GetAuthenticatedUser(c)

	if !user.TotpEnabled || !user.TotpSecret.Valid {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Two-factor authentication is not enabled"})
		return
	}

	var req totpCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		return
	}

	if !authhelp.ValidateTOTP(req.Code, user.TotpSecret.String) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid code"})
		return
	}

	if err := authhelp.DisableTOTP(c.Request.Context(), h.DB, user.ID); err != nil {
		log.Printf("Error disabling 2FA: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to disable 2FA"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Two-factor authentication disabled"})
}

// TwoFAVerifyHandler completes a sign-in that stopped at the second factor.
func (h *Handler) TwoFAVerifyHandler(c *gin.Context) {
	session := sessions.Default(c)
	pendingID, _ := session.Get(middleware.SessionPending2FAUID).(string)
	if pendingID == "" {
		authFailure(c, http.StatusUnauthorized, middleware.SignInPath, "No sign-in awaiting verification")
		return
	}

	var req totpCodeRequest
	if err := c.ShouldBind(&req); err != nil {
		authFailure(c, http.StatusBadRequest, middleware.TwoFactorPath, validationMessage(err))
		return
	}

	userID, err := uuid.Parse(pendingID)
	if err != nil {
		session.Delete(middleware.SessionPending2FAUID)
		if err := session.Save(); err != nil {
			log.Printf("Error saving session: %v", err)
		}
		authFailure(c, http.StatusUnauthorized, middleware.SignInPath, "No sign-in awaiting verification")
		return
	}

	user, err := h.DB.GetUserByID(c.Request.Context(), userID)
	if err != nil || !user.TotpEnabled || !user.TotpSecret.Valid {
		session.Delete(middleware.SessionPending2FAUID)
		if err := session.Save(); err != nil {
			log.Printf("Error saving session: %v", err)
		}
		authFailure(c, http.StatusUnauthorized, middleware.SignInPath, "No sign-in awaiting verification")
		return
	}

	if !authhelp.ValidateTOTP(req.Code, user.TotpSecret.String) {
		authFailure(c, http.StatusUnauthorized, middleware.TwoFactorPath, "Invalid code")
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
