// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"github.com/fluffyriot/postdeck/internal/middleware"
	"github.com/fluffyriot/postdeck/internal/posts"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every page and API route. Session and auth middleware
// must already be installed on r.
func (h *Handler) RegisterRoutes(r *gin.Engine, limiter *middleware.RateLimiter) {
	r.SetHTMLTemplate(Templates())

	r.GET("/health", h.HealthCheckHandler)

	r.GET("/", h.RootHandler)
	r.GET(middleware.SignInPath, h.SignInPageHandler)
	r.GET(middleware.SignUpPath, h.SignUpPageHandler)
	r.GET(middleware.TwoFactorPath, h.TwoFactorPageHandler)
	r.GET(middleware.DashboardPath, h.DashboardHandler)
	for _, p := range posts.Platforms {
		r.GET("/"+string(p), h.PlatformPageHandler(p))
	}

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/sign-up/email", limiter.Middleware(), h.SignUpHandler)
	auth.POST("/sign-in/email", limiter.Middleware(), h.SignInHandler)
	auth.POST("/sign-out", h.SignOutHandler)
	auth.GET("/get-session", h.GetSessionHandler)
	auth.POST("/two-factor/enable", h.TwoFAEnableHandler)
	auth.POST("/two-factor/confirm", h.TwoFAConfirmHandler)
	auth.POST("/two-factor/verify-totp", limiter.Middleware(), h.TwoFAVerifyHandler)
	auth.POST("/two-factor/disable", h.TwoFADisableHandler)

	api.GET("/posts", h.ListPostsHandler)
	api.POST("/posts", h.CreatePostHandler)
	api.PUT("/posts", h.UpdatePostHandler)
	api.DELETE("/posts", h.DeletePostHandler)
	api.POST("/posts/clone", h.ClonePostHandler)
	api.GET("/posts/export", h.ExportPostsHandler)

	api.GET("/analytics", h.AnalyticsHandler)
	api.GET("/platforms", h.PlatformsHandler)
	api.POST("/uploads/image", h.UploadImageHandler)
}
