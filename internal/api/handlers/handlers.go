// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"database/sql"

	"github.com/fluffyriot/postdeck/internal/config"
	"github.com/fluffyriot/postdeck/internal/database"
	"github.com/fluffyriot/postdeck/internal/middleware"
	"github.com/fluffyriot/postdeck/internal/posts"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type Handler struct {
	DB     *database.Queries
	DBConn *sql.DB
	Posts  *posts.Service
	Config *config.AppConfig
}

func NewHandler(db *database.Queries, conn *sql.DB, svc *posts.Service, cfg *config.AppConfig) *Handler {
	registerValidators()
	return &Handler{
		DB:     db,
		DBConn: conn,
		Posts:  svc,
		Config: cfg,
	}
}

func (h *Handler) GetAuthenticatedUser(c *gin.Context) (database.User, bool) {
	return middleware.CurrentUser(c)
}

// wantsJSON separates API clients from the HTML forms, which post url-encoded bodies.
func wantsJSON(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEJSON
}
