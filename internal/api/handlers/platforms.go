// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"net/http"

	"github.com/fluffyriot/postdeck/internal/helpers"
	"github.com/gin-gonic/gin"
)

func (h *Handler) PlatformsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, helpers.AvailablePlatforms)
}
