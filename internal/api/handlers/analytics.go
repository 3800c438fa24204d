// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"log"
	"net/http"

	"github.com/fluffyriot/postdeck/internal/stats"
	"github.com/gin-gonic/gin"
)

func (h *Handler) summary(c *gin.Context) (stats.Summary, error) {
	list, err := h.Posts.ListChronological(c.Request.Context())
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Calculate(list, h.Config.Location), nil
}

func (h *Handler) AnalyticsHandler(c *gin.Context) {
	summary, err := h.summary(c)
	if err != nil {
		log.Printf("Error getting analytics: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
