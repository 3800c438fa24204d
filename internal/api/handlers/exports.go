// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fluffyriot/postdeck/internal/exports"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ExportPostsHandler(c *gin.Context) {
	platform, ok := h.platformQuery(c)
	if !ok {
		return
	}

	list, err := h.Posts.List(c.Request.Context(), platform)
	if err != nil {
		log.Printf("Error fetching posts for export: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to export posts"})
		return
	}

	var buf bytes.Buffer
	if err := exports.WritePostsCSV(&buf, list); err != nil {
		log.Printf("Error writing export: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to export posts"})
		return
	}

	filename := exports.Filename(platform, time.Now().In(h.Config.Location))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
