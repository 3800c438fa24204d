// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fluffyriot/postdeck/internal/posts"
	"github.com/gin-gonic/gin"
)

type createPostRequest struct {
	Platform      string     `json:"platform" binding:"required,platform"`
	Title         string     `json:"title" binding:"required,notblank"`
	ImageURLs     []string   `json:"imageUrls" binding:"required,min=1,max=5,dive,notblank"`
	Caption       string     `json:"caption" binding:"required,notblank"`
	Status        string     `json:"status" binding:"required,poststatus"`
	ScheduledDate *time.Time `json:"scheduledDate" binding:"required_if=Status scheduled"`
}

type updatePostRequest struct {
	Platform      string     `json:"platform" binding:"required,platform"`
	ID            string     `json:"id" binding:"required,notblank"`
	Title         *string    `json:"title" binding:"omitempty,notblank"`
	ImageURLs     []string   `json:"imageUrls" binding:"omitempty,min=1,max=5,dive,notblank"`
	Caption       *string    `json:"caption" binding:"omitempty,notblank"`
	Status        *string    `json:"status" binding:"omitempty,poststatus"`
	ScheduledDate *time.Time `json:"scheduledDate"`
}

type postRefRequest struct {
	Platform string `json:"platform" binding:"required,platform"`
	ID       string `json:"id" binding:"required,notblank"`
}

func (h *Handler) platformQuery(c *gin.Context) (posts.Platform, bool) {
	platform, err := posts.ParsePlatform(c.Query("platform"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return "", false
	}
	return platform, true
}

// ListPostsHandler serves GET /api/posts. With id it returns one post or null,
// otherwise the platform's posts newest first, optionally narrowed by q and status.
func (h *Handler) ListPostsHandler(c *gin.Context) {
	platform, ok := h.platformQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if id := c.Query("id"); id != "" {
		post, err := h.Posts.Get(ctx, platform, id)
		if err != nil {
			log.Printf("Error fetching post: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch posts"})
			return
		}
		c.JSON(http.StatusOK, post)
		return
	}

	status, err := posts.ParseStatusFilter(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	list, err := h.Posts.List(ctx, platform)
	if err != nil {
		log.Printf("Error fetching posts: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, posts.Filter(list, c.Query("q"), status))
}

func (h *Handler) CreatePostHandler(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		return
	}

	post, err := h.Posts.Create(c.Request.Context(), posts.Platform(req.Platform), posts.CreateInput{
		Title:         req.Title,
		ImageURLs:     req.ImageURLs,
		Caption:       req.Caption,
		Status:        posts.Status(req.Status),
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		if isInputError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		log.Printf("Error creating post: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// UpdatePostHandler applies a partial update and answers null when the post does not exist.
func (h *Handler) UpdatePostHandler(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		return
	}

	in := posts.UpdateInput{
		Title:         req.Title,
		Caption:       req.Caption,
		ScheduledDate: req.ScheduledDate,
	}
	if len(req.ImageURLs) > 0 {
		in.ImageURLs = req.ImageURLs
	}
	if req.Status != nil {
		status := posts.Status(*req.Status)
		in.Status = &status
	}

	post, err := h.Posts.Update(c.Request.Context(), posts.Platform(req.Platform), req.ID, in)
	if err != nil {
		if isInputError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		log.Printf("Error updating post: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) DeletePostHandler(c *gin.Context) {
	platform, ok := h.platformQuery(c)
	if !ok {
		return
	}
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id is required"})
		return
	}

	removed, err := h.Posts.Delete(c.Request.Context(), platform, id)
	if err != nil {
		log.Printf("Error deleting post: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Success: removed})
}

// ClonePostHandler copies a post into a new draft, or answers null when the source is gone.
func (h *Handler) ClonePostHandler(c *gin.Context) {
	var req postRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		return
	}

	post, err := h.Posts.Clone(c.Request.Context(), posts.Platform(req.Platform), req.ID)
	if err != nil {
		log.Printf("Error cloning post: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to clone post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func isInputError(err error) bool {
	return errors.Is(err, posts.ErrInvalidPlatform) ||
		errors.Is(err, posts.ErrInvalidStatus) ||
		errors.Is(err, posts.ErrScheduleRequired)
}
