// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fluffyriot/postdeck/internal/media"
	"github.com/gin-gonic/gin"
)

type UploadResponse struct {
	URL string `json:"url"`
}

// UploadImageHandler crops and re-encodes one image and returns it as a WebP
// data URL ready to be stored in a post's imageUrls.
func (h *Handler) UploadImageHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadSize+1024*1024)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Bad request: " + err.Error()})
		return
	}
	defer file.Close()

	if header.Size > media.MaxUploadSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "File size too large (max 25MB)"})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid file type (allowed: jpg, jpeg, png, webp)"})
		return
	}

	opts, err := uploadOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	opts.MaxDim = h.Config.MediaMaxDim

	data, err := media.Process(file, opts)
	if err != nil {
		if errors.Is(err, media.ErrDecode) || errors.Is(err, media.ErrInvalidCrop) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		log.Printf("Error processing upload: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to encode image to WebP"})
		return
	}

	c.JSON(http.StatusOK, UploadResponse{URL: media.DataURL(data)})
}

func uploadOptions(c *gin.Context) (media.Options, error) {
	var opts media.Options

	if v := c.PostForm("aspect"); v != "" {
		aspect, err := strconv.ParseFloat(v, 64)
		if err != nil || aspect <= 0 {
			return opts, errors.New("aspect must be a positive number")
		}
		opts.Aspect = aspect
	}

	if c.PostForm("width") == "" && c.PostForm("height") == "" {
		return opts, nil
	}

	var crop media.Crop
	fields := []struct {
		name string
		dst  *int
	}{
		{"x", &crop.X},
		{"y", &crop.Y},
		{"width", &crop.Width},
		{"height", &crop.Height},
	}
	for _, f := range fields {
		v := c.PostForm(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New(f.name + " must be a non-negative integer")
		}
		*f.dst = n
	}
	opts.Crop = &crop
	return opts, nil
}
