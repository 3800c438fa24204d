// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fluffyriot/postdeck/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagesRedirectAnonymous(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/", "/dashboard", "/instagram", "/linkedin"} {
		w := app.json(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, middleware.SignInPath, w.Header().Get("Location"), path)
	}

	w := app.json(http.MethodGet, middleware.SignInPath+"?error=Credenciais+inv%C3%A1lidas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Credenciais inválidas")
}

func TestPagesRenderForSignedInUser(t *testing.T) {
	app := newTestApp(t)
	app.signUp()

	w := app.json(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.DashboardPath, w.Header().Get("Location"))

	post := validPost()
	post["title"] = "Post do feed"
	app.json(http.MethodPost, "/api/posts", post)

	w = app.json(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Olá, Ana")
	assert.Contains(t, w.Body.String(), "Instagram")

	w = app.json(http.MethodGet, "/instagram", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Post do feed")

	w = app.json(http.MethodGet, "/instagram?status=published", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Post do feed")
	assert.Contains(t, w.Body.String(), "Nenhum post encontrado")
}

func TestImageSrc(t *testing.T) {
	assert.Equal(t, "data:image/webp;base64,AAAA", string(imageSrc("data:image/webp;base64,AAAA")))
	assert.Equal(t, "https://cdn.example.com/a.png", string(imageSrc("https://cdn.example.com/a.png")))
	assert.Empty(t, string(imageSrc("javascript:alert(1)")))
}

func multipartImage(t *testing.T, filename string, w, h int, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x), B: uint8(y), A: 255})
		}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	app := newTestApp(t)
	app.signUp()

	body, contentType := multipartImage(t, "foto.png", 200, 100, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	w := app.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(decode[UploadResponse](t, w).URL, "data:image/webp;base64,"))

	body, contentType = multipartImage(t, "foto.gif", 10, 10, nil)
	req = httptest.NewRequest(http.MethodPost, "/api/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusBadRequest, app.do(req).Code)

	body, contentType = multipartImage(t, "foto.png", 10, 10, map[string]string{"x": "50", "y": "50", "width": "5", "height": "5"})
	req = httptest.NewRequest(http.MethodPost, "/api/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusBadRequest, app.do(req).Code)

	body, contentType = multipartImage(t, "foto.png", 10, 10, map[string]string{"aspect": "-1"})
	req = httptest.NewRequest(http.MethodPost, "/api/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusBadRequest, app.do(req).Code)
}

func TestUploadRequiresSession(t *testing.T) {
	app := newTestApp(t)
	w := app.json(http.MethodPost, "/api/uploads/image", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
