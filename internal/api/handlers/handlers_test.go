// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fluffyriot/postdeck/internal/config"
	"github.com/fluffyriot/postdeck/internal/database"
	"github.com/fluffyriot/postdeck/internal/middleware"
	"github.com/fluffyriot/postdeck/internal/posts"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	gsessions "github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
)

const testPassword = "Sup3r$ecret"

// failingStore is a cookie store whose saves can be switched off.
type failingStore struct {
	cookie.Store
	fail bool
}

func (s *failingStore) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	if s.fail {
		return errors.New("session store unavailable")
	}
	return s.Store.Save(r, w, session)
}

type testApp struct {
	t       *testing.T
	router  *gin.Engine
	store   *failingStore
	posts   *posts.Service
	db      *database.Queries
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := database.OpenSQLite(filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_, err = database.Migrate(conn, database.DialectSQLite)
	require.NoError(t, err)

	queries := database.New(conn)
	svc := posts.NewService(queries)
	cfg := &config.AppConfig{
		SessionSecret: []byte("0123456789abcdef0123456789abcdef"),
		Location:      time.UTC,
		MediaMaxDim:   64,
	}

	store := &failingStore{Store: cookie.NewStore(cfg.SessionSecret)}
	r := gin.New()
	r.Use(sessions.Sessions("postdeck_session", store))
	r.Use(middleware.AuthMiddleware(queries))
	NewHandler(queries, conn, svc, cfg).RegisterRoutes(r, middleware.NewAuthRateLimiter())

	return &testApp{t: t, router: r, store: store, posts: svc, db: queries, cookies: map[string]*http.Cookie{}}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(a.cookies, c.Name)
			continue
		}
		a.cookies[c.Name] = c
	}
	return w
}

func (a *testApp) json(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.do(req)
}

func (a *testApp) form(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) signUp() {
	a.t.Helper()
	w := a.json(http.MethodPost, "/api/auth/sign-up/email", gin.H{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": testPassword,
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
