// SPDX-License-Identifier: AGPL-3.0-only
package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/fluffyriot/postdeck/internal/database"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionUserID        = "user_id"
	SessionPending2FAUID = "2fa_pending_user_id"

	contextUserKey = "current_user"

	SignInPath    = "/auth/sign-in"
	SignUpPath    = "/auth/sign-up"
	TwoFactorPath = "/auth/two-factor"
	DashboardPath = "/dashboard"
)

var publicPages = []string{SignInPath, SignUpPath, TwoFactorPath}

var protectedPages = []string{"/", DashboardPath, "/instagram", "/facebook", "/tiktok", "/linkedin"}

var protectedAPIPrefixes = []string{
	"/api/posts",
	"/api/analytics",
	"/api/uploads",
	"/api/auth/two-factor/enable",
	"/api/auth/two-factor/confirm",
	"/api/auth/two-factor/disable",
}

// AuthMiddleware resolves the session user and gates routes: anonymous API
// callers get 401, anonymous page visits go to sign-in, and signed-in users
// are kept off the sign-in and sign-up pages.
func AuthMiddleware(db *database.Queries) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		_, loggedIn := loadSessionUser(c, db)

		switch {
		case isProtectedAPI(path) && !loggedIn:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		case isPublicPage(path) && loggedIn:
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
			return
		case isProtectedPage(path) && !loggedIn:
			c.Redirect(http.StatusFound, SignInPath)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware for this request.
func CurrentUser(c *gin.Context) (database.User, bool) {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return database.User{}, false
	}
	u, ok := v.(database.User)
	return u, ok
}

func loadSessionUser(c *gin.Context, db *database.Queries) (database.User, bool) {
	session := sessions.Default(c)
	raw := session.Get(SessionUserID)
	if raw == nil {
		return database.User{}, false
	}

	idStr, ok := raw.(string)
	if !ok {
		return database.User{}, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return database.User{}, false
	}

	user, err := db.GetUserByID(c.Request.Context(), id)
	if err != nil {
		session.Delete(SessionUserID)
		if err := session.Save(); err != nil {
			log.Printf("Error saving session: %v", err)
		}
		return database.User{}, false
	}

	c.Set(contextUserKey, user)
	return user, true
}

func isPublicPage(path string) bool {
	for _, p := range publicPages {
		if path == p {
			return true
		}
	}
	return false
}

func isProtectedPage(path string) bool {
	for _, p := range protectedPages {
		if path == p {
			return true
		}
	}
	return strings.HasPrefix(path, DashboardPath+"/")
}

func isProtectedAPI(path string) bool {
	for _, prefix := range protectedAPIPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
