// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/fluffyriot/postdeck/internal/api/handlers"
	"github.com/fluffyriot/postdeck/internal/config"
	"github.com/fluffyriot/postdeck/internal/middleware"
	"github.com/fluffyriot/postdeck/internal/posts"
	"github.com/fluffyriot/postdeck/internal/worker"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	db, queries, err := config.LoadDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	postService := posts.NewService(queries)

	w := worker.NewWorker(postService, cfg.Location)
	if err := w.Start(cfg.PublishSchedule); err != nil {
		log.Fatalf("Failed to start publisher: %v", err)
	}

	store := cookie.NewStore(cfg.SessionSecret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.SecureCookies))
	if cors := middleware.CORSMiddleware(cfg.CorsOrigins); cors != nil {
		r.Use(cors)
	}
	r.Use(sessions.Sessions("postdeck_session", store))
	r.Use(middleware.AuthMiddleware(queries))

	h := handlers.NewHandler(queries, db, postService, cfg)
	h.RegisterRoutes(r, middleware.NewAuthRateLimiter())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Postdeck %s listening on :%s", config.AppVersion, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	w.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
