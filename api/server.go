// Package api exposes the HushHush services over HTTP/JSON.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hushhush/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// TokenIssuer issues and verifies bearer tokens
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// Services bundles the operations the API serves
type Services struct {
	Identity  service.IdentityService
	Vaults    service.VaultService
	Pledges   service.PledgeService
	Gate      service.AccessGate
	Comments  service.CommentService
	Stats     service.StatsService
	Dashboard service.DashboardService
}

// Options tunes the HTTP surface
type Options struct {
	Limiter           RateLimiter
	AuthRatePerMinute int
}

// Server is the HushHush HTTP API
type Server struct {
	services      Services
	tokens        TokenIssuer
	limiter       RateLimiter
	authRateLimit int
	router        *gin.Engine
}

// NewServer wires the routes
func NewServer(services Services, tokens TokenIssuer, opts Options) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	s := &Server{
		services:      services,
		tokens:        tokens,
		limiter:       opts.Limiter,
		authRateLimit: opts.AuthRatePerMinute,
		router:        router,
	}

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", s.rateLimit("auth.register", s.authRateLimit, time.Minute), s.handleRegister)
		authGroup.POST("/login", s.rateLimit("auth.login", s.authRateLimit, time.Minute), s.handleLogin)
		authGroup.GET("/me", s.requireAuth(), s.handleMe)
		authGroup.PATCH("/me", s.requireAuth(), s.handleUpdateMe)

		vaults := api.Group("/vaults")
		vaults.GET("", s.handleListVaults)
		vaults.GET("/:id", s.handleGetVault)
		vaults.POST("", s.requireAuth(), s.handleCreateVault)
		vaults.PATCH("/:id", s.requireAuth(), s.handleUpdateVault)
		vaults.POST("/:id/unlock", s.requireAuth(), s.handleUnlockVault)
		vaults.GET("/:id/content", s.requireAuth(), s.handleVaultContent)

		api.POST("/pledges", s.requireAuth(), s.handleCreatePledge)
		api.GET("/pledges/my", s.requireAuth(), s.handleMyPledges)

		api.POST("/comments", s.requireAuth(), s.handleCreateComment)
		api.GET("/comments/:vaultId", s.handleListComments)

		api.GET("/dashboard/whisperer", s.requireAuth(), s.handleWhispererDashboard)
		api.GET("/dashboard/listener", s.requireAuth(), s.handleListenerDashboard)

		api.GET("/analytics/stats", s.handlePlatformStats)
	}

	return s
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
