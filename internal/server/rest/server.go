// Package rest serves the JSON auth API over HTTP with gin.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/neatly/internal/logging"
	"github.com/dmitrijs2005/neatly/internal/server/auth"
	"github.com/dmitrijs2005/neatly/internal/server/config"
	"github.com/dmitrijs2005/neatly/internal/server/models"
	"github.com/dmitrijs2005/neatly/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	APIPrefix       = "/api/auth"
	shutdownTimeout = 10 * time.Second
)

// AuthAPI is the session lifecycle the handlers drive.
type AuthAPI interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.AuthResult, error)
	Logout(ctx context.Context, refreshToken string)
	GetIdentity(ctx context.Context, userID string) (*models.Identity, error)
}

// AvatarUploader presigns avatar uploads.
type AvatarUploader interface {
	CreateUpload(ctx context.Context, userID string) (*services.AvatarUpload, error)
}

// Throttler limits hits per (scope, client).
type Throttler interface {
	Allow(ctx context.Context, scope, id string) (bool, time.Duration, error)
}

// Deps groups what the HTTP layer needs. Avatars and Throttle may be nil.
type Deps struct {
	Auth     AuthAPI
	Avatars  AvatarUploader
	Throttle Throttler
	Codec    *auth.TokenCodec
}

type Server struct {
	address string
	router  *gin.Engine
	logger  logging.Logger
}

func NewServer(cfg *config.Config, l logging.Logger, deps Deps) *Server {
	logger := l.With("module", "http_server")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	r.Use(requestID(), accessLog(logger), recovery(logger))

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h := &handler{
		auth:    deps.Auth,
		avatars: deps.Avatars,
		logger:  logger,
		cookie: cookieSettings{
			name:   cfg.RefreshCookieName,
			path:   cfg.RefreshCookiePath,
			secure: cfg.IsProduction(),
			maxAge: int(cfg.RefreshTokenValidityDuration / time.Second),
		},
	}

	g := r.Group(APIPrefix)
	g.POST("/register", throttle(deps.Throttle, "register", logger), h.register)
	g.POST("/login", throttle(deps.Throttle, "login", logger), h.login)
	g.POST("/refresh", h.refresh)
	g.POST("/logout", h.logout)

	protected := g.Group("", RequireAuth(deps.Codec, logger))
	protected.GET("/me", h.me)
	protected.POST("/me/avatar", h.avatar)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not Found !"})
	})

	return &Server{address: cfg.EndpointAddrHTTP, router: r, logger: logger}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
