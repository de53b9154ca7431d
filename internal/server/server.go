package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/franco18min/tecnomundo-notify/internal/config"
	"github.com/franco18min/tecnomundo-notify/internal/dispatch"
	"github.com/franco18min/tecnomundo-notify/internal/identity"
	"github.com/franco18min/tecnomundo-notify/internal/registry"
	"github.com/franco18min/tecnomundo-notify/internal/store"
)

// Server hosts the live-connection endpoint and the notification REST API.
type Server struct {
	cfg    *config.ServiceConfig
	logger *slog.Logger

	router     *gin.Engine
	httpSrv    *http.Server
	upgrader   websocket.Upgrader
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	store      store.Store
	resolver   identity.Resolver
}

// New wires the HTTP surface over the given collaborators.
func New(
	cfg *config.ServiceConfig,
	st store.Store,
	reg *registry.Registry,
	disp *dispatch.Dispatcher,
	resolver identity.Resolver,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: cfg.Websocket.HandshakeTimeout,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
		registry:   reg,
		dispatcher: disp,
		store:      st,
		resolver:   resolver,
	}
	s.setupRoutes()

	return s
}

// setupRoutes registers the websocket endpoint and the REST API.
func (s *Server) setupRoutes() {
	s.router.GET("/ws", s.handleWS)

	api := s.router.Group("/api/v1")
	{
		notifications := api.Group("/notifications")
		notifications.Use(s.authRequired())
		{
			notifications.GET("", s.handleList)
			notifications.GET("/unread-count", s.handleUnreadCount)
			notifications.PUT("/:id/read", s.handleMarkRead)
			notifications.PUT("/read-all", s.handleMarkAllRead)
		}

		// Producer-facing entry point, called by order-status and transfer
		// logic inside the backend perimeter.
		internal := api.Group("/internal")
		{
			internal.POST("/notify", s.handleNotify)
		}
	}

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":           "ok",
			"service":          "notifyd",
			"live_connections": s.registry.Len(),
		})
	})
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.HTTP.Host, s.cfg.HTTP.Port)
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	s.logger.Info("http server listening", "addr", addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, then closes every live connection.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}
	s.registry.Shutdown()
	return err
}

// bearerCredential extracts the client credential from the request: the
// "token" query parameter (browsers cannot set headers on websocket dials) or
// the Authorization bearer header.
func bearerCredential(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	token, _ := strings.CutPrefix(header, "Bearer ")
	return token
}

// authRequired resolves the bearer credential and stores the user id in the
// request context, rejecting the request otherwise.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := bearerCredential(c)
		if credential == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credential"})
			return
		}

		userID, err := s.resolver.Resolve(c.Request.Context(), credential)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credential"})
			return
		}

		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// ctxUserID is the gin context key for the authenticated user id.
const ctxUserID = "user_id"

func userIDFrom(c *gin.Context) int64 {
	v, _ := c.Get(ctxUserID)
	id, _ := v.(int64)
	return id
}
