package catalogd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Config configures the dev API server.
type Config struct {
	Listen         string
	TokenSecret    string
	AllowedOrigins []string
	// FixedOTP, when set, is issued instead of a random code.
	FixedOTP string
	Release  bool
}

// Server is the development services/pricing API.
type Server struct {
	cfg     Config
	data    Catalog
	logger  *zap.Logger
	metrics *metrics
	otps    otpStore
	tokens  tokenIssuer
	engine  *gin.Engine
}

// New builds a Server over data.
func New(cfg Config, data Catalog, logger *zap.Logger) (*Server, error) {
	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return nil, errors.New("catalogd: token secret required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		cfg:     cfg,
		data:    data,
		logger:  logger.Named("catalogd"),
		metrics: newMetrics(),
		otps:    newOTPBook(cfg.FixedOTP),
		tokens:  tokenIssuer{secret: []byte(cfg.TokenSecret), now: time.Now},
	}
	s.engine = s.routes()
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.accessLog(), s.metrics.middleware())

	corsCfg := cors.Config{
		AllowOrigins:  s.cfg.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 || slices.Contains(corsCfg.AllowOrigins, "*") {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	router.GET("/metrics", s.metrics.handler())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/services/categories/", s.listCategories)
		api.GET("/services/categories/:slug/", s.servicesByCategory)
		api.POST("/otp/request/", s.requestOTP)
		api.POST("/otp/verify/", s.verifyOTP)
		api.GET("/me/", s.authRequired(), s.me)
	}
	return router
}

// Serve listens on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("catalogd: listen %s: %w", s.cfg.Listen, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("catalogd: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
			zap.Duration("latency", time.Since(start)))
	}
}
