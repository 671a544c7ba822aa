// Package server contains the HTTP handlers and middleware wiring for the
// post wall API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	_ "socialwall/docs" // swagger docs
	"socialwall/internal/bootstrap"
	"socialwall/internal/config"
	"socialwall/internal/middleware"
	"socialwall/internal/models"
	"socialwall/internal/notifications"
	"socialwall/internal/observability"
	"socialwall/internal/repository"
	"socialwall/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
)

// contentSecurityPolicy lets the landing page run its inline script and styles.
const contentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	runtime        *bootstrap.Runtime
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	postService    *service.PostService
}

// NewServer creates a server on top of the dependencies selected at startup.
func NewServer(cfg *config.Config, rt *bootstrap.Runtime) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if rt == nil || rt.Store == nil {
		return nil, errors.New("a post store is required")
	}

	server := &Server{
		config:         cfg,
		runtime:        rt,
		redis:          rt.Redis,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
	}
	server.postService = service.NewPostService(rt.Store, cfg.Region, notifications.NewNotifier(rt.Redis))

	return server, nil
}

// NewServerWithDeps creates a Server from an already-selected store. Use this
// in tests or tools that pick storage themselves.
func NewServerWithDeps(cfg *config.Config, store repository.PostStore, redisClient *redis.Client, startupStatus string) (*Server, error) {
	return NewServer(cfg, &bootstrap.Runtime{
		Store:         store,
		Redis:         redisClient,
		StartupStatus: startupStatus,
	})
}

// NewApp builds the Fiber app with the full middleware chain and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Social Wall API",
		ErrorHandler: s.errorHandler,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New(helmet.Config{
		ContentSecurityPolicy: contentSecurityPolicy,
	}))

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	api.Get("/region", s.GetRegion)

	writeLimit := middleware.RateLimit(s.redis, s.config.RateLimitEnabled(), s.config.RateLimitWritesPerMinute, time.Minute, "post_writes")

	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", writeLimit, s.CreatePost)
	posts.Delete("/", writeLimit, s.DeleteAllPosts)
	posts.Put("/:id", writeLimit, s.UpdatePost)
	posts.Delete("/:id", writeLimit, s.DeletePost)

	app.Get("/", s.LandingPage)
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Error: fiberErr.Message})
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "Internal server error"})
}

// Start builds the app and blocks serving requests.
func (s *Server) Start() error {
	s.app = s.NewApp()
	return s.listen()
}

func (s *Server) listen() error {
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Run serves until ctx is cancelled, then shuts down within grace. It returns
// only after the database pool and the Redis client have been released.
func (s *Server) Run(ctx context.Context, grace time.Duration) error {
	s.app = s.NewApp()

	errCh := make(chan error, 1)
	go func() { errCh <- s.listen() }()

	select {
	case err := <-errCh:
		s.runtime.Close()
		return err
	case <-ctx.Done():
	}

	middleware.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Shutdown stops accepting requests and releases the database pool and the
// Redis client.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Warn("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	s.runtime.Close()

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
