// Package api wires together all HTTP routes for the ticket tracker backend.
//
// Route grouping philosophy:
//   - Probe endpoints (/health, /ready, /version, /ping) are unauthenticated so
//     load balancers and orchestrators can reach them without credentials.
//   - Everything under /api/v1 requires the shared X-API-Key and passes through
//     the rate limiter.
//
// Prometheus metrics are not served here; cmd/server exposes them on a
// dedicated side port so the scrape target never competes with API traffic.
package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/ticket-tracker/ticket-tracker/internal/api/comments"
	"github.com/ticket-tracker/ticket-tracker/internal/api/tickets"
	"github.com/ticket-tracker/ticket-tracker/internal/api/users"
	weatherapi "github.com/ticket-tracker/ticket-tracker/internal/api/weather"
	"github.com/ticket-tracker/ticket-tracker/internal/config"
	"github.com/ticket-tracker/ticket-tracker/internal/db/repositories"
	"github.com/ticket-tracker/ticket-tracker/internal/middleware"
	"github.com/ticket-tracker/ticket-tracker/internal/services"
	"github.com/ticket-tracker/ticket-tracker/internal/weather"
)

// BackgroundServices holds references to background resources that must be
// stopped during graceful shutdown. The caller (cmd/server) is responsible for
// calling Shutdown() when the process receives a termination signal.
type BackgroundServices struct {
	rateLimiters []*middleware.RateLimiter
	redisLimiter *middleware.RedisRateLimiter
}

// Shutdown stops all background goroutines and closes shared connections. It
// should be called after the HTTP server has been shut down so that in-flight
// requests are drained first.
func (bg *BackgroundServices) Shutdown() {
	slog.Info("stopping background services")
	for _, rl := range bg.rateLimiters {
		rl.Stop()
	}
	if bg.redisLimiter != nil {
		if err := bg.redisLimiter.Close(); err != nil {
			slog.Error("failed to close redis rate limiter", "error", err)
		}
	}
	slog.Info("all background services stopped")
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, *BackgroundServices) {
	router := gin.New()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	// Wrap *sql.DB with sqlx for the joined ticket reads
	sqlxDB := sqlx.NewDb(db, "postgres")
	ticketRepo := repositories.NewTicketRepository(sqlxDB)

	// Initialize services
	ticketService := services.NewTicketService(ticketRepo, projectRepo, userRepo)
	commentService := services.NewCommentService(commentRepo, ticketRepo, userRepo)
	userService := services.NewUserService(userRepo, ticketRepo)

	weatherClient := weather.NewClient(cfg.Weather)

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware(cfg))
	router.Use(CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	// Probe endpoints
	router.GET("/health", healthCheckHandler(db))
	router.GET("/ready", readinessHandler(db))
	router.GET("/version", versionHandler())
	router.GET("/ping", pingHandler())

	bg := &BackgroundServices{}

	// Initialize handlers
	ticketHandlers := tickets.NewTicketHandlers(ticketService)
	commentHandlers := comments.NewCommentHandlers(commentService)
	userHandlers := users.NewUserHandlers(userService)
	weatherHandlers := weatherapi.NewWeatherHandlers(weatherClient)

	apiV1 := router.Group("/api/v1")

	if cfg.Security.RateLimiting.Enabled {
		if cfg.Security.RateLimiting.RedisURL != "" {
			redisLimiter, err := middleware.NewRedisRateLimiter(cfg.Security.RateLimiting)
			if err != nil {
				// A broken limiter backend must not take the API down; fall
				// back to per-process buckets.
				slog.Error("redis rate limiter unavailable, falling back to in-memory", "error", err)
				limiter := middleware.NewRateLimiter(middleware.RateLimitConfigFrom(cfg.Security.RateLimiting))
				bg.rateLimiters = append(bg.rateLimiters, limiter)
				apiV1.Use(middleware.RateLimitMiddleware(limiter))
			} else {
				bg.redisLimiter = redisLimiter
				apiV1.Use(middleware.RedisRateLimitMiddleware(redisLimiter))
			}
		} else {
			limiter := middleware.NewRateLimiter(middleware.RateLimitConfigFrom(cfg.Security.RateLimiting))
			bg.rateLimiters = append(bg.rateLimiters, limiter)
			apiV1.Use(middleware.RateLimitMiddleware(limiter))
		}
	}

	apiV1.Use(middleware.APIKeyAuthMiddleware(cfg.Auth))
	{
		// Ticket endpoints
		apiV1.POST("/tickets", ticketHandlers.CreateTicketHandler())
		apiV1.GET("/tickets", ticketHandlers.ListTicketsHandler())
		apiV1.GET("/tickets/:ticket_id", ticketHandlers.GetTicketHandler())
		apiV1.PATCH("/tickets/:ticket_id", ticketHandlers.UpdateTicketHandler())
		apiV1.DELETE("/tickets/:ticket_id", ticketHandlers.DeleteTicketHandler())

		// Comment endpoints, nested under their ticket
		apiV1.POST("/tickets/:ticket_id/comments", commentHandlers.CreateCommentHandler())
		apiV1.GET("/tickets/:ticket_id/comments", commentHandlers.ListCommentsHandler())
		apiV1.GET("/tickets/:ticket_id/comments/:comment_id", commentHandlers.GetCommentHandler())
		apiV1.PUT("/tickets/:ticket_id/comments/:comment_id", commentHandlers.UpdateCommentHandler())
		apiV1.DELETE("/tickets/:ticket_id/comments/:comment_id", commentHandlers.DeleteCommentHandler())

		// User endpoints
		apiV1.POST("/users", userHandlers.CreateUserHandler())
		apiV1.GET("/users", userHandlers.ListUsersHandler())
		apiV1.GET("/users/:user_id", userHandlers.GetUserHandler())
		apiV1.PUT("/users/:user_id", userHandlers.UpdateUserHandler())
		apiV1.DELETE("/users/:user_id", userHandlers.DeleteUserHandler())

		// Auxiliary services
		apiV1.GET("/services/weather", weatherHandlers.GetWeatherHandler())
	}

	return router, bg
}

// @Summary      Health check
// @Description  Returns the health status of the service, including database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status: healthy, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "status: unhealthy, error: database connection failed"
// @Router       /health [get]
// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      Readiness check
// @Description  Returns whether the service is ready to accept traffic. Checks database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "ready: true, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "ready: false, error: database not ready"
// @Router       /ready [get]
// readinessHandler returns the readiness status of the service. The database
// is the only hard dependency; the weather provider is checked per request and
// its outages do not make the tracker unready.
func readinessHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{}

		if err := db.Ping(); err != nil {
			checks["database"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"checks": checks,
				"error":  "database not ready",
			})
			return
		}
		checks["database"] = "healthy"

		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      API version
// @Description  Returns the current API version.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version, api_version"
// @Router       /version [get]
// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     "0.1.0",
			"api_version": "v1",
		})
	}
}

// @Summary      Ping
// @Description  Trivial liveness echo.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message: pong"
// @Router       /ping [get]
// pingHandler answers pong
func pingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	}
}

// LoggerMiddleware provides structured logging
func LoggerMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		// Log the request
		if cfg.Logging.Format == "json" {
			logJSON(c, latency, path, query)
		} else {
			logText(c, latency, path, query)
		}
	}
}

// logJSON logs a request as a JSON-structured slog record.
func logJSON(c *gin.Context, latency time.Duration, path, query string) {
	requestID, _ := c.Get(middleware.RequestIDKey)
	slog.LogAttrs(
		c.Request.Context(),
		slog.LevelInfo,
		"http request",
		slog.String("method", c.Request.Method),
		slog.String("path", path),
		slog.String("query", query),
		slog.Int("status", c.Writer.Status()),
		slog.Int("size", c.Writer.Size()),
		slog.Duration("latency", latency),
		slog.String("ip", c.ClientIP()),
		slog.String("request_id", fmt.Sprintf("%v", requestID)),
		slog.String("user_agent", c.Request.UserAgent()),
	)
}

// logText logs a request as a human-readable slog text record.
func logText(c *gin.Context, latency time.Duration, path, query string) {
	// reuse the same structured output; slog will emit text format when the global
	// handler is a TextHandler (configured in telemetry.SetupLogger).
	logJSON(c, latency, path, query)
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
