package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/gatherly/api/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return respond(c, 429, "too many requests, please try again later", nil)
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// Legacy route headers
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/activities/near",
			SunsetDate:  time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/activities/nearby",
		},
	}))

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health and readiness skip the timeout wrapper, the checks are fast
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 with a 15s per-request timeout
	v1 := app.Group("/v1")

	v1.Get("/activities/nearby", timeout.NewWithContext(NearbyActivitiesHandler(deps), 15*time.Second))
	v1.Get("/activities/near", timeout.NewWithContext(NearbyActivitiesHandler(deps), 15*time.Second)) // deprecated alias
	v1.Get("/activities/mine", timeout.NewWithContext(MyActivitiesHandler(deps), 15*time.Second))
	v1.Post("/activities", timeout.NewWithContext(CreateActivityHandler(deps), 15*time.Second))
	v1.Get("/activities", timeout.NewWithContext(ListActivitiesHandler(deps), 15*time.Second))
	v1.Get("/activities/:id", timeout.NewWithContext(GetActivityHandler(deps), 15*time.Second))
	v1.Patch("/activities/:id", timeout.NewWithContext(UpdateActivityHandler(deps), 15*time.Second))
	v1.Delete("/activities/:id", timeout.NewWithContext(CancelActivityHandler(deps), 15*time.Second))
	v1.Get("/activities/:id/attendance", timeout.NewWithContext(ActivityAttendanceHandler(deps), 15*time.Second))

	v1.Post("/attendance", timeout.NewWithContext(RegisterAttendanceHandler(deps), 15*time.Second))
	v1.Get("/attendance/mine", timeout.NewWithContext(MyAttendanceHandler(deps), 15*time.Second))
	v1.Patch("/attendance/:id", timeout.NewWithContext(UpdateAttendanceHandler(deps), 15*time.Second))
	v1.Delete("/attendance/:id", timeout.NewWithContext(RemoveAttendanceHandler(deps), 15*time.Second))

	v1.Post("/reviews", timeout.NewWithContext(CreateReviewHandler(deps), 15*time.Second))
	v1.Get("/reviews", timeout.NewWithContext(ListReviewsHandler(deps), 15*time.Second))
	v1.Get("/reviews/:id", timeout.NewWithContext(GetReviewHandler(deps), 15*time.Second))
	v1.Patch("/reviews/:id", timeout.NewWithContext(UpdateReviewHandler(deps), 15*time.Second))
	v1.Delete("/reviews/:id", timeout.NewWithContext(DeleteReviewHandler(deps), 15*time.Second))

	v1.Post("/users", timeout.NewWithContext(CreateUserHandler(deps), 15*time.Second))
	v1.Get("/users/:id", timeout.NewWithContext(GetUserHandler(deps), 15*time.Second))
	v1.Get("/users/:id/activities", timeout.NewWithContext(UserActivitiesHandler(deps), 15*time.Second))
	v1.Get("/users/:id/attendance", timeout.NewWithContext(UserAttendanceHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
