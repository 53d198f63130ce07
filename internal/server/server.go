package server

import (
	"log"

	"backend-courseview/internal/auth"
	"backend-courseview/internal/config"
	"backend-courseview/internal/event"
	"backend-courseview/internal/maps"
	"backend-courseview/internal/observability"
	"backend-courseview/internal/overlay"
	"backend-courseview/internal/stream"
	"backend-courseview/internal/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Stream   *stream.Hub
	Visits   *tracking.Registry
	Metrics  *observability.Collector
	Overlays *overlay.Service
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		log.Printf("metrics disabled: %v", err)
	}

	s := &Server{
		App:     app,
		Cfg:     cfg,
		DB:      db,
		Redis:   redisClient,
		Stream:  stream.NewHub(redisClient),
		Visits:  tracking.NewRegistry(cfg.VisitDistanceM),
		Metrics: metrics,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(s.Metrics.Handler()))

	officials := auth.NewService(s.Cfg.JWTSecret, s.DB)
	jwtMiddleware := auth.Middleware(officials)
	events := event.NewService(s.DB)
	s.Overlays = overlay.NewService(events, s.Visits, s.Metrics, s.Cfg.OverlayCacheSize, s.Cfg.OverlayCacheTTL, s.Cfg.ReferenceLatitude)

	auth.RegisterRoutes(s.App.Group("/auth"), officials)

	eventGroup := s.App.Group("/events")
	overlay.RegisterRoutes(eventGroup, s.Overlays)
	event.RegisterRoutes(eventGroup, events, jwtMiddleware, s.Visits.Forget)

	maps.RegisterRoutes(s.App.Group("/maps"), maps.NewService(s.DB), jwtMiddleware)
	tracking.RegisterRoutes(s.App.Group("/tracking"), tracking.NewService(events, s.Visits, s.Stream, s.Metrics), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
