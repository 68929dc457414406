package api

import (
	"fmt"
	"log"
	"net/http"

	"hallbook/internal/cache"
	"hallbook/internal/config"
	"hallbook/internal/database"
	"hallbook/internal/gateway"
	"hallbook/internal/handlers"
	"hallbook/internal/mailer"
	"hallbook/internal/messaging"
	"hallbook/internal/metrics"
	"hallbook/internal/middleware"
	"hallbook/internal/models"
	"hallbook/internal/repository"
	"hallbook/internal/search"
	"hallbook/internal/service"

	"github.com/gin-gonic/gin"
)

// Server is the HTTP API server
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	esClient, err := search.NewElasticsearchClient(config.LoadElasticsearchConfig())
	if err != nil {
		log.Fatalf("Failed to connect to Elasticsearch: %v", err)
	}

	// The cache is an optimization; the API runs without it
	valkeyClient, err := cache.NewValkeyClient(cfg.Cache)
	if err != nil {
		log.Printf("Valkey unavailable, running without cache: %v", err)
		valkeyClient = nil
	}

	gw := gateway.New(cfg.Gateway)
	mail := mailer.New(cfg.Mailer)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, esClient, valkeyClient, gw, mail, natsClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	// Basic Auth is mandatory on every API route
	api.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
	{
		halls := api.Group("/halls")
		{
			halls.GET("", h.ListHalls)
			halls.POST("", middleware.RequireRole(models.RoleHallOwner, models.RoleAdmin), h.CreateHall)
			halls.GET("/mine", middleware.RequireRole(models.RoleHallOwner, models.RoleAdmin), h.ListOwnerHalls)
			halls.GET("/:id", h.GetHall)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("", h.ListBookings)
			bookings.GET("/:id", h.GetBooking)
			bookings.PATCH("/cancel", h.CancelBooking)
		}

		payments := api.Group("/payments")
		{
			payments.POST("/initiate", h.InitiatePayment)
			payments.POST("/verify", h.VerifyPayment)
			payments.GET("/history", h.PaymentHistory)
			payments.POST("/refund/:bookingId", h.RequestRefund)
			payments.GET("/revenue", middleware.RequireRole(models.RoleHallOwner, models.RoleAdmin), h.OwnerRevenue)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.ListNotifications)
			notifications.GET("/unread-count", h.UnreadCount)
			notifications.PATCH("/:id/read", h.MarkNotificationRead)
			notifications.PATCH("/read-all", h.MarkAllNotificationsRead)
			notifications.POST("/:id/resolve", middleware.RequireRole(models.RoleAdmin), h.ResolveUnblockRequest)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	check := s.db.HealthCheck(c.Request.Context())
	if check.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "degraded",
			"database": check,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "hallbook-api",
		"version": "1.0.0",
	})
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes open connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Printf("Error closing Valkey connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
