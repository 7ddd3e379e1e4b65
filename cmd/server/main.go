package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadflow/internal/config"
	"leadflow/internal/database"
	"leadflow/internal/handlers"
	"leadflow/internal/jobs"
	"leadflow/internal/logging"
	"leadflow/internal/services"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Lead Qualification Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s)", cfg.Port, cfg.DatabaseFile)

	// Initialize SQLite lead store
	db, err := database.New(cfg.DatabaseFile)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize metrics
	services.InitMetrics()

	// Notification dedup cache. With REDIS_URL set the send guard is
	// shared across instances; otherwise it is in-process.
	var deduper *services.DeduperService
	var redisGuard *services.RedisSendGuard
	if cfg.RedisURL != "" {
		log.Println("🔗 Connecting to Redis...")
		redisGuard, err = services.NewRedisSendGuard(cfg.RedisURL, cfg.DedupeWindow)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (using in-process send guard)", err)
			deduper = services.NewDeduperService(cfg.DedupeWindow)
		} else {
			log.Println("✅ Redis connected successfully (shared send guard)")
			deduper = services.NewDeduperServiceWithGuard(cfg.DedupeWindow, redisGuard)
		}
	} else {
		deduper = services.NewDeduperService(cfg.DedupeWindow)
	}

	// Core services
	extractor := services.NewExtractorService()
	router := services.NewRouterService(cfg)
	email := services.NewEmailService(cfg)
	leads := services.NewLeadService(db)
	products := services.NewProductService(cfg.ProductsFile)
	orders := services.NewOrderService(cfg.OrdersFile)
	responder := services.NewOpenAIResponder(cfg)

	qualifier := services.NewQualifierService(
		cfg.SessionTTL,
		responder,
		extractor,
		deduper,
		router,
		email,
		leads,
		products,
		orders,
	)
	log.Println("✅ Qualifier service initialized")

	// Handlers
	healthHandler := handlers.NewHealthHandler(products.Count, orders.Count)
	chatHandler := handlers.NewChatHandler(qualifier)
	leadHandler := handlers.NewLeadHandler(leads)
	catalogHandler := handlers.NewCatalogHandler(products, orders)
	emailHandler := handlers.NewEmailHandler(email, router)
	wsHandler := handlers.NewWebSocketHandler(qualifier)

	// Background jobs
	jobScheduler, err := jobs.NewJobScheduler()
	if err != nil {
		log.Fatalf("❌ Failed to create job scheduler: %v", err)
	}
	if err := jobScheduler.Register("catalog-refresh", jobs.NewCatalogRefreshJob(orders, 5*time.Minute)); err != nil {
		log.Printf("⚠️ Failed to register catalog refresh job: %v", err)
	}
	if err := jobScheduler.Register("dedupe-sweep", jobs.NewDedupeSweepJob(deduper, time.Hour)); err != nil {
		log.Printf("⚠️ Failed to register dedup sweep job: %v", err)
	}
	jobScheduler.Start()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LeadFlow v1.0",
		ReadTimeout:  120 * time.Second, // responder completions can be slow
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("leadflow")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")
	api.Post("/chat", chatHandler.PostMessage)
	api.Get("/conversations/:id/status", chatHandler.GetStatus)
	api.Post("/conversations/:id/reset", chatHandler.Reset)

	api.Get("/leads", leadHandler.List)
	api.Get("/leads/export", leadHandler.Export)
	api.Delete("/leads", leadHandler.Clear)

	api.Get("/products/search", catalogHandler.SearchProducts)
	api.Get("/orders/lookup", catalogHandler.LookupOrder)

	api.Post("/email/test", emailHandler.SendTest)
	api.Post("/email/routing-test", emailHandler.TestRouting)

	// WebSocket chat
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(wsHandler.Handle))

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		// Stop background jobs
		jobScheduler.Stop()

		// Let in-flight lead notifications finish
		qualifier.Flush()

		// Stop the catalog file watcher
		products.Close()

		if redisGuard != nil {
			if err := redisGuard.Close(); err != nil {
				log.Printf("⚠️ Error closing Redis: %v", err)
			}
		}

		// Shutdown Fiber
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
