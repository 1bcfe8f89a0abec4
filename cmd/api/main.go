package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"pivotpath/pivot-api/internal/config"
	"pivotpath/pivot-api/internal/handlers"
	"pivotpath/pivot-api/internal/repositories"
	"pivotpath/pivot-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	recordRepo := repositories.NewMatchRecordRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// OCR is optional: without a credential the extraction pipeline
	// simply never leaves the native extractors.
	ocrService := services.NewOCRSpaceService(cfg.OCR.APIKey, cfg.OCR.Endpoint)
	if !ocrService.Available() {
		log.Println("⚠️  OCRSPACE_API_KEY not set, OCR fallback disabled")
	}
	extractionService := services.NewExtractionService(ocrService, cfg.Extract.MinTextLen)

	// Gemini is optional too: without a key the match and advisory
	// endpoints use their deterministic fallbacks.
	var geminiService services.GeminiService
	if cfg.Gemini.APIKey != "" {
		geminiService, err = services.NewGeminiService(cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}
		log.Println("✅ Gemini AI initialized successfully")
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set, semantic scoring disabled")
	}

	var embedder services.Embedder
	var generator services.TextGenerator
	if geminiService != nil {
		embedder = geminiService
		generator = geminiService
	}

	// Role store is best-effort: opportunities fall back to the lexical
	// catalog ranking when Qdrant is unreachable.
	var roleStore services.RoleStore
	if embedder != nil {
		roleStore, err = services.NewRoleStore(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
		)
		if err != nil {
			log.Printf("⚠️  Failed to initialize Qdrant, role search disabled: %v", err)
			roleStore = nil
		} else {
			log.Println("✅ Qdrant initialized successfully")
		}
	}

	matchService := services.NewMatchService(embedder, services.MatchOptions{
		MaxChars: cfg.Match.MaxChars,
		MinScore: cfg.Match.MinScore,
		MaxScore: cfg.Match.MaxScore,
		TermCap:  cfg.Match.TermCap,
	})
	advisorService := services.NewAdvisorService(generator)
	opportunityService := services.NewOpportunityService(
		embedder,
		roleStore,
		services.DefaultRoleCatalog(),
		cfg.Match.MaxChars,
	)
	log.Println("✅ Services initialized successfully")

	// Start the history recorder
	recorder := services.NewRecorder(recordRepo, cfg.Recorder.Concurrency, cfg.Recorder.QueueSize)
	recorder.Start()

	// Initialize handlers
	extractHandler := handlers.NewExtractHandler(extractionService)
	matchHandler := handlers.NewMatchHandler(matchService, advisorService, recorder)
	analyzeHandler := handlers.NewAnalyzeHandler(advisorService, opportunityService)
	historyHandler := handlers.NewHistoryHandler(recordRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Pivot Advisory API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Extract.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/extract", extractHandler.HandleExtract)
	api.Post("/match", matchHandler.HandleMatch)
	api.Post("/match/explain", matchHandler.HandleExplain)
	api.Post("/match/rewrite", matchHandler.HandleRewrite)
	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Post("/opportunities", analyzeHandler.HandleOpportunities)
	api.Get("/history", historyHandler.HandleList)
	api.Get("/history/:id", historyHandler.HandleGet)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Pivot Advisory API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/extract",
				"POST /api/v1/match",
				"POST /api/v1/match/explain",
				"POST /api/v1/match/rewrite",
				"POST /api/v1/analyze",
				"POST /api/v1/opportunities",
				"GET /api/v1/history",
				"GET /api/v1/history/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		recorder.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
