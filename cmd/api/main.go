package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"

	"github.com/buchhaltung/invoice-analytics-be/internal/core/jobs"
	"github.com/buchhaltung/invoice-analytics-be/internal/core/llm"
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/handlers"
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/repositories"
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/services"
	"github.com/buchhaltung/invoice-analytics-be/internal/shared/config"
	"github.com/buchhaltung/invoice-analytics-be/internal/shared/database"
	"github.com/buchhaltung/invoice-analytics-be/internal/shared/utils"

	_ "github.com/buchhaltung/invoice-analytics-be/cmd/api/docs"
)

// @title Invoice Analytics API
// @version 1.0
// @description Backend for invoice ingestion, dashboard analytics and chat queries
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)
	log.Printf("🚀 Starting invoice-analytics-api on port %s", cfg.Port)

	// Init database
	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	// Init repositories (use GORM instance)
	vendorRepo := repositories.NewVendorRepo(db.GORM)
	customerRepo := repositories.NewCustomerRepo(db.GORM)
	invoiceRepo := repositories.NewInvoiceRepo(db.GORM)

	// Optional LLM summarizer for chat answers
	var summarizer *llm.Service
	if cfg.ChatSummaryEnabled {
		summarizer = llm.NewService(cfg.OpenAIKey)
		if summarizer != nil {
			log.Println("🤖 Chat answer summarizer enabled")
		} else {
			log.Println("⚠️  CHAT_SUMMARY is on but OPENAI_API_KEY is empty, summarizer disabled")
		}
	}

	// Init services
	ingestService := services.NewIngestService(vendorRepo, customerRepo, invoiceRepo, cfg.DefaultCustomerName)
	analyticsService := services.NewAnalyticsService(invoiceRepo)
	chatService := services.NewChatService(invoiceRepo, summarizer)

	// Init handlers
	healthHandler := handlers.NewHealthHandler(db)
	ingestHandler := handlers.NewIngestHandler(ingestService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Overdue sweep: pending invoices past due date flip to overdue
	scheduler := jobs.NewScheduler()
	if err := scheduler.Register("overdue-sweep", cfg.OverdueSweepCron, ingestService.SweepOverdue); err != nil {
		log.Fatalf("❌ Failed to register overdue sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Invoice Analytics API",
	})

	// Middleware
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/health", healthHandler.GetHealth)

	// Ingest route
	app.Post("/ingest", ingestHandler.Ingest)

	// Invoice routes
	app.Get("/invoices", invoiceHandler.ListInvoices)
	app.Get("/files", invoiceHandler.ListFiles)

	// Analytics routes
	app.Get("/analytics/dashboard", analyticsHandler.GetDashboard)
	app.Get("/analytics/stats", analyticsHandler.GetStats)
	app.Get("/analytics/invoice-trends", analyticsHandler.GetMonthlyTrend)
	app.Get("/analytics/top-vendors", analyticsHandler.GetTopVendors)
	app.Get("/analytics/category-spend", analyticsHandler.GetCategorySpend)
	app.Get("/analytics/cash-outflow", analyticsHandler.GetCashOutflow)
	app.Get("/analytics/departments", analyticsHandler.GetDepartments)
	app.Get("/analytics/confidence", analyticsHandler.GetConfidence)

	// Chat route
	app.Post("/chat", chatHandler.Ask)

	log.Fatal(app.Listen(":" + cfg.Port))
}
