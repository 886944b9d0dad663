package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/buchhaltung/invoice-analytics-be/internal/core/extraction"
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/repositories"
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/services"
	"github.com/buchhaltung/invoice-analytics-be/internal/shared/config"
	"github.com/buchhaltung/invoice-analytics-be/internal/shared/database"
	"github.com/buchhaltung/invoice-analytics-be/internal/shared/utils"
)

// Batch ingest from a JSON export: an array of raw extraction documents
// as produced by the document pipeline.
func main() {
	var file string
	flag.StringVar(&file, "file", "", "Path to a JSON array of raw extraction documents")
	flag.Parse()

	if file == "" {
		log.Fatal("❌ -file is required")
	}

	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)

	data, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", file, err)
	}

	var batch []extraction.RawDocument
	if err := json.Unmarshal(data, &batch); err != nil {
		log.Fatalf("❌ Failed to parse %s: %v", file, err)
	}
	log.Printf("📥 Loaded %d documents from %s", len(batch), file)

	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	vendorRepo := repositories.NewVendorRepo(db.GORM)
	customerRepo := repositories.NewCustomerRepo(db.GORM)
	invoiceRepo := repositories.NewInvoiceRepo(db.GORM)

	ingestService := services.NewIngestService(vendorRepo, customerRepo, invoiceRepo, cfg.DefaultCustomerName)

	summary, err := ingestService.Normalize(batch)
	if err != nil {
		log.Fatalf("❌ Ingest failed: %v", err)
	}

	log.Printf("✅ Ingest finished: %d created, %d no data, %d duplicates, %d errors",
		summary.Created, summary.SkippedNoData, summary.SkippedDuplicate, summary.SkippedError)
}
