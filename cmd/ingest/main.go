package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ikitchen/ikitchen-backend/config"
	"github.com/ikitchen/ikitchen-backend/internal/app/repository"
	"github.com/ikitchen/ikitchen-backend/internal/app/service"
	"github.com/ikitchen/ikitchen-backend/internal/db"
	"github.com/ikitchen/ikitchen-backend/internal/spreadsheet"
	"github.com/ikitchen/ikitchen-backend/pkg/logger"
	"github.com/olekukonko/tablewriter"
)

// ingest loads one or more POS export files straight into the store, without
// going through the HTTP server. Useful for backfills and for replaying
// archived exports.
func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <export-file> [<export-file> ...]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "console",
		EnableColor: true,
	})

	gormDB, err := db.Connect(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	columns, err := spreadsheet.LoadColumnsConfig(cfg.Ingest.ColumnsConfig)
	if err != nil {
		logger.Fatal("Failed to load spreadsheet column config", err)
	}

	ingestService := service.NewIngestService(
		repository.NewCustomerRepository(gormDB),
		repository.NewOrderRepository(gormDB),
		columns,
		cfg.Ingest.InsertBatchSize,
		cfg.Ingest.LookupBatchSize,
	)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("File", "Receipts", "Inserted", "Dup", "Bad date", "Customers", "New", "Status")

	failed := 0
	for _, path := range flag.Args() {
		summary, err := ingestService.IngestFile(path)
		if err != nil {
			failed++
			logger.Error("Ingestion failed", err, map[string]interface{}{
				"file": path,
			})
			row := []string{filepath.Base(path), "-", "-", "-", "-", "-", "-", "FAILED"}
			if summary != nil {
				row = summaryRow(path, summary, "FAILED")
			}
			table.Append(row)
			continue
		}
		table.Append(summaryRow(path, summary, "OK"))
	}

	table.Render()

	if failed > 0 {
		os.Exit(1)
	}
}

func summaryRow(path string, summary *service.IngestSummary, status string) []string {
	return []string{
		filepath.Base(path),
		strconv.Itoa(summary.Receipts),
		strconv.Itoa(summary.Inserted),
		strconv.Itoa(summary.SkippedDuplicate),
		strconv.Itoa(summary.SkippedInvalidDate),
		strconv.Itoa(summary.CustomersSeen),
		strconv.Itoa(summary.CustomersNew),
		status,
	}
}
