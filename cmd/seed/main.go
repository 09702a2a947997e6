package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gmp-artesanias/gmp-backend/config"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	"github.com/gmp-artesanias/gmp-backend/internal/db"
	"github.com/gmp-artesanias/gmp-backend/internal/importer"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	flag "github.com/spf13/pflag"
)

func main() {
	yes := flag.BoolP("yes", "y", false, "import without asking for confirmation")
	dryRun := flag.Bool("dry-run", false, "read and validate the sheet without writing")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: seed [--yes] [--dry-run] <products.xlsx>\n\nColumns: %s\n\n", strings.Join(importer.Columns, ", "))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}
	logger.Initialize(logger.Config{Level: cfg.Log.Level, Format: "console", EnableColor: true})

	file, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("Failed to open XLSX file", err, map[string]interface{}{"path": filePath})
	}
	defer file.Close()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, invalid, err := importer.ReadProducts(file)
	if err != nil {
		logger.Fatal("Failed to read XLSX", err)
	}
	for _, e := range invalid {
		fmt.Printf("  skipped %s\n", e.Error())
	}
	fmt.Printf("Total products to import: %d\n", len(rows))

	if *dryRun || len(rows) == 0 {
		fmt.Println("Nothing written.")
		return
	}

	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(db.GetDB()); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	database := db.GetDB()
	categoryRepo := repository.NewCategoryRepository(database)
	activityService := service.NewActivityService(repository.NewActivityLogRepository(database))
	productService := service.NewProductService(repository.NewProductRepository(database), categoryRepo, activityService)

	created, failed := importer.New(productService, categoryRepo, service.Actor{Email: "seed"}).Import(rows)
	for _, e := range failed {
		fmt.Printf("  failed %s\n", e.Error())
	}

	fmt.Println("Import completed.")
	fmt.Printf("Products imported: %d, failed: %d\n", created, len(failed))
	if len(failed) > 0 {
		os.Exit(1)
	}
}
