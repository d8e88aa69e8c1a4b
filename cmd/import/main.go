package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go-catalog-import/internal/csvsource"
	"go-catalog-import/internal/family"
	"go-catalog-import/internal/model"
	"go-catalog-import/internal/repository"
	"go-catalog-import/internal/service"
	"go-catalog-import/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	familyCode := flag.String("family", "", "product family to import ("+strings.Join(family.Codes(), ", ")+")")
	filePath := flag.String("file", "", "path to the vendor CSV file")
	withAssets := flag.Bool("assets", false, "download and attach product images from assetUrls")
	flag.Parse()

	if *familyCode == "" || *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, ok := family.Lookup(*familyCode)
	if !ok {
		log.Fatalf("Unknown product family %q (known: %s)", *familyCode, strings.Join(family.Codes(), ", "))
	}
	if _, err := os.Stat(*filePath); err != nil {
		log.Fatalf("CSV file not found: %s", *filePath)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	db := database.ConnectDB()
	db.AutoMigrate(&model.Product{}, &model.ProductVariant{}, &model.Facet{}, &model.FacetValue{}, &model.Asset{})

	catalogRepo := repository.NewCatalogRepo(db)
	facetRepo := repository.NewFacetRepo(db)
	assetRepo := repository.NewAssetRepo(db)

	guard := service.NewMemoryGuard(service.DefaultCooldown)
	facetService := service.NewFacetService(catalogRepo, facetRepo, service.DefaultFacetMapping, guard)

	var assetService service.AssetService
	if *withAssets {
		assetService = service.NewAssetService(catalogRepo, assetRepo, "")
	}

	importer := service.NewImportService(catalogRepo, facetService, assetService, nil, cfg)

	log.Printf("Starting %s import from %s...", cfg.Name, *filePath)
	summary, err := importer.Run(csvsource.New(*filePath))
	if err != nil {
		log.Fatalf("Fatal import error: %v", err)
	}

	fmt.Printf("\n%s import summary:\n", cfg.Name)
	fmt.Printf("  Imported: %d\n", summary.Imported)
	fmt.Printf("  Skipped duplicates: %d\n", summary.Skipped)
	fmt.Printf("  Errors: %d\n", summary.Errored)
	fmt.Printf("  Total processed: %d\n", summary.Total)
}
