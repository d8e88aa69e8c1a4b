package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-catalog-import/internal/events"
	"go-catalog-import/internal/handler"
	"go-catalog-import/internal/middleware"
	"go-catalog-import/internal/model"
	"go-catalog-import/internal/repository"
	"go-catalog-import/internal/service"
	"go-catalog-import/internal/ws"
	"go-catalog-import/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Product{}, &model.ProductVariant{}, &model.Facet{}, &model.FacetValue{}, &model.Asset{})

	// 3. Event bus and websocket hub
	bus := events.NewBus()
	go bus.Run()

	wsHub := ws.NewHub()
	go wsHub.Run()
	go wsHub.RelayEvents(bus.Subscribe())

	// 4. Dependency injection (wiring layers)
	catalogRepo := repository.NewCatalogRepo(db)
	facetRepo := repository.NewFacetRepo(db)
	assetRepo := repository.NewAssetRepo(db)

	guard := service.NewMemoryGuard(service.DefaultCooldown)
	facetService := service.NewFacetService(catalogRepo, facetRepo, service.DefaultFacetMapping, guard)
	assetService := service.NewAssetService(catalogRepo, assetRepo, "")
	statsService := service.NewStatsService(catalogRepo)

	// Catalog events (imports, admin edits) feed the facet engine; its guards
	// absorb the redundant triggers.
	go facetService.Listen(bus.Subscribe())

	authHandler := handler.NewAuthHandler()
	catalogHandler := handler.NewCatalogHandler(catalogRepo, statsService)
	facetHandler := handler.NewFacetHandler(facetService)
	importHandler := handler.NewImportHandler(catalogRepo, facetService, assetService, bus)

	// 5. Setup fiber
	app := fiber.New(fiber.Config{
		AppName:   "Catalog Import Admin v1.0",
		BodyLimit: 32 * 1024 * 1024, // CSV uploads
	})

	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth())

	protected.Get("/products", catalogHandler.GetProducts)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Get("/stats", catalogHandler.GetStats)

	protected.Post("/import", importHandler.Import)

	protected.Post("/facets/products/:id/reprocess", facetHandler.Reprocess)
	protected.Post("/facets/products/:id/reprocess/force", facetHandler.ReprocessForced)
	protected.Post("/facets/reprocess-all", facetHandler.ReprocessAll)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
