package router

import (
	"time"

	"paddyledger/internal/config"
	"paddyledger/internal/handler"
	"paddyledger/internal/infra"
	"paddyledger/internal/middleware"
	"paddyledger/internal/repository"
	"paddyledger/internal/service"
	"paddyledger/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, weighbridge *infra.WeighbridgeClient, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	purchaseRepo := repository.NewPurchaseRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	seasonRepo := repository.NewSeasonRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	farmerRepo := repository.NewFarmerRepository(db)
	manufacturerRepo := repository.NewManufacturerRepository(db)
	productRepo := repository.NewProductRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	stockpileRepo := repository.NewStockpileRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	var locker service.Locker
	if rdb != nil {
		locker = infra.NewRedisLocker(rdb)
	}

	purchaseSvc := service.NewPurchaseService(purchaseRepo, seasonRepo, farmerRepo, gradeRepo, dispatcher)
	saleSvc := service.NewSaleService(saleRepo, purchaseRepo, seasonRepo, manufacturerRepo, productRepo, purchaseSvc, locker)
	seasonSvc := service.NewSeasonService(seasonRepo)
	pricingSvc := service.NewPricingService(priceRepo, seasonRepo, rdb)
	stockpileSvc := service.NewStockpileService(stockpileRepo, seasonRepo)
	farmerSvc := service.NewFarmerService(farmerRepo)
	manufacturerSvc := service.NewManufacturerService(manufacturerRepo)
	productSvc := service.NewProductService(productRepo)
	gradeSvc := service.NewGradeService(gradeRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	seasonsH := handler.NewSeasonsHandler(seasonSvc)
	pricesH := handler.NewPricesHandler(pricingSvc)
	stockpilesH := handler.NewStockpilesHandler(stockpileSvc)
	farmersH := handler.NewFarmersHandler(farmerSvc)
	manufacturersH := handler.NewManufacturersHandler(manufacturerSvc)
	productsH := handler.NewProductsHandler(productSvc)
	gradesH := handler.NewGradesHandler(gradeSvc)
	weighbridgeH := handler.NewWeighbridgeHandler(weighbridge)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, weighbridge))

	v1 := r.Group("/v1")
	{
		purchases := v1.Group("/purchases")
		{
			purchases.POST("", purchasesH.Create)
			purchases.GET("", purchasesH.List)
			purchases.GET("/unsold", purchasesH.ListUnsold)
			purchases.GET("/stats", purchasesH.Stats)
			purchases.POST("/cancel-pending", purchasesH.CancelPending)
			purchases.GET("/receipt/:number", purchasesH.GetByReceipt)
			purchases.GET("/:id", purchasesH.GetByID)
			purchases.POST("/:id/split", purchasesH.Split)
			purchases.GET("/:id/children", purchasesH.Children)
			purchases.PATCH("/:id/farmer", purchasesH.ChangeFarmer)
			purchases.PATCH("/:id/payment", purchasesH.UpdatePayment)
		}

		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/stats", salesH.Stats)
			sales.GET("/number/:number", salesH.GetByNumber)
			sales.GET("/:id", salesH.GetByID)
		}

		seasons := v1.Group("/seasons")
		{
			seasons.POST("", seasonsH.Create)
			seasons.GET("", seasonsH.List)
			seasons.GET("/active", seasonsH.GetActive)
			seasons.GET("/:id", seasonsH.GetByID)
			seasons.PUT("/:id", seasonsH.Update)
			seasons.PUT("/:id/deductions", seasonsH.UpdateDeductions)
			seasons.POST("/:id/activate", seasonsH.Activate)
			seasons.POST("/:id/close", seasonsH.Close)

			// Season pricing lives under the season it belongs to
			seasons.POST("/:id/prices", pricesH.Initialize)
			seasons.GET("/:id/prices", pricesH.List)
			seasons.POST("/:id/prices/copy-from", pricesH.CopyFrom)
			seasons.PUT("/:id/prices/:productID", pricesH.Update)
			seasons.GET("/:id/prices/:productID/history", pricesH.History)
		}

		stockpiles := v1.Group("/stockpiles")
		{
			stockpiles.GET("/:seasonID", stockpilesH.Summary)
			stockpiles.GET("/:seasonID/stats", stockpilesH.Stats)
			stockpiles.GET("/:seasonID/movements", stockpilesH.Movements)
			stockpiles.GET("/:seasonID/alerts", stockpilesH.Alerts)
		}

		farmers := v1.Group("/farmers")
		{
			farmers.POST("", farmersH.Create)
			farmers.GET("", farmersH.List)
			farmers.GET("/search", farmersH.Search)
			farmers.GET("/:id", farmersH.GetByID)
			farmers.PUT("/:id", farmersH.Update)
			farmers.DELETE("/:id", farmersH.Deactivate)
		}

		manufacturers := v1.Group("/manufacturers")
		{
			manufacturers.POST("", manufacturersH.Create)
			manufacturers.GET("", manufacturersH.List)
			manufacturers.GET("/search", manufacturersH.Search)
			manufacturers.GET("/:id", manufacturersH.GetByID)
			manufacturers.PUT("/:id", manufacturersH.Update)
			manufacturers.DELETE("/:id", manufacturersH.Deactivate)
		}

		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.GetByID)
			products.PUT("/:id", productsH.Update)
		}

		grades := v1.Group("/grades")
		{
			grades.POST("", gradesH.Create)
			grades.GET("", gradesH.List)
			grades.GET("/:id", gradesH.GetByID)
			grades.PUT("/:id", gradesH.Update)
		}

		v1.GET("/weighbridge/reading", weighbridgeH.Reading)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
