// Package routes defines the API routing configuration.
// It wires repositories, services and handlers, and groups routes behind the
// owner middleware.
package routes

import (
	"time"

	"fintrack/internal/config"
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/repositories"
	"fintrack/internal/services/ledger"
	"fintrack/internal/services/rates"
	"fintrack/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	walletRepo := repositories.NewWalletRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	atomic := repositories.NewAtomic(db)

	resolver := rates.NewService(rates.Config{
		BaseURL:  config.GetEnv("RATES_BASE_URL", "https://api.frankfurter.dev/v1"),
		Timeout:  time.Duration(config.GetIntEnv("RATES_TIMEOUT_SECONDS", 5)) * time.Second,
		CacheTTL: time.Duration(config.GetIntEnv("RATES_CACHE_TTL_MINUTES", 60)) * time.Minute,
	}, repositories.CacheService)

	ledgerService := ledger.NewService(
		atomic,
		walletRepo,
		transactionRepo,
		resolver,
		repositories.CacheService,
	)
	walletService := wallet.NewService(atomic, walletRepo, repositories.CacheService)

	walletHandler := handlers.NewWalletHandler(walletService, ledgerService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api", middleware.Owner())

	wallets := api.Group("/wallets")
	wallets.Post("/", walletHandler.CreateWallet)
	wallets.Get("/", walletHandler.ListWallets)
	wallets.Get("/:id", walletHandler.GetWallet)
	wallets.Delete("/:id", walletHandler.DeleteWallet)
	wallets.Post("/:id/correct-balance", walletHandler.CorrectBalance)
	wallets.Get("/:id/audit", walletHandler.AuditWallet)

	categories := api.Group("/categories")
	categories.Post("/", categoryHandler.CreateCategory)
	categories.Get("/", categoryHandler.ListCategories)

	transactions := api.Group("/transactions")
	transactions.Post("/", transactionHandler.CreateTransaction)
	transactions.Get("/", transactionHandler.ListTransactions)
	transactions.Get("/:id", transactionHandler.GetTransaction)
	transactions.Put("/:id", transactionHandler.UpdateTransaction)
	transactions.Delete("/:id", transactionHandler.DeleteTransaction)
}
