package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"welcome-reward-system/handlers"
	"welcome-reward-system/logger"
	"welcome-reward-system/middleware"
	"welcome-reward-system/models"
	"welcome-reward-system/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	loadErr := godotenv.Load()

	logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT") == "json")
	if loadErr != nil {
		logger.Debug("no .env file found, reading environment variables directly")
	}

	serviceToken := os.Getenv("WELCOME_SERVICE_TOKEN")
	if serviceToken == "" {
		logger.Fatal("WELCOME_SERVICE_TOKEN is not set, service cannot authenticate the gateway")
	}

	paymentURL := os.Getenv("PAYMENT_SERVICE_URL")
	if paymentURL == "" {
		logger.Fatal("PAYMENT_SERVICE_URL environment variable not set")
	}

	gatewayURL := os.Getenv("GATEWAY_URL")
	if gatewayURL == "" {
		logger.Fatal("GATEWAY_URL environment variable not set")
	}

	db, err := openDatabase()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.GuildConfig{},
		&models.JoinRecord{},
	); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	configService := services.NewConfigService(db)
	ledgerService := services.NewLedgerService(db)
	paymentClient := services.NewPaymentClient(paymentURL, os.Getenv("PAYMENT_SERVICE_TOKEN"))
	deliveryClient := services.NewDeliveryClient(gatewayURL, serviceToken)
	welcomeService := services.NewWelcomeService(configService, ledgerService, paymentClient, deliveryClient)
	dispatcher := services.NewDispatcher(welcomeService, configService)

	ledgerService.StartRetentionScheduler()

	app := fiber.New()
	app.Use(middleware.GatewayAuthMiddleware(serviceToken))
	handlers.SetupEventRoutes(app, dispatcher)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}()

	logger.Info("welcome reward service running",
		zap.String("port", port),
		zap.String("payment_service", paymentURL))

	<-ctx.Done()
	logger.Info("shutting down")
	_ = app.Shutdown()
}

func openDatabase() (*gorm.DB, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	// Local deployments run off a sqlite file; the glebarez driver
	// keeps the binary cgo-free.
	path := os.Getenv("WELCOME_DB_PATH")
	if path == "" {
		path = "welcome.db"
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}
