package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/firo1919/e-commerce-sub000/config"
	chapaControllers "github.com/firo1919/e-commerce-sub000/controllers/chapa"
	orderControllers "github.com/firo1919/e-commerce-sub000/controllers/order"
	"github.com/firo1919/e-commerce-sub000/logger"
	"github.com/firo1919/e-commerce-sub000/models"
	"github.com/firo1919/e-commerce-sub000/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Init DB
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		zlog.Fatal("DB connection failed", zap.Error(err))
	}

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		zlog.Fatal("AutoMigrate failed", zap.Error(err))
	}

	// Payment gateway client
	gateway := chapaControllers.NewClient(
		cfg.ChapaAPIURL,
		cfg.ChapaSecretKey,
		cfg.ChapaCallbackURL,
		cfg.ChapaReturnURL,
		cfg.ChapaTimeout,
	)
	orderSvc := orderControllers.NewService(db, gateway, zlog, cfg.Currency)

	// Gin setup
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, db, cfg, orderSvc, zlog)

	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
