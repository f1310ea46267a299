package main

import (
	"fmt"
	"log"
	"os"

	"buildflow-backend/config"
	"buildflow-backend/controllers"
	"buildflow-backend/models"
	"buildflow-backend/routes"
	"buildflow-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger := config.MustLogger(config.NewLogger())
	defer logger.Sync()

	config.ConnectDB()

	err := config.DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Order{},
		&models.WorkComponent{},
		&models.MaterialComponent{},
		&models.Invoice{},
		&models.BookkeepingEntry{},
		&models.Category{},
		&models.MonthlyStatistic{},
		&models.Company{},
	)
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	if err := services.Init(config.DB, dataDir, logger); err != nil {
		logger.Fatal("service initialization failed", zap.Error(err))
	}

	stats := services.NewStatisticsService(config.DB, logger)
	cronSpec := os.Getenv("STATS_CRON")
	if cronSpec == "" {
		cronSpec = "0 3 * * *"
	}
	if err := stats.StartScheduler(cronSpec); err != nil {
		logger.Fatal("scheduler startup failed", zap.Error(err))
	}
	defer stats.Stop()
	controllers.SetStatisticsService(stats)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(logger)
	printRoutes(r)

	logger.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
