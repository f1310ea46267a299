package routes

import (
	"os"
	"strings"

	"buildflow-backend/config"
	"buildflow-backend/controllers"
	"buildflow-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func allowedOrigins() []string {
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{"http://localhost:3000", "http://localhost:5173"}
}

func SetupRouter(log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(log))

	r.GET("/health", controllers.Health)

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id", controllers.UpdateOrder)
			orders.DELETE("/:id", controllers.DeleteOrder)
		}

		invoices := api.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.POST("/:id/status", controllers.SetInvoiceStatus)
			invoices.POST("/:id/material-costs", controllers.RecordMaterialCosts)
			invoices.GET("/:id/pdf", controllers.GetInvoicePDF)
			invoices.DELETE("/:id", controllers.DeleteInvoice)
		}

		bookkeeping := api.Group("/bookkeeping")
		{
			bookkeeping.GET("/categories", controllers.GetCategories)
			bookkeeping.POST("/entries", controllers.CreateBookkeepingEntry)
			bookkeeping.PUT("/entries/:id", controllers.UpdateBookkeepingEntry)
			bookkeeping.DELETE("/entries/:id", controllers.DeleteBookkeepingEntry)
			bookkeeping.DELETE("/entries/:id/receipts/:filename", controllers.DeleteEntryReceipt)
			bookkeeping.GET("/years/:year", controllers.GetBookkeepingEntries)
			bookkeeping.GET("/years/:year/report", controllers.GetYearlyReport)
			bookkeeping.GET("/years/:year/pdf", controllers.GetYearlyReportPDF)
		}

		statistics := api.Group("/statistics")
		{
			statistics.GET("", controllers.GetStatistics)
			statistics.POST("/refresh", controllers.RefreshStatistics)
		}

		api.GET("/dashboard", controllers.GetDashboard)

		company := api.Group("/company")
		{
			company.GET("", controllers.GetCompany)
			company.PUT("", controllers.UpdateCompany)
		}

		api.GET("/files/receipts/:filename", controllers.DownloadReceipt)
	}

	return r
}
