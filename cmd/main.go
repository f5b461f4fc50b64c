package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hifieats/hifi-eats-api/internal/auth"
	"github.com/hifieats/hifi-eats-api/internal/config"
	"github.com/hifieats/hifi-eats-api/internal/controllers"
	"github.com/hifieats/hifi-eats-api/internal/database"
	"github.com/hifieats/hifi-eats-api/internal/mailer"
	"github.com/hifieats/hifi-eats-api/internal/middleware"
	"github.com/hifieats/hifi-eats-api/internal/models"
	"github.com/hifieats/hifi-eats-api/internal/scheduler"
	"github.com/hifieats/hifi-eats-api/internal/services"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	configuration *config.Config

	authController    controllers.AuthController
	menuController    controllers.MenuController
	cartController    controllers.CartController
	orderController   controllers.OrderController
	agentController   controllers.AgentController
	adminController   controllers.AdminController
	addressController controllers.AddressController
)

// @title HIFI Eats API
// @version 1.0
// @description Food delivery marketplace backend
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	db := setupDatabase(configuration)

	// Wire services and controllers
	processor := wireApplication(db, configuration)

	// Start the catalog update scheduler
	processor.Start()
	defer processor.Stop()

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Stop the scheduler cleanly on SIGINT/SIGTERM
	go handleSignals(processor)

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase connects to the configured database and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(database.FromAppConfig(conf))
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))
	return db
}

// wireApplication builds the service graph and the controllers, returning the
// background processor for the caller to start
func wireApplication(db *gorm.DB, conf *config.Config) *scheduler.Processor {
	tokens := auth.NewTokenIssuer([]byte(conf.JWTSecret), time.Duration(conf.TokenTTLMinutes)*time.Minute)

	var mail mailer.Mailer
	if conf.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(conf.SMTPHost, conf.SMTPPort, conf.SMTPUser, conf.SMTPPassword, conf.MailFrom)
	} else {
		mail = mailer.NewNoopMailer()
	}

	earningsService := services.NewEarningsService(db, services.EarningsConfig{
		BasePayPerDelivery: conf.BasePayPerDelivery,
		TripBonusAmount:    conf.TripBonusAmount,
		TripBonusEvery:     conf.TripBonusEvery,
	})
	orderService := services.NewOrderService(db, earningsService, services.PricingConfig{
		TaxRate:        conf.TaxRate,
		DeliveryCharge: conf.DeliveryCharge,
	})
	menuService := services.NewMenuService(db)
	cartService := services.NewCartService(db)
	agentService := services.NewAgentService(db, earningsService)
	accountService := services.NewAccountService(db, tokens, mail)
	addressService := services.NewAddressService(db)
	recommendationService := services.NewRecommendationService(db)
	insightsService := services.NewInsightsService(db, time.Duration(conf.OnTimeThresholdMinutes)*time.Minute)

	authController = controllers.NewAuthController(accountService, conf.ResetBaseURL)
	menuController = controllers.NewMenuController(menuService, recommendationService)
	cartController = controllers.NewCartController(cartService)
	orderController = controllers.NewOrderController(orderService)
	agentController = controllers.NewAgentController(agentService, orderService)
	adminController = controllers.NewAdminController(orderService, agentService, accountService, insightsService)
	addressController = controllers.NewAddressController(addressService)

	return scheduler.NewProcessor(db, time.Duration(conf.SchedulerIntervalSeconds)*time.Second)
}

// handleSignals stops the background processor on shutdown signals
func handleSignals(processor *scheduler.Processor) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Shutdown signal received, stopping background tasks")
	processor.Stop()
	os.Exit(0)
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	// Initialize Gin router
	router := gin.Default()

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	v1 := router.Group("/api/v1")
	{
		// Public authentication routes
		authApi := v1.Group("/auth")
		{
			authApi.POST("/signup", authController.SignupCustomer)
			authApi.POST("/agent-signup", authController.SignupAgent)
			authApi.POST("/login", authController.Login)
			authApi.POST("/forgot-password", authController.ForgotPassword)
			authApi.POST("/reset-password", authController.ResetPassword)
		}

		// Protected routes require a valid Bearer token
		protectedApi := v1.Group("")
		protectedApi.Use(middleware.BearerAuth([]byte(configuration.JWTSecret)))
		{
			customerApi := protectedApi.Group("")
			customerApi.Use(middleware.RequireRole(models.RoleCustomer))
			{
				customerApi.GET("/menu", menuController.ListMenu)
				customerApi.GET("/menu/categories", menuController.ListCategories)
				customerApi.GET("/menu/:id", menuController.GetItem)
				customerApi.GET("/recommendations", menuController.Recommendations)

				customerApi.GET("/cart", cartController.GetCart)
				customerApi.POST("/cart", cartController.ReplaceCart)
				customerApi.GET("/cart/count", cartController.Count)

				customerApi.POST("/orders", orderController.PlaceOrder)
				customerApi.GET("/orders/history", orderController.History)
				customerApi.GET("/orders/:id", orderController.GetOrder)
				customerApi.GET("/orders/:id/status", orderController.GetStatus)
				customerApi.POST("/orders/:id/feedback", orderController.SubmitFeedback)

				customerApi.GET("/addresses", addressController.List)
				customerApi.POST("/addresses", addressController.Create)
				customerApi.PUT("/addresses/:id", addressController.Update)
				customerApi.DELETE("/addresses/:id", addressController.Delete)
				customerApi.POST("/addresses/:id/preferred", addressController.SetPreferred)
			}

			agentApi := protectedApi.Group("/agent")
			agentApi.Use(middleware.RequireRole(models.RoleAgent))
			{
				agentApi.GET("/dashboard", agentController.Dashboard)
				agentApi.GET("/earnings", agentController.Earnings)
				agentApi.POST("/orders/:id/accept", agentController.AcceptOrder)
				agentApi.POST("/orders/:id/decline", agentController.DeclineOrder)
				agentApi.POST("/orders/:id/status", agentController.UpdateStatus)
				agentApi.POST("/profile", agentController.UpdateProfile)
			}

			adminApi := protectedApi.Group("/admin")
			adminApi.Use(middleware.RequireRole(models.RoleAdmin))
			{
				adminApi.GET("/menu", menuController.ListAllItems)
				adminApi.POST("/menu", menuController.CreateItem)
				adminApi.PUT("/menu/:id", menuController.UpdateItem)
				adminApi.DELETE("/menu", menuController.DeleteItem)

				adminApi.GET("/orders/pending", adminController.PendingOrders)
				adminApi.GET("/orders", adminController.AllOrders)
				adminApi.POST("/orders/assign", adminController.AssignOrder)
				adminApi.POST("/orders/reject", adminController.RejectOrder)
				adminApi.POST("/orders/refund", adminController.RefundOrder)
				adminApi.GET("/summary", adminController.Summary)
				adminApi.GET("/order-status-chart", adminController.StatusChart)
				adminApi.GET("/insights", adminController.Insights)

				adminApi.GET("/agents", adminController.ListAgents)
				adminApi.POST("/agents/:id/approve", adminController.ApproveAgent)
				adminApi.POST("/agents/:id/reject", adminController.RejectAgent)
				adminApi.POST("/agents/:id/activate", adminController.ActivateAgent)
				adminApi.POST("/agents/:id/deactivate", adminController.DeactivateAgent)
				adminApi.GET("/customers", adminController.ListCustomers)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "hifi-eats-api",
	})
}
