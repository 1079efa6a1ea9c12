package app

import (
	"database/sql"
	"fmt"
	"log"

	"dealdesk/internal/config"
	"dealdesk/internal/handlers"
	"dealdesk/internal/middleware"
	"dealdesk/internal/pdf"
	"dealdesk/internal/repositories"
	"dealdesk/internal/routes"
	"dealdesk/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "dealdesk/docs"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.JWTKey = []byte(cfg.Auth.JWTSecret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	agentRepo := repositories.NewAgentRepository(db)
	dealRepo := repositories.NewDealRepository(db)
	dealTypeRepo := repositories.NewDealTypeRepository(db)
	activityRepo := repositories.NewActivityRepository(db)

	// === Services ===
	var emailService services.EmailService
	if cfg.Email.SMTPHost != "" {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}
	telegramService, err := services.NewTelegramService(cfg.Telegram.BotToken)
	if err != nil {
		log.Printf("telegram disabled: %v", err)
	}

	agentService := services.NewAgentService(agentRepo)
	notifier := services.NewDealNotifier(agentRepo, emailService, telegramService)
	dealService := services.NewDealService(dealRepo, dealTypeRepo, activityRepo, notifier)
	dealTypeService := services.NewDealTypeService(dealTypeRepo)
	reportService := services.NewReportService(dealRepo)

	pdfGen := pdf.NewReportGenerator()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(agentService)
	agentHandler := handlers.NewAgentHandler(agentService)
	dealHandler := handlers.NewDealHandler(dealService)
	dealTypeHandler := handlers.NewDealTypeHandler(dealTypeService)
	reportHandler := handlers.NewReportHandler(reportService, dealService, dealTypeService, pdfGen)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		agentHandler,
		dealHandler,
		dealTypeHandler,
		reportHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
