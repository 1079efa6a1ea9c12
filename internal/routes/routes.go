package routes

import (
	"github.com/gin-gonic/gin"

	"dealdesk/internal/handlers"
	"dealdesk/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	agentHandler *handlers.AgentHandler,
	dealHandler *handlers.DealHandler,
	dealTypeHandler *handlers.DealTypeHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	// AGENTS
	agents := r.Group("/agents")
	{
		agents.GET("/", agentHandler.List)
		agents.GET("/:id", agentHandler.GetByID)
	}

	// DEAL TYPES
	types := r.Group("/deal-types")
	{
		types.POST("/", dealTypeHandler.Create)
		types.GET("/", dealTypeHandler.List)
		types.GET("/:id", dealTypeHandler.GetByID)
		types.PUT("/:id", dealTypeHandler.Update)
	}

	// DEALS
	deals := r.Group("/deals")
	{
		deals.GET("/pipeline", dealHandler.Pipeline)
		deals.POST("/", dealHandler.Create)
		deals.GET("/", dealHandler.List)
		deals.GET("/:id", dealHandler.GetByID)
		deals.PUT("/:id", dealHandler.Update)
		deals.DELETE("/:id", dealHandler.Delete)
		deals.POST("/:id/stage", dealHandler.ChangeStage)
		deals.GET("/:id/activities", dealHandler.Activities)
	}

	// REPORTS
	reports := r.Group("/reports")
	{
		reports.GET("/summary", reportHandler.GetSummary)
		reports.GET("/deals/won", reportHandler.WonDeals)
		reports.GET("/deals/lost", reportHandler.LostDeals)
		reports.GET("/pipeline.pdf", reportHandler.PipelinePDF)
	}

	return r
}
