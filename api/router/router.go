package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"crosspost/api/handlers"
	"crosspost/db"
	"crosspost/middleware"
	"crosspost/services"
)

// Services bundles everything the route table needs.
type Services struct {
	Generation *services.GenerationService
	Content    *services.ContentService
	Schedule   *services.ScheduleService
	Publish    *services.PublishService
	Analytics  *services.AnalyticsService
}

// New wires the route table over the given services.
func New(svcs Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestTrace())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if err := db.Database().RunCommand(context.Background(), bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// v1 routes, identity required
	api := r.Group("/api/v1")
	api.Use(middleware.Identity())
	{
		ai := api.Group("/ai")
		{
			ai.POST("/generate", handlers.GenerateHandler(svcs.Generation))
			ai.POST("/ideas", handlers.IdeasHandler(svcs.Generation))
			ai.POST("/research", handlers.ResearchHandler(svcs.Generation))
			ai.POST("/improve", handlers.ImproveHandler(svcs.Generation))
			ai.POST("/image", handlers.ImageHandler(svcs.Generation))
		}

		content := api.Group("/content")
		{
			content.POST("", handlers.CreateContentHandler(svcs.Content))
			content.GET("", handlers.ListContentHandler(svcs.Content))
			content.GET("/:id", handlers.GetContentHandler(svcs.Content))
			content.PUT("/:id", handlers.UpdateContentHandler(svcs.Content))
			content.DELETE("/:id", handlers.DeleteContentHandler(svcs.Content))
			content.PUT("/:id/approve", handlers.ApproveContentHandler(svcs.Content))
			content.PUT("/:id/reject", handlers.RejectContentHandler(svcs.Content))
			content.POST("/:id/schedule", handlers.ScheduleContentHandler(svcs.Schedule))
		}

		manager := api.Group("/content-manager")
		{
			manager.POST("/publish/:id", handlers.PublishHandler(svcs.Publish))
			manager.POST("/schedule", handlers.ScheduleBatchHandler(svcs.Schedule))
			manager.POST("/repurpose/:id", handlers.RepurposeHandler(svcs.Generation))
			manager.POST("/approve", handlers.BulkApproveHandler(svcs.Content))
			manager.GET("/calendar", handlers.CalendarHandler(svcs.Schedule))
			manager.GET("/library", handlers.LibraryHandler(svcs.Content))
			manager.GET("/stats", handlers.StatsHandler(svcs.Content))
		}

		schedules := api.Group("/schedules")
		{
			schedules.GET("", handlers.ListSchedulesHandler(svcs.Schedule))
			schedules.GET("/:id", handlers.GetScheduleHandler(svcs.Schedule))
			schedules.DELETE("/:id", handlers.DeleteScheduleHandler(svcs.Schedule))
		}

		analytics := api.Group("/analytics")
		{
			analytics.POST("/sync/:id", handlers.SyncAnalyticsHandler(svcs.Analytics))
			analytics.POST("/record", handlers.CreateRecordHandler(svcs.Publish))
			analytics.GET("/content/:id", handlers.ContentAnalyticsHandler(svcs.Analytics))
			analytics.GET("/dashboard", handlers.DashboardHandler(svcs.Analytics))
			analytics.GET("/platform-comparison", handlers.PlatformComparisonHandler(svcs.Analytics))
			analytics.GET("/content-performance", handlers.ContentPerformanceHandler(svcs.Analytics))
			analytics.GET("/audience-insights", handlers.AudienceInsightsHandler(svcs.Analytics))
		}
	}

	return r
}
