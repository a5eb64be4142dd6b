package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crosspost/dto"
	"crosspost/middleware"
	"crosspost/models"
	"crosspost/services"
)

func analyticsQuery(c *gin.Context) (services.AnalyticsQuery, error) {
	var q services.AnalyticsQuery
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return q, err
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return q, err
	}
	q.From = from
	q.To = to
	for _, p := range c.QueryArray("platforms") {
		q.Platforms = append(q.Platforms, models.Platform(p))
	}
	return q, nil
}

func SyncAnalyticsHandler(svc *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SyncRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		record, err := svc.Sync(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Platform)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func CreateRecordHandler(svc *services.PublishService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.RecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		record, err := svc.CreateRecord(c.Request.Context(), middleware.UserID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, record)
	}
}

func ContentAnalyticsHandler(svc *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := svc.GetByContent(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func DashboardHandler(svc *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := analyticsQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		summary, err := svc.Dashboard(c.Request.Context(), middleware.UserID(c), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func PlatformComparisonHandler(svc *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := analyticsQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		entries, err := svc.PlatformComparison(c.Request.Context(), middleware.UserID(c), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

func ContentPerformanceHandler(svc *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := analyticsQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		contentType := models.ContentType(c.Query("content_type"))

		report, err := svc.ContentPerformance(c.Request.Context(), middleware.UserID(c), q, contentType, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func AudienceInsightsHandler(svc *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := analyticsQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		insights, err := svc.AudienceInsights(c.Request.Context(), middleware.UserID(c), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, insights)
	}
}
