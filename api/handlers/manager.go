package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crosspost/dto"
	"crosspost/middleware"
	"crosspost/models"
	"crosspost/repositories"
	"crosspost/services"
)

func PublishHandler(svc *services.PublishService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.PublishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := svc.Publish(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Platform)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func ScheduleBatchHandler(svc *services.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ScheduleBatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		results := svc.ScheduleBatch(c.Request.Context(), middleware.UserID(c), req)
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

func RepurposeHandler(svc *services.GenerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.RepurposeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content, err := svc.Repurpose(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, content)
	}
}

func BulkApproveHandler(svc *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.BulkApproveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		results := svc.BulkApprove(c.Request.Context(), middleware.UserID(c), req.ContentIDs)
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

func CalendarHandler(svc *services.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, err := parseTimeQuery(c, "from")
		if err != nil {
			respondError(c, err)
			return
		}
		to, err := parseTimeQuery(c, "to")
		if err != nil {
			respondError(c, err)
			return
		}
		entries, err := svc.Calendar(c.Request.Context(), middleware.UserID(c), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

func LibraryHandler(svc *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := repositories.ContentFilter{
			Status:      models.ContentStatus(c.Query("status")),
			ContentType: models.ContentType(c.Query("content_type")),
			Platform:    models.Platform(c.Query("platform")),
			Search:      c.Query("search"),
			SortBy:      c.Query("sort_by"),
			SortAsc:     c.Query("order") == "asc",
		}
		page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
		limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

		library, err := svc.Library(c.Request.Context(), middleware.UserID(c), filter, page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, library)
	}
}

func StatsHandler(svc *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
