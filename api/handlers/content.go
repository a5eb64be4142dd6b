package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crosspost/dto"
	"crosspost/middleware"
	"crosspost/models"
	"crosspost/repositories"
	"crosspost/services"
)

func CreateContentHandler(svc *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateContentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content, err := svc.Create(c.Request.Context(), middleware.UserID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, content)
	}
}

func ListContentHandler(svc *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := repositories.ContentFilter{
			Status:      models.ContentStatus(c.Query("status")),
			ContentType: models.ContentType(c.Query("content_type")),
			Platform:    models.Platform(c.Query("platform")),
		}
		items, err := svc.List(c.Request.Context(), middleware.UserID(c), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func GetContentHandler(svc *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, err := svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, content)
	}
}

func UpdateContentHandler(svc *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateContentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content, err := svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, content)
	}
}

func DeleteContentHandler(svc *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

func ApproveContentHandler(svc *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, err := svc.Approve(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, content)
	}
}

func RejectContentHandler(svc *services.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, err := svc.Reject(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, content)
	}
}

func ScheduleContentHandler(svc *services.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		schedule, err := svc.Schedule(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, schedule)
	}
}
