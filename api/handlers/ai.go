package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crosspost/dto"
	"crosspost/middleware"
	"crosspost/services"
)

// GenerateHandler runs the full generation pipeline for one request.
func GenerateHandler(svc *services.GenerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		pkg, err := svc.GeneratePackage(c.Request.Context(), middleware.UserID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, pkg)
	}
}

func IdeasHandler(svc *services.GenerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.IdeasRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ideas, err := svc.GenerateIdeas(c.Request.Context(), middleware.UserID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ideas": ideas})
	}
}

func ResearchHandler(svc *services.GenerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ResearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		research, err := svc.Research(c.Request.Context(), middleware.UserID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"research": research})
	}
}

func ImproveHandler(svc *services.GenerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ImproveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content, err := svc.Improve(c.Request.Context(), middleware.UserID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, content)
	}
}

func ImageHandler(svc *services.GenerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		images, err := svc.GenerateImage(c.Request.Context(), middleware.UserID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"images": images})
	}
}
