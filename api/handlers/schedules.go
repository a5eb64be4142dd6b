package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crosspost/middleware"
	"crosspost/services"
)

func ListSchedulesHandler(svc *services.ScheduleService) gin.HandlerFunc {
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
		schedules, err := svc.List(c.Request.Context(), middleware.UserID(c), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, schedules)
	}
}

func GetScheduleHandler(svc *services.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		schedule, err := svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, schedule)
	}
}

func DeleteScheduleHandler(svc *services.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
