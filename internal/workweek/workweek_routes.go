package workweek

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	summaries := r.Group("/employees/:id")
	{
		summaries.GET("/weekly-summaries", handler.GetForMonth)
		summaries.GET("/daily-hours", handler.GetDailyHours)
		summaries.POST("/weekly-summaries/recalculate", handler.Recalculate)
	}
}
