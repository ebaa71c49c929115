package shift

import (
	"go-schedule/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	events := r.Group("/events")
	{
		if redisClient != nil {
			events.POST("", middleware.Idempotency(redisClient), handler.Create)
		} else {
			events.POST("", handler.Create)
		}
		events.GET("/:id", handler.GetByID)
		events.PUT("/:id", handler.Update)
		events.DELETE("/:id", handler.Delete)
	}

	r.GET("/employees/:id/events", handler.GetAllByEmployee)
}
