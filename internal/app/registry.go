package app

import (
	"database/sql"

	"go-schedule/internal/compliance"
	"go-schedule/internal/employee"
	"go-schedule/internal/messaging/kafka"
	"go-schedule/internal/shift"
	"go-schedule/internal/workweek"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	shiftRepo := shift.NewRepository(gormDB)
	workweekRepo := workweek.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	validator := compliance.NewValidator(compliance.DefaultRules())
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, outboxRepo, rdb)
	shiftService := shift.NewServiceWithOutbox(db, shiftRepo, validator, outboxRepo)
	workweekService := workweek.NewService(db, workweekRepo, rdb)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	shiftHandler := shift.NewHandlerWithRedis(shiftService, rdb)
	workweekHandler := workweek.NewHandler(workweekService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler)
		shift.RegisterRoutes(api, shiftHandler, rdb)
		workweek.RegisterRoutes(api, workweekHandler)
	}

	return nil
}
