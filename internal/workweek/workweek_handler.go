package workweek

import (
	"net/http"

	"go-schedule/internal/shared/apperror"
	"go-schedule/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("workweek.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workweek.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("workweek request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GetForMonth returns every week touching ?year=&month= for one employee.
func (h *Handler) GetForMonth(c *gin.Context) {
	employeeID := c.Param("id")

	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.GetForMonth(c.Request.Context(), employeeID, q.Year, q.Month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// GetDailyHours returns the per-day schedule for ?from=&to=.
func (h *Handler) GetDailyHours(c *gin.Context) {
	employeeID := c.Param("id")

	var q DailyHoursQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.GetDailyHours(c.Request.Context(), employeeID, q.From, q.To)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Recalculate rebuilds every weekly summary of the employee from the stored
// event history.
func (h *Handler) Recalculate(c *gin.Context) {
	employeeID := c.Param("id")

	resp, err := h.service.RecalculateAll(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
