package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bobkonczak/health-tracking-pro/internal/logger"
	"github.com/bobkonczak/health-tracking-pro/internal/services"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Fail maps a service error onto a status code.
func Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		BadRequest(c, err.Error())
	case errors.Is(err, services.ErrDataUnavailable):
		logger.Log.Warn("⚠️ Store unavailable",
			zap.String("request_id", RequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		Error(c, http.StatusServiceUnavailable, "data unavailable")
	default:
		logger.Log.Error("❌ Internal server error",
			zap.String("request_id", RequestID(c)),
			zap.Error(err),
		)
		Error(c, http.StatusInternalServerError, "internal server error")
	}
}
