package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/api/middleware"
	"resumeforge/internal/resume"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func Unauthorized(c *gin.Context)           { Error(c, http.StatusUnauthorized, "unauthorized") }
func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

// ServiceError 把简历服务的错误映射为 HTTP 响应；未知错误记录日志后返回 500。
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, resume.ErrUnauthorized):
		Unauthorized(c)
	case errors.Is(err, resume.ErrNotFound):
		NotFound(c, "not found")
	case errors.Is(err, resume.ErrInvalidInput):
		BadRequest(c, err.Error())
	default:
		middleware.LoggerFromContext(c).Error("resume service failed", slog.Any("error", err))
		Internal(c, "internal error")
	}
}
