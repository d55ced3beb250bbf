package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rushteam/tagkit/core"
)

// statusCode 把领域错误代码映射为 HTTP 状态码
func statusCode(err error) int {
	switch {
	case core.IsInvalidInput(err):
		return http.StatusBadRequest
	case core.IsNotFound(err):
		return http.StatusNotFound
	case core.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError 输出 {"error": "..."} 并中止后续 handler
func writeError(c *gin.Context, err error) {
	status := statusCode(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		loggerFrom(c, nil).ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()), slog.Any("error", err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
