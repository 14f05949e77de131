package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"buildit/internal/errcode"
)

// Error 输出统一的错误结构 {"error": msg, "code": code}。
func Error(c *gin.Context, status, code int, msg string) {
	c.JSON(status, gin.H{"error": msg, "code": code})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, errcode.Validation, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, errcode.ResourceMissing, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, errcode.SystemError, msg) }

// Unavailable 用于可选依赖（对象存储、AI）未配置的情况。
func Unavailable(c *gin.Context, msg string) {
	Error(c, http.StatusServiceUnavailable, errcode.SystemError, msg)
}
