package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	APIVersion    = "1.0.0"
	ServiceType   = "cuesong"
	ServerVersion = "0.1.0"
)

// ErrorResponse 统一错误响应结构
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}

// SuccessResponse 统一成功响应结构
func SuccessResponse(c *gin.Context, key string, data interface{}, count int) {
	c.JSON(http.StatusOK, gin.H{
		key:     data,
		"count": count,
	})
}
