package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求 ID 的 HTTP 头
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey gin.Context 中保存请求 ID 的 key
	RequestIDKey = "request_id"
)

// RequestID 沿用客户端传入的 X-Request-ID，没有时生成一个，并写回响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
