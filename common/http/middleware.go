package http

import (
	"net/http"
	"time"

	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/common/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CORS 跨域中间件
func CorsMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		method := c.Method()
		origin := c.GetHeader("Origin")

		if origin != "" {
			c.SetHeader("Access-Control-Allow-Origin", "*")
			c.SetHeader("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
			c.SetHeader("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, X-Request-ID")
			c.SetHeader("Access-Control-Expose-Headers", "Content-Length, Content-Type, X-Request-ID")
		}

		// 处理预检请求
		if method == "OPTIONS" {
			c.AbortWithStatus(204)
			return nil
		}

		return nil
	}
}

// RequestID 请求 ID 中间件
func RequestIDMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set("requestID", requestID)
		c.SetHeader("X-Request-ID", requestID)

		return nil
	}
}

// requestLogger 请求结束后记录耗时，替代 gin.Logger 统一走 common/log
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		if status >= 500 {
			log.Warn("HTTP %s %s %d in %v from %s", c.Request.Method, c.Request.URL.Path, status, latency, c.ClientIP())
			return
		}
		log.Debug("HTTP %s %s %d in %v from %s", c.Request.Method, c.Request.URL.Path, status, latency, c.ClientIP())
	}
}

// RateLimitMiddleware 全局令牌桶限流，超限返回 429
func RateLimitMiddleware(limiter *utils.RateLimiter) MiddlewareFunc {
	return func(c *Context) error {
		if limiter.Allow() {
			return nil
		}
		c.ErrorWithStatus(http.StatusTooManyRequests, CodeTooManyRequests, MsgTooManyRequests)
		c.Abort()
		return nil
	}
}
