package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"schedule-planner/pkg/response"
)

// RateLimiter 滑动窗口限流器（pkg/redis.Client 实现）
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 限制单个会话（未认证时按 IP）在窗口内的请求数
// limiter 为 nil 或 limit<=0 时直接放行；限流器出错时降级放行
func RateLimit(limiter RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		subject := c.ClientIP()
		if sid := c.GetString(SessionIDKey); sid != "" {
			subject = sid
		}
		key := fmt.Sprintf("planner:rate_limit:%s:%s", subject, c.FullPath())

		allowed, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			response.TooManyRequests(c, "生成过于频繁，请稍后再试", int(window.Seconds()))
			c.Abort()
			return
		}

		c.Next()
	}
}
