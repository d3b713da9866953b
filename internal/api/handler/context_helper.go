package handler

import (
	"github.com/gin-gonic/gin"

	"schedule-planner/internal/api/middleware"
	"schedule-planner/pkg/response"
)

// MustGetSessionID 从 Gin 上下文中提取 session_id。
// SessionAuth 未注入时写入 401 响应并返回 false，调用方应直接 return。
func MustGetSessionID(c *gin.Context) (string, bool) {
	sid := c.GetString(middleware.SessionIDKey)
	if sid == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return sid, true
}
