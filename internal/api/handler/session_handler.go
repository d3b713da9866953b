package handler

import (
	"github.com/gin-gonic/gin"

	"schedule-planner/internal/service"
	"schedule-planner/pkg/response"
)

// SessionHandler 会话模块 HTTP 处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// StartSession 开始匿名会话
// POST /api/v1/sessions
func (h *SessionHandler) StartSession(c *gin.Context) {
	session, err := h.sessionSvc.Start(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, session)
}
