package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"schedule-planner/internal/dto"
	"schedule-planner/pkg/jwt"
)

// ── 会话模块业务错误 ──

var ErrSessionIssueFailed = errors.New("会话创建失败")

// SessionService 匿名会话接口
type SessionService interface {
	Start(ctx context.Context) (*dto.SessionResponse, error)
}

type sessionService struct {
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(jwtMgr *jwt.Manager, logger *zap.Logger) SessionService {
	return &sessionService{jwtMgr: jwtMgr, logger: logger}
}

// Start 签发新的会话 ID 与访问 Token
func (s *sessionService) Start(_ context.Context) (*dto.SessionResponse, error) {
	sessionID := uuid.New().String()

	token, expiresAt, err := s.jwtMgr.GenerateSessionToken(sessionID)
	if err != nil {
		s.logger.Error("签发会话 Token 失败", zap.Error(err))
		return nil, ErrSessionIssueFailed
	}

	s.logger.Info("新会话", zap.String("session_id", sessionID))
	return &dto.SessionResponse{
		SessionID:   sessionID,
		AccessToken: token,
		ExpiresIn:   int(time.Until(expiresAt).Seconds()),
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}
