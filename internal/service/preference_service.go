package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"schedule-planner/config"
	"schedule-planner/internal/dto"
	"schedule-planner/internal/metrics"
	"schedule-planner/internal/model"
	"schedule-planner/internal/planner"
	"schedule-planner/internal/repository"
	pkgerrors "schedule-planner/pkg/errors"
)

// ── 偏好模块业务错误 ──

var (
	ErrTooManyPreferences = planner.ErrTooManyPreferences
	ErrInvalidPreference  = planner.ErrInvalidPreference
	ErrPreferenceConflict = pkgerrors.ErrOptimisticLock
)

// PreferenceService 偏好业务接口
//
// 读取顺序：Redis 缓存 → 数据库 → 默认（全部无偏好）
// 任何修改在校验通过前不写入存储
type PreferenceService interface {
	Get(ctx context.Context, sessionID string) (*dto.PreferenceResponse, error)
	Current(ctx context.Context, sessionID string) (planner.PreferenceSet, error)
	UpdateField(ctx context.Context, sessionID string, req *dto.UpdatePreferenceFieldRequest) (*dto.PreferenceResponse, error)
	Save(ctx context.Context, sessionID string, req *dto.PreferenceRequest) (*dto.PreferenceResponse, error)
	Reset(ctx context.Context, sessionID string) (*dto.PreferenceResponse, error)
}

type preferenceService struct {
	cfg      *config.PlannerConfig
	cacheTTL time.Duration
	repo     *repository.Repository
	cache    PreferenceCache
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewPreferenceService 创建 PreferenceService 实例
func NewPreferenceService(
	cfg *config.PlannerConfig,
	cacheTTL time.Duration,
	repo *repository.Repository,
	cache PreferenceCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) PreferenceService {
	return &preferenceService{
		cfg:      cfg,
		cacheTTL: cacheTTL,
		repo:     repo,
		cache:    cache,
		metrics:  m,
		logger:   logger,
	}
}

// ────────────────────── Get ──────────────────────

func (s *preferenceService) Get(ctx context.Context, sessionID string) (*dto.PreferenceResponse, error) {
	prefs, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return dto.NewPreferenceResponse(prefs, s.cfg.MaxActivePreferences), nil
}

func (s *preferenceService) Current(ctx context.Context, sessionID string) (planner.PreferenceSet, error) {
	if prefs, ok := s.fromCache(ctx, sessionID); ok {
		return prefs, nil
	}

	profile, err := s.repo.Preference.GetBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return planner.PreferenceSet{}, nil
		}
		s.logger.Error("查询偏好失败", zap.String("session_id", sessionID), zap.Error(err))
		return planner.PreferenceSet{}, err
	}

	prefs := profile.Preferences()
	s.toCache(ctx, sessionID, prefs)
	return prefs, nil
}

// ────────────────────── UpdateField ──────────────────────

func (s *preferenceService) UpdateField(ctx context.Context, sessionID string, req *dto.UpdatePreferenceFieldRequest) (*dto.PreferenceResponse, error) {
	cur, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next, err := cur.With(planner.Field(req.Field), req.Value)
	if err != nil {
		s.metrics.IncRejection(metrics.ReasonInvalid)
		return nil, err
	}
	if err := s.checkLimit(next); err != nil {
		return nil, err
	}

	if err := s.store(ctx, sessionID, next); err != nil {
		return nil, err
	}
	return dto.NewPreferenceResponse(next, s.cfg.MaxActivePreferences), nil
}

// ────────────────────── Save ──────────────────────

func (s *preferenceService) Save(ctx context.Context, sessionID string, req *dto.PreferenceRequest) (*dto.PreferenceResponse, error) {
	prefs, err := s.validate(req.ToPreferenceSet())
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, sessionID, prefs); err != nil {
		return nil, err
	}
	return dto.NewPreferenceResponse(prefs, s.cfg.MaxActivePreferences), nil
}

// ────────────────────── Reset ──────────────────────

func (s *preferenceService) Reset(ctx context.Context, sessionID string) (*dto.PreferenceResponse, error) {
	if err := s.repo.Preference.DeleteBySession(ctx, sessionID); err != nil {
		s.logger.Error("重置偏好失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.DeletePreferences(ctx, sessionID); err != nil {
			s.logger.Warn("清除偏好缓存失败", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	return dto.NewPreferenceResponse(planner.PreferenceSet{}, s.cfg.MaxActivePreferences), nil
}

// ── 内部方法 ──

// validate 规范化并检查生效项上限
func (s *preferenceService) validate(p planner.PreferenceSet) (planner.PreferenceSet, error) {
	prefs, err := p.Normalize()
	if err != nil {
		s.metrics.IncRejection(metrics.ReasonInvalid)
		return p, err
	}
	if err := s.checkLimit(prefs); err != nil {
		return p, err
	}
	return prefs, nil
}

func (s *preferenceService) checkLimit(p planner.PreferenceSet) error {
	if err := planner.ValidateLimit(p, s.cfg.MaxActivePreferences); err != nil {
		s.metrics.IncRejection(metrics.ReasonTooMany)
		return err
	}
	return nil
}

// store 写入数据库（不存在则创建），成功后刷新缓存
func (s *preferenceService) store(ctx context.Context, sessionID string, prefs planner.PreferenceSet) error {
	profile, err := s.repo.Preference.GetBySession(ctx, sessionID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = &model.PreferenceProfile{SessionID: sessionID}
		profile.Apply(prefs)
		if err := s.repo.Preference.Create(ctx, profile); err != nil {
			s.logger.Error("创建偏好失败", zap.String("session_id", sessionID), zap.Error(err))
			return err
		}
	case err != nil:
		s.logger.Error("查询偏好失败", zap.String("session_id", sessionID), zap.Error(err))
		return err
	default:
		profile.Apply(prefs)
		if err := s.repo.Preference.Update(ctx, profile); err != nil {
			if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
				s.logger.Error("更新偏好失败", zap.String("session_id", sessionID), zap.Error(err))
			}
			return err
		}
	}

	s.toCache(ctx, sessionID, prefs)
	return nil
}

func (s *preferenceService) fromCache(ctx context.Context, sessionID string) (planner.PreferenceSet, bool) {
	var prefs planner.PreferenceSet
	if s.cache == nil {
		return prefs, false
	}
	payload, found, err := s.cache.GetPreferences(ctx, sessionID)
	if err != nil {
		s.logger.Warn("读取偏好缓存失败", zap.String("session_id", sessionID), zap.Error(err))
		return prefs, false
	}
	if !found {
		return prefs, false
	}
	if err := json.Unmarshal(payload, &prefs); err != nil {
		s.logger.Warn("偏好缓存内容损坏", zap.String("session_id", sessionID), zap.Error(err))
		return prefs, false
	}
	return prefs, true
}

func (s *preferenceService) toCache(ctx context.Context, sessionID string, prefs planner.PreferenceSet) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	if err := s.cache.SetPreferences(ctx, sessionID, payload, s.cacheTTL); err != nil {
		s.logger.Warn("写入偏好缓存失败", zap.String("session_id", sessionID), zap.Error(err))
	}
}
