package repository

import (
	"context"

	"gorm.io/gorm"

	"schedule-planner/internal/model"
	pkgerrors "schedule-planner/pkg/errors"
)

// PreferenceRepository 偏好数据访问接口
type PreferenceRepository interface {
	Create(ctx context.Context, profile *model.PreferenceProfile) error
	GetBySession(ctx context.Context, sessionID string) (*model.PreferenceProfile, error)
	Update(ctx context.Context, profile *model.PreferenceProfile) error
	DeleteBySession(ctx context.Context, sessionID string) error
}

type preferenceRepo struct {
	db *gorm.DB
}

// NewPreferenceRepo 创建 PreferenceRepository 实例
func NewPreferenceRepo(db *gorm.DB) PreferenceRepository {
	return &preferenceRepo{db: db}
}

func (r *preferenceRepo) Create(ctx context.Context, profile *model.PreferenceProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *preferenceRepo) GetBySession(ctx context.Context, sessionID string) (*model.PreferenceProfile, error) {
	var profile model.PreferenceProfile
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update 带乐观锁的更新：version 不匹配时返回 ErrOptimisticLock
func (r *preferenceRepo) Update(ctx context.Context, profile *model.PreferenceProfile) error {
	oldVersion := profile.Version
	result := r.db.WithContext(ctx).
		Model(profile).
		Where("profile_id = ? AND version = ?", profile.ProfileID, oldVersion).
		Updates(map[string]interface{}{
			"time_of_day":         profile.TimeOfDay,
			"finals":              profile.Finals,
			"day_off":             profile.DayOff,
			"modality":            profile.Modality,
			"liberal_arts":        profile.LiberalArts,
			"disliked_professors": profile.DislikedProfessors,
			"updated_at":          gorm.Expr("CURRENT_TIMESTAMP"),
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	profile.Version = oldVersion + 1
	return nil
}

func (r *preferenceRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&model.PreferenceProfile{}).Error
}
